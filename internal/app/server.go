package app

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/thelab/backoffice/internal/accounts"
	"github.com/thelab/backoffice/internal/activity"
	"github.com/thelab/backoffice/internal/auth"
	"github.com/thelab/backoffice/internal/catalog"
	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/observability"
	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/platform/cache"
	"github.com/thelab/backoffice/internal/promotions"
	"github.com/thelab/backoffice/internal/shared"
	"github.com/thelab/backoffice/internal/view"
	"github.com/thelab/backoffice/jobs"
)

// Deps are the connections owned by the caller.
type Deps struct {
	Redis *redis.Client
	// Recorder receives activity events; nil discards them.
	Recorder  activity.Recorder
	Inspector jobs.QueueInspector
	Metrics   *observability.Metrics
	// HTTPClient overrides the client used for the remote API.
	HTTPClient *http.Client
}

// NewHandler assembles the back office: API client, resource screens, auth
// and the router.
func NewHandler(cfg *Config, logger *slog.Logger, deps Deps) (http.Handler, error) {
	templates, err := view.NewEngine()
	if err != nil {
		return nil, err
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout,
		apiclient.WithHTTPClient(deps.HTTPClient),
		apiclient.WithObserver(deps.Metrics),
	)

	sessions := shared.NewSessionManager(deps.Redis, "backoffice_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	pages := view.NewRenderer(templates, csrf, logger)

	products := catalog.New(api, cache.NewVersioned(deps.Redis, "backoffice:catalog", cfg.CatalogCacheTTL), logger)

	recorder := deps.Recorder
	if recorder == nil {
		recorder = activity.Discard{}
	}

	resources := map[string]Mounter{
		"/produtos":  crud.NewHandler[catalog.Product](products.Resource(), products.Gateway(), pages, recorder, logger),
		"/promocoes": crud.NewHandler[promotions.Promotion](promotions.NewResource(products), promotions.NewGateway(api), pages, recorder, logger),
		"/usuarios":  crud.NewHandler[accounts.User](accounts.NewResource(), accounts.NewGateway(api), pages, recorder, logger),
	}

	var jobHandler *jobs.Handler
	if deps.Inspector != nil {
		jobHandler = jobs.NewHandler(deps.Inspector, logger)
	}

	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		Pages:          pages,
		SessionManager: sessions,
		CSRFManager:    csrf,
		AuthHandler:    auth.NewHandler(logger, auth.NewService(api), pages, LoginLimit(cfg)),
		Resources:      resources,
		Feed:           activity.NewFeed(deps.Redis, cfg.ActivityFeedSize),
		JobHandler:     jobHandler,
		Metrics:        deps.Metrics,
	}), nil
}
