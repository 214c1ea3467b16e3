package app

import (
	"log/slog"
	"net/http"

	"github.com/thelab/backoffice/internal/activity"
	"github.com/thelab/backoffice/internal/view"
)

const homeEventLimit = 20

type homePageData struct {
	Events  []activity.Event
	Failure string
}

// homeHandler renders the dashboard with the latest activity. Without a
// feed the activity block is omitted.
func homeHandler(feed *activity.Feed, pages *view.Renderer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			pages.Page(w, r, "pages/home.html", "Início", nil, http.StatusOK)
			return
		}
		data := homePageData{}
		events, err := feed.Recent(r.Context(), homeEventLimit)
		if err != nil {
			logger.Warn("load activity feed", slog.Any("error", err))
			data.Failure = "Não foi possível carregar a atividade recente."
		}
		data.Events = events
		pages.Page(w, r, "pages/home.html", "Início", data, http.StatusOK)
	}
}
