package view

import (
	"log/slog"
	"net/http"

	"github.com/thelab/backoffice/internal/shared"
)

// Renderer binds the engine to the request session: CSRF token, pending
// flash and signed-in operator.
type Renderer struct {
	engine *Engine
	csrf   *shared.CSRFManager
	logger *slog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(engine *Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Renderer {
	return &Renderer{engine: engine, csrf: csrf, logger: logger}
}

// Page renders template name with data as the page payload.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	td := TemplateData{
		Title:       title,
		CSRFToken:   rd.csrf.EnsureToken(sess),
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		Operator:    sess.Operator(),
		Menu:        Menu,
		Data:        data,
	}
	if err := rd.engine.Render(w, name, td, status); err != nil {
		rd.logger.Error("render template", slog.Any("error", err), slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Redirect queues a flash message and sends the browser to location.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
