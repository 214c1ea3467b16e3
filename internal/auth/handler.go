package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/platform/httpx"
	"github.com/thelab/backoffice/internal/shared"
	"github.com/thelab/backoffice/internal/view"
)

// HomePath is where a successful login lands.
const HomePath = "/produtos"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	pages      *view.Renderer
	loginLimit func(http.Handler) http.Handler
}

// NewHandler constructs a Handler. loginLimit, when set, wraps the login POST.
func NewHandler(logger *slog.Logger, service *Service, pages *view.Renderer, loginLimit func(http.Handler) http.Handler) *Handler {
	if loginLimit == nil {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{logger: logger, service: service, pages: pages, loginLimit: loginLimit}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showLogin)
	r.With(h.loginLimit).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email.required":    "Email é obrigatório.",
	"email.email":       "Email inválido.",
	"password.required": "Senha é obrigatória.",
}

type loginPageData struct {
	Email   string
	Errors  map[string]string
	Failure string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if shared.SessionFromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	h.pages.Page(w, r, "pages/login.html", "Login", loginPageData{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if errs := crud.Check(form, loginMessages); errs != nil {
		h.pages.Page(w, r, "pages/login.html", "Login", loginPageData{Email: form.Email, Errors: errs}, http.StatusUnprocessableEntity)
		return
	}

	token, op, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", form.Email), slog.Any("error", err))
		h.pages.Page(w, r, "pages/login.html", "Login", loginPageData{Email: form.Email, Failure: FailureMessage(err)}, httpx.StatusFor(err))
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.SignIn(token, op)
	h.logger.Info("login", slog.String("email", op.Email))
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SignOut()
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Sessão encerrada."})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
