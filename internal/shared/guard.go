package shared

import (
	"errors"
	"net/http"
	"time"
)

// RequireAPIToken lets a request through only when the session carries a
// live API token. Anything else is sent back to the login screen.
func RequireAPIToken(loginPath string, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			token, err := sess.APIToken(now())
			if err != nil {
				if errors.Is(err, ErrSessionExpired) {
					sess.SignOut()
				}
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithAPIToken(r.Context(), token)))
		})
	}
}

// ExpireSession signs the operator out after the API rejected the token.
func ExpireSession(w http.ResponseWriter, r *http.Request, loginPath string) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		sess.SignOut()
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
