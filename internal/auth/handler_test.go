package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelab/backoffice/internal/auth"
	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/shared"
	"github.com/thelab/backoffice/internal/view"
	_ "github.com/thelab/backoffice/testing"
)

type authFixture struct {
	router   *chi.Mux
	sessions *shared.SessionManager
	cookies  []*http.Cookie
}

// fakeAPI accepts secret1 for ana@lab.com and rejects everything else.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email != "ana@lab.com" || creds.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Credenciais inválidas"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"jwt-token","message":"ok","user":{"_id":"u1","name":"Ana"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAuthFixture(t *testing.T, apiURL string) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pages := view.NewRenderer(templates, shared.NewCSRFManager("csrfsecret"), logger)
	handler := auth.NewHandler(logger, auth.NewService(apiclient.New(apiURL, time.Second)), pages, nil)

	r := chi.NewRouter()
	r.Use(sessions.Middleware(logger))
	handler.MountRoutes(r)
	return &authFixture{router: r, sessions: sessions}
}

func (fx *authFixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range fx.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		fx.cookies = cookies
	}
	return rec
}

func (fx *authFixture) session(t *testing.T) *shared.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range fx.cookies {
		req.AddCookie(c)
	}
	sess, err := fx.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestLoginPage(t *testing.T) {
	fx := newAuthFixture(t, fakeAPI(t).URL)
	res := fx.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<form")
	assert.Contains(t, res.Body.String(), `action="/login"`)
}

func TestLoginRequiresFields(t *testing.T) {
	fx := newAuthFixture(t, "http://127.0.0.1:1")
	res := fx.do(t, http.MethodPost, "/login", url.Values{"email": {"not-an-email"}})

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Email inválido.")
	assert.Contains(t, body, "Senha é obrigatória.")
	assert.False(t, fx.session(t).Authenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	fx := newAuthFixture(t, fakeAPI(t).URL)
	res := fx.do(t, http.MethodPost, "/login", url.Values{"email": {"ana@lab.com"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "Credenciais inválidas")
	assert.False(t, fx.session(t).Authenticated())
}

func TestLoginConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	fx := newAuthFixture(t, srv.URL)
	res := fx.do(t, http.MethodPost, "/login", url.Values{"email": {"ana@lab.com"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), auth.MsgConnection)
}

func TestLoginSuccessAndLogout(t *testing.T) {
	fx := newAuthFixture(t, fakeAPI(t).URL)
	fx.do(t, http.MethodGet, "/", nil)

	res := fx.do(t, http.MethodPost, "/login", url.Values{"email": {"ana@lab.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, auth.HomePath, res.Header().Get("Location"))

	sess := fx.session(t)
	require.True(t, sess.Authenticated())
	token, err := sess.APIToken(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	require.NotNil(t, sess.Operator())
	assert.Equal(t, "Ana", sess.Operator().Label())

	res = fx.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, res.Code)

	res = fx.do(t, http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
	assert.False(t, fx.session(t).Authenticated())
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, auth.MsgInvalidCredentials, auth.FailureMessage(&apiclient.Error{Status: http.StatusUnauthorized}))
	assert.Equal(t, "Usuário bloqueado", auth.FailureMessage(&apiclient.Error{Status: http.StatusForbidden, Message: "Usuário bloqueado"}))
	assert.Equal(t, auth.MsgConnection, auth.FailureMessage(&apiclient.Error{Status: http.StatusInternalServerError}))
	assert.Equal(t, auth.MsgBadResponse, auth.FailureMessage(apiclient.ErrNoToken))
}
