package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "backoffice_session", "session-secret", time.Hour, false), mr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ana@lab.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

// roundTrip commits sess and loads it back through the issued cookie.
func roundTrip(t *testing.T, sm *SessionManager, sess *Session) *Session {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	loaded, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	return loaded
}

func TestFlashSurvivesRedirect(t *testing.T) {
	sm, _ := newTestManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.AddFlash(FlashMessage{Kind: "success", Message: "Produto excluído com sucesso!"})

	next := roundTrip(t, sm, sess)
	flash := next.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Produto excluído com sucesso!", flash.Message)

	after := roundTrip(t, sm, next)
	assert.Nil(t, after.PopFlash())
}

func TestUnknownCookieGetsFreshID(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "attacker-chosen"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", sess.ID)
}

func TestForgedSignatureIsRejected(t *testing.T) {
	sm, _ := newTestManager(t)
	known := roundTrip(t, sm, sm.newSession())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: known.ID + ".forged"})
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, known.ID, sess.ID)
}

func TestSignInRotatesID(t *testing.T) {
	sm, mr := newTestManager(t)
	sess := roundTrip(t, sm, sm.newSession())
	oldID := sess.ID

	sess.SignIn("opaque", Operator{Email: "ana@lab.com"})
	loaded := roundTrip(t, sm, sess)

	assert.NotEqual(t, oldID, loaded.ID)
	assert.False(t, mr.Exists("backoffice:session:"+oldID))
	assert.True(t, loaded.Authenticated())
	require.NotNil(t, loaded.Operator())
	assert.Equal(t, "ana@lab.com", loaded.Operator().Label())
}

func TestAPIToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	live := signedToken(t, now.Add(time.Hour))
	stale := signedToken(t, now.Add(-time.Minute))

	cases := []struct {
		name  string
		token string
		err   error
	}{
		{name: "signed out", token: "", err: ErrNotSignedIn},
		{name: "opaque token", token: "opaque-token"},
		{name: "live jwt", token: live},
		{name: "expired jwt", token: stale, err: ErrSessionExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := &Session{}
			if tc.token != "" {
				sess.SignIn(tc.token, Operator{Email: "ana@lab.com"})
			}
			got, err := sess.APIToken(now)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.token, got)
		})
	}
}

func TestSignOutKeepsFlashes(t *testing.T) {
	sess := &Session{}
	sess.SignIn("tok", Operator{Name: "Ana", Email: "ana@lab.com"})
	sess.AddFlash(FlashMessage{Kind: "success", Message: "Até logo!"})
	sess.SignOut()

	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.Operator())
	require.NotNil(t, sess.PopFlash())
}

func TestDestroyClearsCookie(t *testing.T) {
	sm, mr := newTestManager(t)
	sess := roundTrip(t, sm, sm.newSession())
	sm.Destroy(sess)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.False(t, mr.Exists("backoffice:session:"+sess.ID))
}

func TestMiddlewareCommitsBeforeBody(t *testing.T) {
	sm, _ := newTestManager(t)
	h := sm.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		require.NotNil(t, sess)
		sess.AddFlash(FlashMessage{Kind: "success", Message: "ok"})
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(cookies[0])
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "ok", flash.Message)
}
