package shared

import "context"

type (
	sessionContextKey  struct{}
	apiTokenContextKey struct{}
)

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithAPIToken stores the bearer token checked by RequireAPIToken.
func ContextWithAPIToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, apiTokenContextKey{}, token)
}

// APITokenFromContext returns the bearer token for the current request.
func APITokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(apiTokenContextKey{}).(string)
	return token
}
