package api

import "context"

// TokenSource yields the access token to attach to authorized requests.
// An empty token means "no session".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// AuthorizationHeader builds the Authorization header value for token.
// It is empty when no token is held.
func AuthorizationHeader(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

type tokenCtxKey struct{}

// ContextWithToken pins the token used by authorized requests made with ctx,
// overriding the client's TokenSource. Logout uses it so the request still
// carries the token after the session has been cleared locally.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenCtxKey{}).(string)
	return t, ok
}
