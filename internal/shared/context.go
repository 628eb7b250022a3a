package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// IdentityFromContext returns the identity bound to the request's session,
// or nil for anonymous callers.
func IdentityFromContext(ctx context.Context) *Identity {
	sess := SessionFromContext(ctx)
	if sess == nil || !sess.Authenticated() {
		return nil
	}
	return sess.Identity()
}
