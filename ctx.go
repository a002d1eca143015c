package access

import (
	"context"

	"github.com/goliatone/go-router"
)

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// SessionLocalsKey is the router locals key the guard stores sessions under.
const SessionLocalsKey = "session"

// WithSessionContext sets the Session in the given context
func WithSessionContext(r context.Context, session Session) context.Context {
	return context.WithValue(r, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(Session)
	return raw, ok
}

// SessionFromRouter extracts the Session from the router context
func SessionFromRouter(ctx router.Context, key string) (Session, bool) {
	if key == "" {
		key = SessionLocalsKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return Session{}, false
	}
	session, ok := raw.(Session)
	return session, ok
}

// Can is a convenience function to check route access directly from the
// standard context. Use CanFromRouter for router-based contexts.
func Can(ctx context.Context, route RouteSpec) bool {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return false
	}
	return Evaluate(session, route) == Allow
}

// CanFromRouter is a convenience function to check route access directly from
// the router context
func CanFromRouter(ctx router.Context, route RouteSpec) bool {
	session, ok := SessionFromRouter(ctx, "")
	if !ok {
		return false
	}
	return Evaluate(session, route) == Allow
}
