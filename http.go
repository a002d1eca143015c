package access

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// RouteGuard adapts the access gate to go-router middleware for
// server-rendered deployments. Decisions map to HTTP behavior: Allow calls
// the next handler, RedirectLogin issues a redirect, and ShowLoading defers
// with a retryable status.
type RouteGuard struct {
	store  *SessionStore
	cfg    Config
	Logger Logger

	// LoadingHandler runs for ShowLoading decisions. Defaults to a 503 with
	// a short retry hint.
	LoadingHandler func(c router.Context) error
	// DenyHandler runs for RedirectLogin decisions. Defaults to a redirect
	// to the configured login route.
	DenyHandler func(c router.Context) error
}

// NewRouteGuard returns a new RouteGuard
func NewRouteGuard(store *SessionStore, cfg Config) *RouteGuard {
	g := &RouteGuard{
		store:  store,
		cfg:    cfg,
		Logger: defLogger{},
	}

	g.LoadingHandler = g.defaultLoadingHandler
	g.DenyHandler = g.defaultDenyHandler

	return g
}

// Protected gates a route on the current session snapshot.
func (g *RouteGuard) Protected(route RouteSpec) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			session := g.store.Current()

			switch Evaluate(session, route) {
			case Allow:
				c.Locals(SessionLocalsKey, session)
				c.SetContext(WithSessionContext(c.Context(), session))
				return next(c)
			case ShowLoading:
				return g.LoadingHandler(c)
			default:
				g.Logger.Debug("denying route %s for %s", route.Path, session.String())
				return g.DenyHandler(c)
			}
		}
	}
}

func (g *RouteGuard) defaultLoadingHandler(c router.Context) error {
	c.Status(http.StatusServiceUnavailable)
	return nil
}

func (g *RouteGuard) defaultDenyHandler(c router.Context) error {
	login := "/login"
	if g.cfg != nil && g.cfg.GetLoginRoute() != "" {
		login = g.cfg.GetLoginRoute()
	}
	return c.Redirect(login, http.StatusSeeOther)
}
