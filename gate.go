package access

// Decision is the outcome of gating a route against a session snapshot.
type Decision int

const (
	// Allow renders the protected content.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login route. Wrong-role
	// requests redirect too; there is no distinct forbidden outcome.
	RedirectLogin
	// ShowLoading defers the decision while the session is still resolving.
	ShowLoading
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case ShowLoading:
		return "show-loading"
	default:
		return "unknown"
	}
}

// RouteSpec declares which roles may view a route. An empty Roles set means
// any authenticated role.
type RouteSpec struct {
	Path  string `json:"path"`
	Roles []Role `json:"roles,omitempty"`
}

// Allows reports whether the role satisfies the route's requirement.
func (r RouteSpec) Allows(role Role) bool {
	if len(r.Roles) == 0 {
		return true
	}

	for _, required := range r.Roles {
		if role != "" && role == required {
			return true
		}
	}

	return false
}

// Evaluate is the access gate: a pure decision over the session snapshot
// and a route's required-role set. It has no side effects and is safe to
// call on every render or poll.
func Evaluate(session Session, route RouteSpec) Decision {
	if session.IsLoading() {
		return ShowLoading
	}

	if !session.IsAuthenticated() {
		return RedirectLogin
	}

	if !route.Allows(session.Role) {
		return RedirectLogin
	}

	return Allow
}

// DefaultRoutes reproduces the dashboard's protected route table: the admin
// panel pages and the data-scientist recommendations page.
func DefaultRoutes() []RouteSpec {
	return []RouteSpec{
		{Path: "/", Roles: []Role{RoleAdmin}},
		{Path: "/mood-logging", Roles: []Role{RoleAdmin}},
		{Path: "/ai-analysis", Roles: []Role{RoleAdmin}},
		{Path: "/counselors", Roles: []Role{RoleAdmin}},
		{Path: "/sessions", Roles: []Role{RoleAdmin}},
		{Path: "/crisis", Roles: []Role{RoleAdmin}},
		{Path: "/recommendations", Roles: []Role{RoleDataScientist}},
	}
}

// FindRoute looks a path up in a route table.
func FindRoute(routes []RouteSpec, path string) (RouteSpec, bool) {
	for _, route := range routes {
		if route.Path == path {
			return route, true
		}
	}
	return RouteSpec{}, false
}
