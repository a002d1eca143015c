package access_test

import (
	"testing"

	"github.com/mindcare/go-access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRoute() access.RouteSpec {
	return access.RouteSpec{Path: "/", Roles: []access.Role{access.RoleAdmin}}
}

func sessionWithRole(role access.Role) access.Session {
	return access.Session{Identity: newStubIdentity("someone@mindcare.com"), Role: role}
}

func TestEvaluateShowLoadingWinsOverEverything(t *testing.T) {
	// While loading, role and identity are irrelevant.
	loading := access.Session{Loading: true}
	assert.Equal(t, access.ShowLoading, access.Evaluate(loading, adminRoute()))
	assert.Equal(t, access.ShowLoading, access.Evaluate(loading, access.RouteSpec{Path: "/open"}))

	loadingWithIdentity := access.Session{Identity: newStubIdentity("a@x.com"), Role: access.RoleAdmin, Loading: true}
	assert.Equal(t, access.ShowLoading, access.Evaluate(loadingWithIdentity, adminRoute()))
}

func TestEvaluateAbsentIdentityRedirects(t *testing.T) {
	assert.Equal(t, access.RedirectLogin, access.Evaluate(access.Session{}, adminRoute()))
	assert.Equal(t, access.RedirectLogin, access.Evaluate(access.Session{}, access.RouteSpec{Path: "/open"}))
}

func TestEvaluateRoleChecks(t *testing.T) {
	admin := sessionWithRole(access.RoleAdmin)
	scientist := sessionWithRole(access.RoleDataScientist)
	unresolved := sessionWithRole("")

	assert.Equal(t, access.Allow, access.Evaluate(admin, adminRoute()))
	assert.Equal(t, access.RedirectLogin, access.Evaluate(scientist, adminRoute()))
	assert.Equal(t, access.RedirectLogin, access.Evaluate(unresolved, adminRoute()))

	recommendations := access.RouteSpec{Path: "/recommendations", Roles: []access.Role{access.RoleDataScientist}}
	assert.Equal(t, access.Allow, access.Evaluate(scientist, recommendations))
	assert.Equal(t, access.RedirectLogin, access.Evaluate(admin, recommendations))
}

func TestEvaluateEmptyRoleSetMeansAnyAuthenticated(t *testing.T) {
	open := access.RouteSpec{Path: "/profile"}

	assert.Equal(t, access.Allow, access.Evaluate(sessionWithRole(access.RoleUser), open))
	// Even an unresolved role passes an empty requirement; only identity
	// matters.
	assert.Equal(t, access.Allow, access.Evaluate(sessionWithRole(""), open))
	assert.Equal(t, access.RedirectLogin, access.Evaluate(access.Session{}, open))
}

func TestEvaluateIsStable(t *testing.T) {
	session := sessionWithRole(access.RoleAdmin)
	route := adminRoute()

	first := access.Evaluate(session, route)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, access.Evaluate(session, route))
	}
}

func TestRouteSpecAllows(t *testing.T) {
	route := access.RouteSpec{Path: "/", Roles: []access.Role{access.RoleAdmin, access.RoleCounsellor}}

	assert.True(t, route.Allows(access.RoleAdmin))
	assert.True(t, route.Allows(access.RoleCounsellor))
	assert.False(t, route.Allows(access.RoleUser))
	assert.False(t, route.Allows(""))

	anyRole := access.RouteSpec{Path: "/open"}
	assert.True(t, anyRole.Allows(""))
	assert.True(t, anyRole.Allows(access.RoleUser))
}

func TestDefaultRoutes(t *testing.T) {
	routes := access.DefaultRoutes()
	assert.Len(t, routes, 7)

	root, ok := access.FindRoute(routes, "/")
	require.True(t, ok)
	assert.Equal(t, []access.Role{access.RoleAdmin}, root.Roles)

	recommendations, ok := access.FindRoute(routes, "/recommendations")
	require.True(t, ok)
	assert.Equal(t, []access.Role{access.RoleDataScientist}, recommendations.Roles)

	_, ok = access.FindRoute(routes, "/nope")
	assert.False(t, ok)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", access.Allow.String())
	assert.Equal(t, "redirect-login", access.RedirectLogin.String())
	assert.Equal(t, "show-loading", access.ShowLoading.String())
	assert.Equal(t, "unknown", access.Decision(42).String())
}
