package access

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. The auth
// collaborator owns the record; holders keep a non-owning reference that is
// only meaningful while a session is active.
type Identity interface {
	ID() string
	Email() string
	CreatedAt() time.Time
}

// AuthEventType enumerates session-change notifications.
type AuthEventType string

const (
	AuthEventSignedIn  AuthEventType = "SIGNED_IN"
	AuthEventSignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent is delivered to OnSessionChange listeners. Identity is nil for
// SIGNED_OUT events.
type AuthEvent struct {
	Type     AuthEventType
	Identity Identity
}

// AuthCallback receives session-change notifications.
type AuthCallback func(event AuthEvent)

// AuthClient is the external identity provider contract. Implementations
// wrap a hosted auth product; the core never inspects tokens or credentials
// beyond this surface.
type AuthClient interface {
	// SignUp registers a new identity. Duplicate registrations fail with an
	// error matching IsAlreadyRegisteredError.
	SignUp(ctx context.Context, email, password string, attributes map[string]any) (string, error)

	// SignInWithPassword authenticates and establishes the current session.
	// Bad credentials fail with an error matching IsInvalidCredentialsError.
	SignInWithPassword(ctx context.Context, email, password string) (Identity, error)

	// GetCurrentSession returns the active identity, or nil when no session
	// exists (page reloads, persisted tokens).
	GetCurrentSession(ctx context.Context) (Identity, error)

	// FindIdentityByEmail looks up an existing identity without
	// authenticating it.
	FindIdentityByEmail(ctx context.Context, email string) (Identity, error)

	// OnSessionChange registers a listener for sign-in, sign-out, and token
	// refresh events. The returned function removes the listener.
	OnSessionChange(fn AuthCallback) func()

	// SignOut terminates the current session. Local state updates
	// immediately; any network round-trip happens in the background.
	SignOut(ctx context.Context) error
}

// RoleStore is the role-assignment collaborator: a row-level read/write API
// over the user_roles table.
type RoleStore interface {
	SelectByIdentity(ctx context.Context, identityID string) ([]*RoleAssignment, error)
	UpsertRole(ctx context.Context, identityID string, role Role) error
}

// Config holds access options
type Config interface {
	GetAuthBaseURL() string
	GetAuthAPIKey() string
	GetLoginRoute() string
	GetDefaultRedirect() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCESS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCESS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCESS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCESS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
