package access

import (
	"context"
	"sort"

	goerrors "github.com/goliatone/go-errors"
)

// RoleResolver maps an identity to its authorization role via a single read
// against the role-assignment store. It performs no retries; callers treat
// any failure as "no role", not as a fatal error.
type RoleResolver struct {
	store  RoleStore
	logger Logger
	strict bool
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*RoleResolver)

// WithStrictResolution makes multiple role rows fail with ErrAmbiguousRole
// instead of deterministically picking one.
func WithStrictResolution() ResolverOption {
	return func(r *RoleResolver) {
		r.strict = true
	}
}

// NewRoleResolver returns a new RoleResolver
func NewRoleResolver(store RoleStore, opts ...ResolverOption) *RoleResolver {
	resolver := &RoleResolver{
		store:  store,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}

	return resolver
}

func (r *RoleResolver) WithLogger(logger Logger) *RoleResolver {
	r.logger = logger
	return r
}

// Resolve returns the role assigned to the identity.
//
// Zero rows fail with ErrRoleNotFound. Multiple rows violate the store's
// one-row invariant; by default the oldest row wins deterministically and a
// warning is logged so login never blocks on a dirty table. Strict mode
// fails with ErrAmbiguousRole instead.
func (r *RoleResolver) Resolve(ctx context.Context, identityID string) (Role, error) {
	rows, err := r.store.SelectByIdentity(ctx, identityID)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "role assignment lookup failed").
			WithMetadata(map[string]any{"identity_id": identityID})
	}

	if len(rows) == 0 {
		return "", ErrRoleNotFound
	}

	if len(rows) > 1 {
		if r.strict {
			return "", ErrAmbiguousRole
		}
		sortAssignments(rows)
		r.logger.Warn("identity %s has %d role rows, picking oldest: %s",
			identityID, len(rows), rows[0].Role)
	}

	role := rows[0].Role
	if !IsValid(role) {
		// Deny via "not in the required set" rather than failing login.
		r.logger.Warn("identity %s resolved to unrecognized role %q", identityID, role)
	}

	return role, nil
}

// sortAssignments orders rows oldest first, id as tiebreaker, so the pick
// is stable across calls and processes.
func sortAssignments(rows []*RoleAssignment) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return a.ID.String() < b.ID.String()
		case a.CreatedAt == nil:
			return true
		case b.CreatedAt == nil:
			return false
		case a.CreatedAt.Equal(*b.CreatedAt):
			return a.ID.String() < b.ID.String()
		default:
			return a.CreatedAt.Before(*b.CreatedAt)
		}
	})
}
