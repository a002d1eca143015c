package access

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles is the persistent role-assignment repository.
type Roles interface {
	repository.Repository[*RoleAssignment]

	SelectByIdentity(ctx context.Context, identityID string) ([]*RoleAssignment, error)
	SelectByIdentityTx(ctx context.Context, tx bun.IDB, identityID string) ([]*RoleAssignment, error)

	UpsertRole(ctx context.Context, identityID string, role Role) error
	UpsertRoleTx(ctx context.Context, tx bun.IDB, identityID string, role Role) error
}

type roleAssignments struct {
	repository.Repository[*RoleAssignment]
	db *bun.DB
}

var (
	_ Roles     = (*roleAssignments)(nil)
	_ RoleStore = (*roleAssignments)(nil)
)

// NewRolesRepository returns a bun-backed Roles repository.
func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*RoleAssignment](db, repository.ModelHandlers[*RoleAssignment]{
		NewRecord: func() *RoleAssignment { return &RoleAssignment{} },
		GetID: func(r *RoleAssignment) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *RoleAssignment, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &roleAssignments{
		Repository: repo,
		db:         db,
	}
}

func (a *roleAssignments) SelectByIdentity(ctx context.Context, identityID string) ([]*RoleAssignment, error) {
	return a.SelectByIdentityTx(ctx, a.db, identityID)
}

// SelectByIdentityTx returns every role row for the identity, oldest first
// so resolution picks are stable.
func (a *roleAssignments) SelectByIdentityTx(ctx context.Context, tx bun.IDB, identityID string) ([]*RoleAssignment, error) {
	userID, err := uuid.Parse(identityID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid identity id").
			WithMetadata(map[string]any{"identity_id": identityID})
	}

	var records []*RoleAssignment
	err = tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *roleAssignments) UpsertRole(ctx context.Context, identityID string, role Role) error {
	return a.UpsertRoleTx(ctx, a.db, identityID, role)
}

// UpsertRoleTx inserts a role assignment keyed by (user_id, role). Repeated
// runs never create duplicate rows.
func (a *roleAssignments) UpsertRoleTx(ctx context.Context, tx bun.IDB, identityID string, role Role) error {
	userID, err := uuid.Parse(identityID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid identity id").
			WithMetadata(map[string]any{"identity_id": identityID})
	}

	record := &RoleAssignment{
		ID:     uuid.New(),
		UserID: userID,
		Role:   role,
	}

	_, err = tx.NewInsert().
		Model(record).
		On("CONFLICT (user_id, role) DO NOTHING").
		Exec(ctx)

	return err
}
