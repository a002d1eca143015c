package access

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// IdentityUUID returns the session identity id parsed as a UUID, the form
// role-assignment lookups key on.
func IdentityUUID(session Session) (uuid.UUID, error) {
	if session.Identity == nil {
		return uuid.Nil, goerrors.New("session has no identity", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	id, err := uuid.Parse(session.Identity.ID())
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid identity id").
			WithMetadata(map[string]any{"identity_id": session.Identity.ID()})
	}

	return id, nil
}

// HasIdentityUUID reports whether IdentityUUID will succeed.
func HasIdentityUUID(session Session) bool {
	_, err := IdentityUUID(session)
	return err == nil
}
