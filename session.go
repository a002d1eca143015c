package access

import (
	"fmt"
)

// Session is a snapshot of the current identity, resolved role, and loading
// status. SessionStore is the only writer; everyone else reads value copies.
type Session struct {
	Identity Identity `json:"identity,omitempty"`
	Role     Role     `json:"role,omitempty"`
	Loading  bool     `json:"loading,omitempty"`
	Error    error    `json:"-"`
}

// IsLoading reports whether session establishment or role resolution is
// still pending.
func (s Session) IsLoading() bool {
	return s.Loading
}

// IsAuthenticated reports whether an identity is present.
func (s Session) IsAuthenticated() bool {
	return s.Identity != nil
}

// HasRole checks if the session resolved to a specific role.
func (s Session) HasRole(role Role) bool {
	return s.Role != "" && s.Role == role
}

// HasAnyRole checks the resolved role against a set. An empty set means
// "any authenticated role".
func (s Session) HasAnyRole(roles ...Role) bool {
	if !s.IsAuthenticated() {
		return false
	}

	if len(roles) == 0 {
		return true
	}

	for _, role := range roles {
		if s.HasRole(role) {
			return true
		}
	}

	return false
}

func (s Session) String() string {
	id := "<nil>"
	if s.Identity != nil {
		id = s.Identity.ID()
	}
	return fmt.Sprintf("identity=%s role=%s loading=%t err=%v", id, s.Role, s.Loading, s.Error)
}
