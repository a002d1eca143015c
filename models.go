package access

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is an authorization label from a closed set
type Role = string

const (
	// RoleAdmin sees the full admin panel
	RoleAdmin Role = "admin"
	// RoleCounsellor is a counsellor account
	RoleCounsellor Role = "counsellor"
	// RoleUser is a regular monitored user
	RoleUser Role = "user"
	// RoleDataScientist sees the recommendations tooling
	RoleDataScientist Role = "data_scientist"
)

// Extended roles introduced by a later schema revision. They are part of the
// closed enumeration but carry no navigation sections of their own.
const (
	RolePatient           Role = "patient"
	RoleITExpert          Role = "it_expert"
	RoleResearcher        Role = "mental_health_researcher"
	RolePsychologist      Role = "psychologist"
	RoleEmergencyResponse Role = "emergency_response_team"
)

// RoleAssignment maps an identity to a role. The store technically allows
// zero or multiple rows per identity; readers enforce the one-row invariant
// defensively (see RoleResolver).
type RoleAssignment struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Role          Role       `bun:"role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// DemoAccount is a fixed evaluation identity provisioned by DemoProvisioner.
type DemoAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// DefaultDemoAccounts returns the built-in evaluation accounts.
func DefaultDemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Email: "admin@mindcare.com", Password: "admin123", Role: RoleAdmin},
		{Email: "scientist@mindcare.com", Password: "scientist123", Role: RoleDataScientist},
	}
}
