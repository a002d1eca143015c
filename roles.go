package access

// IsValid checks if the role belongs to the closed enumeration
func IsValid(r Role) bool {
	switch r {
	case RoleAdmin, RoleCounsellor, RoleUser, RoleDataScientist:
		return true
	case RolePatient, RoleITExpert, RoleResearcher, RolePsychologist, RoleEmergencyResponse:
		return true
	default:
		return false
	}
}

// CoreRoles returns the original role set.
func CoreRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleCounsellor,
		RoleUser,
		RoleDataScientist,
	}
}

// AllRoles returns every role in the closed enumeration, core set first.
func AllRoles() []Role {
	return append(CoreRoles(),
		RolePatient,
		RoleITExpert,
		RoleResearcher,
		RolePsychologist,
		RoleEmergencyResponse,
	)
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValid(role)
}
