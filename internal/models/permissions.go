package models

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleUser:
		return true
	default:
		return false
	}
}

// Satisfies reports whether a holder of r may act where required is needed.
// ADMIN satisfies every role; any other role only satisfies itself.
func (r UserRole) Satisfies(required UserRole) bool {
	if !IsValidUserRole(r) {
		return false
	}
	return r == UserRoleAdmin || r == required
}
