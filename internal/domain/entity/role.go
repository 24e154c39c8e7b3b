package entity

// Role is the classification label stored alongside a member.
// This service only echoes it; it grants no permissions.
type Role string

const (
	// RoleMember is the store default for self-registered members.
	RoleMember Role = "member"
	// RoleAdmin marks dashboard operators provisioned out of band.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}
