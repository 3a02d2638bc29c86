package authz

// Roles are ranked: a higher id carries every permission of a lower one.
const (
	RoleMember = 10
	RoleAdmin  = 50
)

func IsAdmin(roleID int) bool {
	return AtLeast(roleID, RoleAdmin)
}

// Valid reports whether roleID is a known role.
func Valid(roleID int) bool {
	return roleID == RoleMember || roleID == RoleAdmin
}

// AtLeast reports whether roleID is a known role ranked at or above min.
func AtLeast(roleID, min int) bool {
	return Valid(roleID) && roleID >= min
}
