package authorization

import "strings"

// UserRole is the tenant-scoped role carried in the access token.
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleOwner      UserRole = "owner"
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleCashier    UserRole = "cashier"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// ParseUserRole normalizes case. Unknown roles fall back to the least
// privileged one.
func ParseUserRole(s string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if role.IsValid() {
		return role
	}
	return RoleCashier
}
