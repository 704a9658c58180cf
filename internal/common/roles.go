// File: internal/common/roles.go
package common

// Application roles. The canonical lowest tier is "customer"; older rows may
// still carry "user", which is treated as an alias on read.
const (
	RoleAdmin    = "admin"
	RoleProvider = "provider"
	RoleCustomer = "customer"

	// RoleUserLegacy is the pre-rename spelling of RoleCustomer.
	RoleUserLegacy = "user"
)

// NormalizeRole maps legacy role spellings to their canonical value.
func NormalizeRole(role string) string {
	if role == RoleUserLegacy {
		return RoleCustomer
	}
	return role
}

// ValidRole reports whether role is one of the known application roles.
func ValidRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleAdmin, RoleProvider, RoleCustomer:
		return true
	}
	return false
}
