package enums

import "fmt"

// UserRole mirrors the account roles the backend issues.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleManager    UserRole = "manager"
	UserRoleSales      UserRole = "sales"
	UserRoleWarehouse  UserRole = "warehouse"
	UserRoleAccountant UserRole = "accountant"
	UserRoleSupport    UserRole = "support"
	UserRoleCustomer   UserRole = "customer"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleManager,
	UserRoleSales,
	UserRoleWarehouse,
	UserRoleAccountant,
	UserRoleSupport,
	UserRoleCustomer,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// CanUpdateOrders reports whether the backend will accept order status
// changes from this role. The server stays authoritative; this only lets the
// client skip a request that is certain to be rejected.
func (u UserRole) CanUpdateOrders() bool {
	switch u {
	case UserRoleAdmin, UserRoleManager, UserRoleSales, UserRoleWarehouse:
		return true
	default:
		return false
	}
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
