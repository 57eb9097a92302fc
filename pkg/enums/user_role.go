package enums

import "fmt"

// UserRole is the platform role carried inside access tokens.
type UserRole string

const (
	UserRoleAdmin          UserRole = "admin"
	UserRoleWarehouseStaff UserRole = "warehouse_staff"
	UserRoleManufacturer   UserRole = "manufacturer"
	UserRoleDistributor    UserRole = "distributor"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleWarehouseStaff,
	UserRoleManufacturer,
	UserRoleDistributor,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
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
