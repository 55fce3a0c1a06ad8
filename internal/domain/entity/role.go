// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have in the storefront.
type Role string

const (
	// RoleUser indicates a regular customer.
	RoleUser Role = "user"
	// RoleAdmin indicates access to the admin dashboard.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value. The empty role is valid
// because the backend omits it for plain customers.
func (r Role) IsValid() bool {
	switch r {
	case "", RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}
