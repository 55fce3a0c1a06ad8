// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "slices"

// User is the profile of the signed-in shopper or admin held by the session store.
// The backend owns the identifier; the client never mints one.
type User struct {
	ID        string    `json:"_id" mapstructure:"_id"`                       // Backend identifier of the user.
	FirstName string    `json:"firstName" mapstructure:"firstName"`           // Given name.
	LastName  string    `json:"lastName" mapstructure:"lastName"`             // Family name.
	Role      Role      `json:"role,omitempty" mapstructure:"role"`           // Optional role, empty for plain customers.
	Email     string    `json:"email" mapstructure:"email"`                   // Primary contact email.
	Phone     string    `json:"phone,omitempty" mapstructure:"phone"`         // Contact phone number.
	Avatar    string    `json:"avatar,omitempty" mapstructure:"avatar"`       // Reference (URL) to the avatar image.
	Addresses []Address `json:"addresses,omitempty" mapstructure:"addresses"` // Ordered list of saved addresses.
	Gender    Gender    `json:"gender,omitempty" mapstructure:"gender"`       // One of Male, Female, Other.
}

// FullName joins the name parts the way the storefront header shows them.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Clone returns a copy that shares no mutable state with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Addresses = slices.Clone(u.Addresses)

	return &clone
}

// IsAdmin reports whether the user may use the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
