package model

import "time"

// Role is the privilege level stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a signed-in customer or staff member. ID is the identity provider subject.
type User struct {
	ID        string
	Name      string
	Email     string
	Avatar    string
	Role      Role
	CreatedAt time.Time
}

// Caller is the identity resolved for the current request.
// Email is the address vouched for by the token, not the stored profile.
type Caller struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Anonymous reports whether no identity was resolved.
func (c Caller) Anonymous() bool {
	return c.ID == ""
}
