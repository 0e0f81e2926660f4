package domain

import "time"

// Role is an access level assigned to a user profile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// IsValidRole reports whether r is one of the assignable roles.
func IsValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Profile is the locally stored profile row for an authenticated user.
// Identity (email, credentials) lives in the auth service; the profile adds
// the role flag and display fields.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
