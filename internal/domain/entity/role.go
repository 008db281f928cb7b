package entity

import "github.com/google/uuid"

// Role is the closed set of staff roles. Stored as a string column but only
// the three constants below are valid values.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
	RoleNurse  Role = "NURSE"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Principal is the authenticated caller resolved by the auth middleware.
// It is attached to the request context before any usecase runs.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanActOn reports whether the principal owns the resource or is an admin.
func (p Principal) CanActOn(ownerID uuid.UUID) bool {
	return p.ID == ownerID || p.IsAdmin()
}
