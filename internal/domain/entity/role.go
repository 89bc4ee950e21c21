// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "slices"

// Role represents the kind of account a person holds in the academy.
type Role string

const (
	// RoleOwner indicates the academy owner / administrator role.
	RoleOwner Role = "owner"
	// RoleTeacher indicates a teaching staff role.
	RoleTeacher Role = "teacher"
	// RoleStudent indicates an enrolled student role.
	RoleStudent Role = "student"
	// RoleParent indicates a guardian monitoring one or more students.
	RoleParent Role = "parent"
)

// DefaultRole is assumed when neither the profile nor the identity carries a role.
const DefaultRole = RoleStudent

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleTeacher, RoleStudent, RoleParent:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RoleFromString converts a string to a Role, reporting whether it is valid.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
