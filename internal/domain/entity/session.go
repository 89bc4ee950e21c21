package entity

import "github.com/google/uuid"

// Identity is the externally authenticated principal as issued by the
// identity backend. It is opaque to the rest of the system except for the
// fields below; it only changes through explicit sign-in and sign-out.
type Identity struct {
	ID    uuid.UUID
	Email string

	// RoleHint is the role metadata the backend attached when the session was
	// granted. It may be empty; it is only consulted when the profile record
	// cannot supply a role.
	RoleHint Role
}

// EnrichedSession is the working session representation: the identity merged
// with its profile data. Instances are replaced wholesale, never partially
// mutated, so readers always observe a consistent view.
type EnrichedSession struct {
	Identity    Identity
	Role        Role
	Status      ApprovalStatus
	DisplayName string

	// Profile holds the full fetched record when the profile query succeeded.
	// Nil when the session was built from fallback values.
	Profile *Profile
}

// Approved reports whether this session clears the approval gate: owners
// always pass, everyone else needs an exactly approved status.
func (s *EnrichedSession) Approved() bool {
	if s == nil {
		return false
	}
	if s.Role == RoleOwner {
		return true
	}

	return s.Status == StatusApproved
}
