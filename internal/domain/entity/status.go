package entity

// ApprovalStatus represents where a registered account stands in the
// owner-driven approval workflow.
type ApprovalStatus string

const (
	// StatusPending indicates a registration request awaiting an owner's decision.
	StatusPending ApprovalStatus = "pending"
	// StatusApproved indicates an account cleared to sign in.
	StatusApproved ApprovalStatus = "approved"
	// StatusRejected indicates an account whose registration was declined.
	StatusRejected ApprovalStatus = "rejected"
)

// String returns the string representation of the ApprovalStatus.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid checks if the ApprovalStatus is a valid value.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// StatusFromString converts a string to an ApprovalStatus, reporting whether it is valid.
func StatusFromString(v string) (ApprovalStatus, bool) {
	status := ApprovalStatus(v)

	return status, status.IsValid()
}
