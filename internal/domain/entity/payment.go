package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks whether a monthly tuition payment has been settled.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return true
	default:
		return false
	}
}

// Payment is one monthly tuition charge for a student.
type Payment struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Amount    int64  // Minor currency units.
	Month     string // "YYYY-MM" billing month.
	Status    PaymentStatus
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Student *Profile
}
