package repository

import (
	"context"
	"errors"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPaymentNotFound is returned when a payment record is not found.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	StudentID *uuid.UUID
	Month     string // "YYYY-MM"; empty matches all months.
	Status    *entity.PaymentStatus
}

// PaymentRepository defines the operations for payment persistence.
type PaymentRepository interface {
	// Create persists a new payment charge.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByID retrieves a payment by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)

	// List returns payments matching the filter with student preloaded.
	List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, error)

	// Update persists status and settlement changes.
	Update(ctx context.Context, payment *entity.Payment) error

	// SumByMonth returns the total settled amount for a billing month.
	SumByMonth(ctx context.Context, month string) (int64, error)
}
