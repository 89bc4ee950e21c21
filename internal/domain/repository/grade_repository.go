package repository

import (
	"context"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// GradeFilter narrows grade listings.
type GradeFilter struct {
	GroupID   *uuid.UUID
	StudentID *uuid.UUID
}

// GradeRepository defines the operations for grade persistence.
type GradeRepository interface {
	// Create persists a new grade.
	Create(ctx context.Context, grade *entity.Grade) error

	// List returns grades matching the filter, newest first, with student and
	// group preloaded.
	List(ctx context.Context, filter GradeFilter) ([]*entity.Grade, error)

	// AverageByStudent returns the mean grade value for a student, or nil
	// when no grades exist.
	AverageByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error)
}
