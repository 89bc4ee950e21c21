package repository

import (
	"context"
	"time"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	GroupID   *uuid.UUID
	StudentID *uuid.UUID
	Date      *time.Time // Lesson date, day precision.
}

// AttendanceRepository defines the operations for attendance persistence.
type AttendanceRepository interface {
	// Upsert records or corrects one student's attendance for a lesson date.
	// A record for the same student, group and date is replaced.
	Upsert(ctx context.Context, record *entity.AttendanceRecord) error

	// List returns records matching the filter with student and group preloaded.
	List(ctx context.Context, filter AttendanceFilter) ([]*entity.AttendanceRecord, error)

	// RateByStudent returns the share of non-absent records for a student,
	// or nil when no records exist.
	RateByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error)
}
