package repository

import (
	"context"
	"errors"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrSubjectNotFound is returned when a subject is not found.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrEnrollmentNotFound is returned when an enrollment is not found.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// GroupRepository defines the operations for group persistence.
type GroupRepository interface {
	// Create persists a new group.
	Create(ctx context.Context, group *entity.Group) error

	// FindByID retrieves a group with its subject and teacher preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)

	// List returns all groups with subject and teacher preloaded.
	List(ctx context.Context) ([]*entity.Group, error)

	// ListByTeacher returns the groups run by the given teacher profile.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*entity.Group, error)

	// Update persists changes to an existing group.
	Update(ctx context.Context, group *entity.Group) error

	// Delete removes a group and its enrollments.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of groups.
	Count(ctx context.Context) (int64, error)
}

// SubjectRepository defines the operations for subject persistence.
type SubjectRepository interface {
	// Create persists a new subject.
	Create(ctx context.Context, subject *entity.Subject) error

	// FindByID retrieves a subject by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subject, error)

	// List returns all subjects ordered by name.
	List(ctx context.Context) ([]*entity.Subject, error)

	// Delete removes a subject.
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentRepository defines the operations for enrollment persistence.
type EnrollmentRepository interface {
	// Create enrolls a student in a group.
	Create(ctx context.Context, enrollment *entity.Enrollment) error

	// Delete removes a student from a group.
	Delete(ctx context.Context, groupID, studentID uuid.UUID) error

	// ListByGroup returns a group's enrollments with student profiles preloaded.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error)

	// ListByStudent returns the enrollments of one student.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.Enrollment, error)

	// Exists reports whether the student is already enrolled in the group.
	Exists(ctx context.Context, groupID, studentID uuid.UUID) (bool, error)
}
