// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for profile persistence.
var (
	// ErrProfileNotFound is returned when a profile record is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrCredentialNotFound is returned when no login record matches.
	ErrCredentialNotFound = errors.New("credential not found")
)

// ProfileFilter narrows profile listings.
type ProfileFilter struct {
	Role   *entity.Role
	Status *entity.ApprovalStatus
	Search string // Matches against names and email.
}

// ProfileRepository defines the standard operations for profile persistence.
type ProfileRepository interface {
	// Create persists a new profile record.
	Create(ctx context.Context, profile *entity.Profile) error

	// FindByID retrieves a single profile by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// FindByEmail retrieves a single profile by email.
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)

	// FindByStudentCode retrieves the student profile carrying the given code.
	FindByStudentCode(ctx context.Context, code string) (*entity.Profile, error)

	// List returns profiles matching the filter, newest first.
	List(ctx context.Context, filter ProfileFilter) ([]*entity.Profile, error)

	// CountByRole returns how many profiles hold each role.
	CountByRole(ctx context.Context) (map[entity.Role]int64, error)

	// Update persists changes to an existing profile.
	Update(ctx context.Context, profile *entity.Profile) error

	// UpdateStatus patches only the approval status of a profile.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error
}

// CredentialRepository defines the operations for login-record persistence
// used by the local identity backend.
type CredentialRepository interface {
	// Create persists a new credential.
	Create(ctx context.Context, credential *entity.Credential) error

	// FindByEmail retrieves a credential by its email.
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)
}
