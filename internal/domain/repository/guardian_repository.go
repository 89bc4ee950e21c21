package repository

import (
	"context"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// GuardianRepository defines the operations for parent-student link persistence.
type GuardianRepository interface {
	// CreateLink connects a parent profile to a student profile.
	CreateLink(ctx context.Context, link *entity.GuardianLink) error

	// ListByParent returns a parent's links with student profiles preloaded.
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*entity.GuardianLink, error)

	// Linked reports whether the parent is linked to the student.
	Linked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
}

// DeviceRepository defines the operations for push-device persistence.
type DeviceRepository interface {
	// Upsert registers a device token for a profile, replacing a prior
	// registration of the same token.
	Upsert(ctx context.Context, device *entity.Device) error

	// ListByProfile returns the registered devices of one profile.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Device, error)

	// DeleteByToken removes a device registration, e.g. after the push
	// service reports the token invalid.
	DeleteByToken(ctx context.Context, token string) error
}
