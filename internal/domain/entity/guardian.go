package entity

import (
	"time"

	"github.com/google/uuid"
)

// GuardianLink connects a parent profile to a student profile. Parents create
// the link at registration by presenting the student's code.
type GuardianLink struct {
	ID        uuid.UUID
	ParentID  uuid.UUID // Profile ID of the guardian.
	StudentID uuid.UUID // Profile ID of the student being monitored.
	CreatedAt time.Time

	Student *Profile
}

// Device is a push-notification registration for one of an account's devices.
type Device struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Token     string // FCM registration token.
	Platform  string // "android", "ios" or "web".
	CreatedAt time.Time
	UpdatedAt time.Time
}
