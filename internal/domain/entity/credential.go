package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential is an email/password login record held by the local identity
// backend. Exactly one exists per profile.
type Credential struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	Email        string
	PasswordHash string // bcrypt hash.
	CreatedAt    time.Time
}
