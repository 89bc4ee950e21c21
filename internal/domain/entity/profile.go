package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the application-level record associated 1:1 with an identity.
// It is created by the identity backend at registration time and only ever
// read or status-patched by the rest of the system.
type Profile struct {
	ID          uuid.UUID      // Matches the identity ID issued by the backend.
	Email       string         // The account's contact email, mirrored from the identity.
	Role        Role           // The account's role in the academy.
	Status      ApprovalStatus // Where the account stands in the approval workflow.
	FirstName   string
	LastName    string
	FullName    string
	Phone       string
	StudentCode string     // Short code students hand to guardians for linking. Empty for other roles.
	BirthDate   *time.Time // Optional.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName resolves the name shown across the application:
// full name first, then first name, then the fallback (typically the
// identity's email).
func (p *Profile) DisplayName(fallback string) string {
	if p == nil {
		return fallback
	}
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.FirstName); name != "" {
		return name
	}

	return fallback
}
