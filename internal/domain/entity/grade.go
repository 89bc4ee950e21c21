package entity

import (
	"time"

	"github.com/google/uuid"
)

// Grade is a single mark a teacher records for a student in a group.
type Grade struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	GroupID   uuid.UUID
	Value     int // 0-100 scale.
	Comment   string
	GradedOn  time.Time // The lesson date the grade applies to.
	CreatedAt time.Time

	Student *Profile
	Group   *Group
}
