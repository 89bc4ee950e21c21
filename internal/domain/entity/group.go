package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a course of study offered by the academy, e.g. "Mathematics".
type Subject struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group is a class: a set of students taught one subject by one teacher on a
// weekly schedule.
type Group struct {
	ID        uuid.UUID
	Name      string
	SubjectID uuid.UUID
	TeacherID uuid.UUID // Profile ID of the teacher running the group.
	Room      string
	// Days holds weekday names the group meets on, e.g. ["monday", "wednesday"].
	Days      []string
	StartTime string // "HH:MM" wall-clock start, interpreted in the academy's local time.
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Subject *Subject // Populated by list/get queries.
	Teacher *Profile // Populated by list/get queries.
}

// Enrollment places a student in a group.
type Enrollment struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	StudentID uuid.UUID // Profile ID of the enrolled student.
	CreatedAt time.Time

	Student *Profile // Populated by roster queries.
}
