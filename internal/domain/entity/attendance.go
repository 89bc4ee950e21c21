package entity

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the outcome recorded for one student on one lesson date.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// IsValid checks if the AttendanceStatus is a valid value.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord marks one student's presence for one group lesson.
type AttendanceRecord struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	GroupID   uuid.UUID
	Date      time.Time // Lesson date, truncated to day.
	Status    AttendanceStatus
	CreatedAt time.Time

	Student *Profile
	Group   *Group
}
