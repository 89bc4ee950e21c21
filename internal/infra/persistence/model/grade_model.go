package model

import (
	"time"

	"github.com/google/uuid"
)

// GradeModel mirrors the 'grades' table.
type GradeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Value     int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	GradedOn  time.Time `gorm:"type:date;not null"`
	CreatedAt time.Time

	Student *ProfileModel `gorm:"foreignKey:StudentID"`
	Group   *GroupModel   `gorm:"foreignKey:GroupID"`
}

// TableName explicitly sets the table name for GORM.
func (GradeModel) TableName() string {
	return "grades"
}

// AttendanceModel mirrors the 'attendance_records' table. One row per student
// per group per lesson date.
type AttendanceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_lesson"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_lesson"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_lesson"`
	Status    string    `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time

	Student *ProfileModel `gorm:"foreignKey:StudentID"`
	Group   *GroupModel   `gorm:"foreignKey:GroupID"`
}

// TableName explicitly sets the table name for GORM.
func (AttendanceModel) TableName() string {
	return "attendance_records"
}
