package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectModel mirrors the 'subjects' table.
type SubjectModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(100);unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SubjectModel) TableName() string {
	return "subjects"
}

// GroupModel mirrors the 'groups' table. Days is stored as a comma-joined
// list of weekday names.
type GroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index"`
	Room      string    `gorm:"type:varchar(50)"`
	Days      string    `gorm:"type:varchar(100)"`
	StartTime string    `gorm:"type:varchar(5)"`
	EndTime   string    `gorm:"type:varchar(5)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subject *SubjectModel `gorm:"foreignKey:SubjectID"`
	Teacher *ProfileModel `gorm:"foreignKey:TeacherID"`
}

// TableName explicitly sets the table name for GORM.
func (GroupModel) TableName() string {
	return "groups"
}

// EnrollmentModel mirrors the 'enrollments' table. One row per student per group.
type EnrollmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_group_student"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_group_student"`
	CreatedAt time.Time

	Student *ProfileModel `gorm:"foreignKey:StudentID"`
}

// TableName explicitly sets the table name for GORM.
func (EnrollmentModel) TableName() string {
	return "enrollments"
}
