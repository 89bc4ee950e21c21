package model

import (
	"time"

	"github.com/google/uuid"
)

// GuardianLinkModel mirrors the 'guardian_links' table connecting parents to students.
type GuardianLinkModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ParentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_guardian_pair"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_guardian_pair"`
	CreatedAt time.Time

	Student *ProfileModel `gorm:"foreignKey:StudentID"`
}

// TableName explicitly sets the table name for GORM.
func (GuardianLinkModel) TableName() string {
	return "guardian_links"
}

// DeviceModel mirrors the 'devices' table holding push registration tokens.
type DeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(512);unique;not null"`
	Platform  string    `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeviceModel) TableName() string {
	return "devices"
}
