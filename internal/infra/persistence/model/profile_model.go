// Package model contains the GORM persistence models mirroring the database
// schema. Mapping to and from domain entities happens in the postgres package.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel mirrors the 'profiles' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type ProfileModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email       string    `gorm:"type:varchar(255);unique;not null"`
	Role        string    `gorm:"type:varchar(20);not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	FirstName   string    `gorm:"type:varchar(100)"`
	LastName    string    `gorm:"type:varchar(100)"`
	FullName    string    `gorm:"type:varchar(200)"`
	Phone       string    `gorm:"type:varchar(30)"`
	StudentCode string    `gorm:"type:varchar(20);index"`
	BirthDate   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

// CredentialModel mirrors the 'credentials' table holding local login records.
type CredentialModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProfileID    uuid.UUID `gorm:"type:uuid;not null;unique"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time

	Profile *ProfileModel `gorm:"foreignKey:ProfileID"`
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "credentials"
}
