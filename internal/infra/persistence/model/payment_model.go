package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentModel mirrors the 'payments' table. Amount is in minor currency units.
type PaymentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount    int64     `gorm:"not null"`
	Month     string    `gorm:"type:varchar(7);not null;index"`
	Status    string    `gorm:"type:varchar(10);not null;index"`
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Student *ProfileModel `gorm:"foreignKey:StudentID"`
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
