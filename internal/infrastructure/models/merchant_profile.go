package models

import (
	"time"

	"github.com/google/uuid"
)

// MerchantProfile stores channels as a JSON array.
type MerchantProfile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null"`
	Subdomain    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	BusinessName string    `gorm:"type:varchar(255);not null"`
	FirstName    string    `gorm:"type:varchar(100);not null"`
	LastName     string    `gorm:"type:varchar(100);not null"`
	Category     string    `gorm:"type:varchar(50);not null"`
	Channels     string    `gorm:"type:jsonb;not null;default:'[]'"`
	Phone        string    `gorm:"type:varchar(50);not null"`
	ReferralCode *string   `gorm:"type:varchar(64)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MerchantProfile) TableName() string {
	return "merchant_profiles"
}
