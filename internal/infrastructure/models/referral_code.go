package models

import (
	"time"

	"github.com/google/uuid"
)

type ReferralCode struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Code            string    `gorm:"type:varchar(64);not null;index"`
	IsActive        bool      `gorm:"not null;default:true"`
	DiscountPercent int       `gorm:"not null;default:0"`
	UserName        string    `gorm:"type:varchar(255);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
