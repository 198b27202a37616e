package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutAttempt struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TxRef           string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Plan            string          `gorm:"type:varchar(20);not null"`
	Cycle           string          `gorm:"type:varchar(20);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountPercent *int
	ReferralCode    *string    `gorm:"type:varchar(64)"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	TransactionID   *string    `gorm:"type:varchar(100)"`
	FailureReason   *string    `gorm:"type:text"`
	VerifiedAt      *time.Time
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}
