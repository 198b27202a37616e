package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Plan             string    `gorm:"type:varchar(20);not null"`
	Cycle            string    `gorm:"type:varchar(20);not null"`
	Status           string    `gorm:"type:varchar(20);not null"`
	CurrentPeriodEnd *time.Time
	LastAttemptID    *string `gorm:"type:varchar(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
