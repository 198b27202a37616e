package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MerchantProfile is the persisted result of onboarding, one per user.
type MerchantProfile struct {
	UserID       uuid.UUID   `json:"userId"`
	Email        string      `json:"email"`
	Subdomain    string      `json:"subdomain"`
	BusinessName string      `json:"businessName"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Category     Category    `json:"category"`
	Channels     []Channel   `json:"channels"`
	Phone        string      `json:"phone"`
	ReferralCode null.String `json:"referralCode,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// UpdateProfileInput is the settings-page edit. Subdomain is not editable.
type UpdateProfileInput struct {
	BusinessName *string   `json:"businessName" binding:"omitempty,min=2,max=255"`
	FirstName    *string   `json:"firstName" binding:"omitempty,max=100"`
	LastName     *string   `json:"lastName" binding:"omitempty,max=100"`
	Category     *Category `json:"category"`
	Channels     []Channel `json:"channels"`
	Phone        *string   `json:"phone" binding:"omitempty,max=50"`
}

// PublicStore is the storefront view resolved from a subdomain.
type PublicStore struct {
	Subdomain    string   `json:"subdomain"`
	BusinessName string   `json:"businessName"`
	Category     Category `json:"category"`
}
