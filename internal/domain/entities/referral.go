package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReferralCode is a code another merchant shares for a signup discount.
type ReferralCode struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	IsActive        bool      `json:"isActive"`
	DiscountPercent int       `json:"discountPercent"`
	UserName        string    `json:"userName"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReferralDetails is returned for a valid, active code.
type ReferralDetails struct {
	UserName        string `json:"userName"`
	DiscountPercent int    `json:"discountPercent"`
}

// ValidateReferralInput is the lookup request body. Code is intentionally not
// bound as required so an empty code gets the dedicated rejection message.
type ValidateReferralInput struct {
	Code string `json:"code"`
}

// ValidateReferralResponse mirrors the function contract consumed by clients.
type ValidateReferralResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    *ReferralDetails `json:"data,omitempty"`
}

// CreateReferralCodeInput is used by the admin command.
type CreateReferralCodeInput struct {
	Code            string
	UserName        string
	DiscountPercent int
}
