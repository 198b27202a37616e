package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SubscriptionStatus represents the billing state of a merchant
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription is the current plan of a merchant, one per user.
type Subscription struct {
	ID               uuid.UUID          `json:"id"`
	UserID           uuid.UUID          `json:"userId"`
	Plan             Plan               `json:"plan"`
	Cycle            BillingCycle       `json:"cycle"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd null.Time          `json:"currentPeriodEnd,omitempty"`
	LastAttemptID    null.String        `json:"lastAttemptId,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// PeriodEnd returns the end of a billing period starting at from.
func (c BillingCycle) PeriodEnd(from time.Time) time.Time {
	if c == CycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
