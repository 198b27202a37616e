package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// CheckoutAttemptStatus represents the lifecycle of one payment attempt
type CheckoutAttemptStatus string

const (
	CheckoutPending   CheckoutAttemptStatus = "pending"
	CheckoutVerified  CheckoutAttemptStatus = "verified"
	CheckoutFailed    CheckoutAttemptStatus = "failed"
	CheckoutCancelled CheckoutAttemptStatus = "cancelled"
	CheckoutExpired   CheckoutAttemptStatus = "expired"
)

// CheckoutAttempt is a single payment attempt with its own transaction reference.
// Amount is what the server expects to be charged after any discount.
type CheckoutAttempt struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"userId"`
	TxRef           string                `json:"txRef"`
	Plan            Plan                  `json:"plan"`
	Cycle           BillingCycle          `json:"cycle"`
	Currency        string                `json:"currency"`
	Amount          decimal.Decimal       `json:"amount"`
	DiscountPercent null.Int              `json:"discountPercent,omitempty"`
	ReferralCode    null.String           `json:"referralCode,omitempty"`
	Status          CheckoutAttemptStatus `json:"status"`
	TransactionID   null.String           `json:"transactionId,omitempty"`
	FailureReason   null.String           `json:"failureReason,omitempty"`
	VerifiedAt      null.Time             `json:"verifiedAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// CheckoutSelection is the plan/cycle choice with its derived amount.
type CheckoutSelection struct {
	Plan           Plan            `json:"plan"`
	BillingCycle   BillingCycle    `json:"billingCycle"`
	ComputedAmount decimal.Decimal `json:"computedAmount"`
}

// CheckoutInput starts a checkout.
type CheckoutInput struct {
	Plan     Plan         `json:"plan" binding:"required"`
	Cycle    BillingCycle `json:"cycle" binding:"required"`
	Discount *int         `json:"discount"`
	Code     string       `json:"code"`
}

// PaymentCustomer is passed to the payment collection UI.
type PaymentCustomer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// PaymentCustomizations is passed to the payment collection UI.
type PaymentCustomizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// PaymentUIConfig configures the gateway's inline payment modal.
type PaymentUIConfig struct {
	PublicKey      string                `json:"public_key"`
	TxRef          string                `json:"tx_ref"`
	Amount         float64               `json:"amount"`
	Currency       string                `json:"currency"`
	PaymentOptions string                `json:"payment_options"`
	Customer       PaymentCustomer       `json:"customer"`
	Customizations PaymentCustomizations `json:"customizations"`
}

// CheckoutResponse is returned when a checkout starts.
type CheckoutResponse struct {
	SkipPayment bool             `json:"skipPayment"`
	Plan        Plan             `json:"plan"`
	Cycle       BillingCycle     `json:"cycle"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	Discount    *DiscountContext `json:"discount,omitempty"`
	AttemptID   *uuid.UUID       `json:"attemptId,omitempty"`
	Payment     *PaymentUIConfig `json:"payment,omitempty"`
	Redirect    string           `json:"redirect,omitempty"`
}

// Gateway callback statuses.
const (
	CallbackSuccessful = "successful"
	CallbackCancelled  = "cancelled"
)

// PaymentCallbackInput is what the payment UI reports back.
type PaymentCallbackInput struct {
	TxRef         string `json:"txRef" binding:"required"`
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transactionId"`
}

// PaymentCallbackResult tells the client where to go next.
type PaymentCallbackResult struct {
	Status   CheckoutAttemptStatus `json:"status"`
	Redirect string                `json:"redirect,omitempty"`
}

// VerifyPaymentInput is the server-side verification request.
type VerifyPaymentInput struct {
	TransactionID    string       `json:"transactionId" binding:"required"`
	ExpectedAmount   float64      `json:"expectedAmount"`
	ExpectedCurrency string       `json:"expectedCurrency" binding:"required"`
	Plan             Plan         `json:"plan" binding:"required"`
	Cycle            BillingCycle `json:"cycle" binding:"required"`
	TxRef            string       `json:"txRef" binding:"required"`
}

// VerifyPaymentResponse is the verification result contract.
type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// GatewayTransaction is the gateway's record of a charge.
type GatewayTransaction struct {
	ID       string
	TxRef    string
	Status   string
	Amount   decimal.Decimal
	Currency string
}
