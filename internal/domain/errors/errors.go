package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrConflict           = errors.New("conflict")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Referral lookup rejections. Messages are shown to users verbatim.
var (
	ErrReferralCodeRequired = errors.New("Referral code is required.")
	ErrReferralNotFound     = errors.New("This referral code does not exist.")
	ErrReferralInactive     = errors.New("This referral code is no longer active.")
)

// Onboarding sequencing errors.
var (
	ErrWrongStep           = errors.New("action not allowed on the current step")
	ErrFieldLocked         = errors.New("field was provided at signup and cannot be changed")
	ErrSubmissionInFlight  = errors.New("a submission is already in progress")
	ErrOnboardingNotFound  = errors.New("onboarding has not been started")
	ErrOnboardingCompleted = errors.New("onboarding already completed")
)

// Checkout and verification errors.
var (
	ErrPaymentNotSuccessful = errors.New("Payment was not successful. Please try again.")
	ErrVerificationFailed   = errors.New("Payment verification failed.")
	ErrAmountMismatch       = errors.New("expected amount does not match the selected plan")
	ErrCurrencyMismatch     = errors.New("expected currency does not match")
	ErrAttemptNotPending    = errors.New("checkout attempt is no longer pending")
)

// Stable machine-readable codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeReferralRejected   = "REFERRAL_REJECTED"
	CodeWrongStep          = "ONBOARDING_WRONG_STEP"
	CodePaymentFailed      = "PAYMENT_FAILED"
	CodeGateway            = "GATEWAY_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

var (
	referralRejections = []error{ErrReferralCodeRequired, ErrReferralNotFound, ErrReferralInactive}
	paymentFailures    = []error{
		ErrPaymentNotSuccessful,
		ErrVerificationFailed,
		ErrAmountMismatch,
		ErrCurrencyMismatch,
		ErrAttemptNotPending,
		ErrPaymentFailed,
	}
)

// matchSentinel returns the first sentinel in the chain of err, so wrapping
// context never leaks into user-facing messages.
func matchSentinel(err error, sentinels []error) error {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

// FromError maps domain sentinels to an AppError. Unknown errors become 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case matchSentinel(err, referralRejections) != nil:
		return NewAppError(http.StatusBadRequest, CodeReferralRejected, matchSentinel(err, referralRejections).Error(), err)
	case errors.Is(err, ErrWrongStep), errors.Is(err, ErrFieldLocked), errors.Is(err, ErrOnboardingCompleted):
		return NewAppError(http.StatusConflict, CodeWrongStep, err.Error(), err)
	case errors.Is(err, ErrSubmissionInFlight):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrOnboardingNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case matchSentinel(err, paymentFailures) != nil:
		return NewAppError(http.StatusPaymentRequired, CodePaymentFailed, matchSentinel(err, paymentFailures).Error(), err)
	case errors.Is(err, ErrGatewayUnavailable):
		return NewAppError(http.StatusBadGateway, CodeGateway, "Payment verification is temporarily unavailable.", err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password", err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "Resource not found", err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, "Resource already exists", err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeValidation, err.Error(), err)
	default:
		return InternalError(err)
	}
}
