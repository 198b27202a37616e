package usecases

// Subdomain suffix
const SubdomainSuffixLength = 4

// Payment UI
const PaymentOptions = "card,mobilemoney,ussd"

// Redirects after checkout
const (
	FreePlanRedirect       = "/dashboard?plan=free"
	PaymentSuccessRedirect = "/dashboard?payment=success"
)

// Gateway transaction status for a settled charge
const GatewayStatusSuccessful = "successful"

// Metric outcomes
const (
	OutcomeValid    = "valid"
	OutcomeRequired = "required"
	OutcomeNotFound = "not_found"
	OutcomeInactive = "inactive"
	OutcomeError    = "error"

	OutcomeInitiated = "initiated"
	OutcomeSkipped   = "skipped"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
	OutcomeVerified  = "verified"
)
