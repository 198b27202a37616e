package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"collabriss.backend/internal/config"
	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/domain/repositories"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/metrics"
	"collabriss.backend/pkg/utils"
)

// CheckoutUsecase starts paid checkouts and verifies their payments
type CheckoutUsecase struct {
	attemptRepo repositories.CheckoutAttemptRepository
	subRepo     repositories.SubscriptionRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	referrals   *ReferralUsecase
	gateway     repositories.PaymentGateway
	uow         repositories.UnitOfWork
	metrics     *metrics.Registry
	cfg         config.PaymentConfig

	now func() time.Time
}

// NewCheckoutUsecase creates a new checkout usecase
func NewCheckoutUsecase(
	attemptRepo repositories.CheckoutAttemptRepository,
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	referrals *ReferralUsecase,
	gateway repositories.PaymentGateway,
	uow repositories.UnitOfWork,
	m *metrics.Registry,
	cfg config.PaymentConfig,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		attemptRepo: attemptRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		referrals:   referrals,
		gateway:     gateway,
		uow:         uow,
		metrics:     m,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Initiate starts a checkout for the selected plan and cycle. The free plan and
// fully discounted plans are activated without payment. Otherwise a new
// attempt with a fresh transaction reference is stored and the payment UI
// configuration is returned.
//
// The discount is re-derived from the referral code; a percentage sent by the
// client is ignored.
func (u *CheckoutUsecase) Initiate(ctx context.Context, userID uuid.UUID, input *entities.CheckoutInput) (*entities.CheckoutResponse, error) {
	if !input.Plan.IsValid() {
		return nil, fmt.Errorf("%w: unknown plan %q", domainerrors.ErrInvalidInput, input.Plan)
	}
	if !input.Cycle.IsValid() {
		return nil, fmt.Errorf("%w: unknown billing cycle %q", domainerrors.ErrInvalidInput, input.Cycle)
	}

	if input.Plan == entities.PlanFree {
		if err := u.activate(ctx, userID, entities.PlanFree, input.Cycle, null.String{}, null.Time{}); err != nil {
			return nil, err
		}
		u.metrics.CheckoutAttempt(string(input.Plan), OutcomeSkipped)
		return &entities.CheckoutResponse{
			SkipPayment: true,
			Plan:        input.Plan,
			Cycle:       input.Cycle,
			Amount:      0,
			Currency:    u.cfg.Currency,
			Redirect:    FreePlanRedirect,
		}, nil
	}

	discount, err := u.resolveDiscount(ctx, input)
	if err != nil {
		return nil, err
	}
	var pct *int
	if discount != nil {
		pct = &discount.DiscountPercent
	}

	amount, err := PriceFor(input.Plan, input.Cycle, pct)
	if err != nil {
		return nil, err
	}

	if amount.IsZero() {
		end := null.TimeFrom(input.Cycle.PeriodEnd(u.now()))
		if err := u.activate(ctx, userID, input.Plan, input.Cycle, null.String{}, end); err != nil {
			return nil, err
		}
		u.metrics.CheckoutAttempt(string(input.Plan), OutcomeSkipped)
		return &entities.CheckoutResponse{
			SkipPayment: true,
			Plan:        input.Plan,
			Cycle:       input.Cycle,
			Amount:      0,
			Currency:    u.cfg.Currency,
			Discount:    discount,
			Redirect:    PaymentSuccessRedirect,
		}, nil
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	phone := ""
	if profile, err := u.profileRepo.GetByUserID(ctx, userID); err == nil {
		phone = profile.Phone
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	attempt := &entities.CheckoutAttempt{
		ID:       utils.GenerateUUIDv7(),
		UserID:   userID,
		TxRef:    u.cfg.TxRefPrefix + "-" + utils.GenerateUUIDv7().String(),
		Plan:     input.Plan,
		Cycle:    input.Cycle,
		Currency: u.cfg.Currency,
		Amount:   amount,
		Status:   entities.CheckoutPending,
	}
	if discount != nil {
		attempt.DiscountPercent = null.IntFrom(discount.DiscountPercent)
		attempt.ReferralCode = null.StringFrom(discount.Code)
	}
	if err := u.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	u.metrics.CheckoutAttempt(string(input.Plan), OutcomeInitiated)

	logger.Info(ctx, "Checkout initiated",
		zap.String("user_id", userID.String()),
		zap.String("tx_ref", attempt.TxRef),
		zap.String("plan", string(attempt.Plan)),
		zap.String("amount", attempt.Amount.StringFixed(currencyPlaces)),
	)

	planName := string(input.Plan)
	if info, ok := entities.LookupPlan(input.Plan); ok {
		planName = info.Name
	}
	attemptID := attempt.ID
	return &entities.CheckoutResponse{
		Plan:      input.Plan,
		Cycle:     input.Cycle,
		Amount:    amountFloat(amount),
		Currency:  u.cfg.Currency,
		Discount:  discount,
		AttemptID: &attemptID,
		Payment: &entities.PaymentUIConfig{
			PublicKey:      u.cfg.PublicKey,
			TxRef:          attempt.TxRef,
			Amount:         amountFloat(amount),
			Currency:       u.cfg.Currency,
			PaymentOptions: PaymentOptions,
			Customer: entities.PaymentCustomer{
				Email:       user.Email,
				PhoneNumber: phone,
				Name:        user.Name,
			},
			Customizations: entities.PaymentCustomizations{
				Title:       u.cfg.Title,
				Description: fmt.Sprintf("Payment for %s Plan (%s)", planName, input.Cycle),
				Logo:        u.cfg.LogoURL,
			},
		},
	}, nil
}

// resolveDiscount looks the referral code up again. A code that is no longer
// redeemable yields no discount rather than blocking checkout.
func (u *CheckoutUsecase) resolveDiscount(ctx context.Context, input *entities.CheckoutInput) (*entities.DiscountContext, error) {
	code := input.Code
	if code == "" {
		if input.Discount != nil {
			logger.Warn(ctx, "Discount without referral code ignored", zap.Int("discount_percent", *input.Discount))
		}
		return nil, nil
	}

	details, err := u.referrals.Validate(ctx, code)
	if err != nil {
		if IsRejection(err) {
			logger.Warn(ctx, "Referral code no longer redeemable at checkout", zap.String("code", code), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if input.Discount != nil && *input.Discount != details.DiscountPercent {
		logger.Warn(ctx, "Client discount differs from referral code",
			zap.Int("client_percent", *input.Discount),
			zap.Int("code_percent", details.DiscountPercent),
		)
	}
	return &entities.DiscountContext{DiscountPercent: details.DiscountPercent, Code: code}, nil
}

// HandleCallback applies the payment UI's report for an attempt. Only a
// successful verification finalizes the checkout.
func (u *CheckoutUsecase) HandleCallback(ctx context.Context, userID uuid.UUID, input *entities.PaymentCallbackInput) (*entities.PaymentCallbackResult, error) {
	attempt, err := u.ownedAttempt(ctx, userID, input.TxRef)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(input.Status)) {
	case entities.CallbackCancelled:
		if err := u.attemptRepo.UpdateStatus(ctx, attempt.ID, entities.CheckoutCancelled, "cancelled by customer"); err != nil {
			return nil, err
		}
		u.metrics.CheckoutAttempt(string(attempt.Plan), OutcomeCancelled)
		return &entities.PaymentCallbackResult{Status: entities.CheckoutCancelled}, nil
	case entities.CallbackSuccessful:
		if strings.TrimSpace(input.TransactionID) == "" {
			return nil, fmt.Errorf("%w: transaction id is required", domainerrors.ErrInvalidInput)
		}
		_, err := u.Verify(ctx, userID, &entities.VerifyPaymentInput{
			TransactionID:    input.TransactionID,
			ExpectedAmount:   amountFloat(attempt.Amount),
			ExpectedCurrency: attempt.Currency,
			Plan:             attempt.Plan,
			Cycle:            attempt.Cycle,
			TxRef:            attempt.TxRef,
		})
		if err != nil {
			return nil, err
		}
		return &entities.PaymentCallbackResult{Status: entities.CheckoutVerified, Redirect: PaymentSuccessRedirect}, nil
	default:
		u.markFailed(ctx, attempt, "gateway reported status "+input.Status)
		return nil, domainerrors.ErrPaymentNotSuccessful
	}
}

// Verify checks a charge with the gateway before activating the subscription.
// The expected amount is recomputed from the stored attempt; any disagreement
// with the request fails closed.
func (u *CheckoutUsecase) Verify(ctx context.Context, userID uuid.UUID, input *entities.VerifyPaymentInput) (*entities.VerifyPaymentResponse, error) {
	attempt, err := u.ownedAttempt(ctx, userID, input.TxRef)
	if err != nil {
		return nil, err
	}

	if attempt.Status == entities.CheckoutVerified {
		if attempt.TransactionID.Valid && attempt.TransactionID.String == input.TransactionID {
			return &entities.VerifyPaymentResponse{Success: true, Message: "Payment already verified."}, nil
		}
		return nil, domainerrors.ErrAttemptNotPending
	}
	// An expired attempt can still be verified: the charge may complete after
	// the expiry job ran. The gateway checks below apply unchanged.
	if attempt.Status != entities.CheckoutPending && attempt.Status != entities.CheckoutExpired {
		return nil, domainerrors.ErrAttemptNotPending
	}

	if input.Plan != attempt.Plan || input.Cycle != attempt.Cycle {
		u.markFailed(ctx, attempt, "plan or cycle mismatch")
		return nil, domainerrors.ErrVerificationFailed
	}

	var pct *int
	if attempt.DiscountPercent.Valid {
		p := attempt.DiscountPercent.Int
		pct = &p
	}
	expected, err := PriceFor(attempt.Plan, attempt.Cycle, pct)
	if err != nil {
		return nil, err
	}
	if !expected.Equal(attempt.Amount) {
		u.markFailed(ctx, attempt, "stored amount does not match plan price")
		return nil, domainerrors.ErrAmountMismatch
	}
	if !decimal.NewFromFloat(input.ExpectedAmount).Round(currencyPlaces).Equal(expected) {
		u.markFailed(ctx, attempt, "expected amount mismatch")
		return nil, domainerrors.ErrAmountMismatch
	}
	if !strings.EqualFold(input.ExpectedCurrency, attempt.Currency) {
		u.markFailed(ctx, attempt, "expected currency mismatch")
		return nil, domainerrors.ErrCurrencyMismatch
	}

	tx, err := u.gateway.VerifyTransaction(ctx, input.TransactionID)
	if err != nil {
		logger.Error(ctx, "Gateway verification failed", zap.String("tx_ref", attempt.TxRef), zap.Error(err))
		if errors.Is(err, domainerrors.ErrNotFound) {
			u.markFailed(ctx, attempt, "transaction not found at gateway")
			return nil, domainerrors.ErrVerificationFailed
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnavailable, err)
	}

	if !strings.EqualFold(tx.Status, GatewayStatusSuccessful) {
		u.markFailed(ctx, attempt, "gateway status "+tx.Status)
		return nil, domainerrors.ErrPaymentNotSuccessful
	}
	if tx.TxRef != attempt.TxRef || !strings.EqualFold(tx.Currency, attempt.Currency) || tx.Amount.LessThan(expected) {
		u.markFailed(ctx, attempt, "gateway charge does not match attempt")
		logger.Warn(ctx, "Gateway charge mismatch",
			zap.String("tx_ref", attempt.TxRef),
			zap.String("gateway_tx_ref", tx.TxRef),
			zap.String("gateway_amount", tx.Amount.String()),
			zap.String("gateway_currency", tx.Currency),
		)
		return nil, domainerrors.ErrVerificationFailed
	}

	now := u.now()
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.attemptRepo.MarkVerified(txCtx, attempt.ID, input.TransactionID, now); err != nil {
			return err
		}
		return u.activate(txCtx, userID, attempt.Plan, attempt.Cycle,
			null.StringFrom(attempt.ID.String()), null.TimeFrom(attempt.Cycle.PeriodEnd(now)))
	})
	if err != nil {
		return nil, err
	}

	u.metrics.CheckoutAttempt(string(attempt.Plan), OutcomeVerified)
	logger.Info(ctx, "Payment verified",
		zap.String("user_id", userID.String()),
		zap.String("tx_ref", attempt.TxRef),
		zap.String("transaction_id", input.TransactionID),
	)
	return &entities.VerifyPaymentResponse{Success: true, Message: "Payment verified."}, nil
}

// GetSubscription returns the user's current subscription.
func (u *CheckoutUsecase) GetSubscription(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	return u.subRepo.GetByUserID(ctx, userID)
}

func (u *CheckoutUsecase) ownedAttempt(ctx context.Context, userID uuid.UUID, txRef string) (*entities.CheckoutAttempt, error) {
	attempt, err := u.attemptRepo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domainerrors.ErrNotFound
	}
	return attempt, nil
}

func (u *CheckoutUsecase) markFailed(ctx context.Context, attempt *entities.CheckoutAttempt, reason string) {
	u.metrics.CheckoutAttempt(string(attempt.Plan), OutcomeFailed)
	err := u.attemptRepo.UpdateStatus(ctx, attempt.ID, entities.CheckoutFailed, reason)
	if err != nil && !errors.Is(err, domainerrors.ErrAttemptNotPending) {
		logger.Error(ctx, "Failed to mark checkout attempt failed", zap.String("tx_ref", attempt.TxRef), zap.Error(err))
	}
}

func (u *CheckoutUsecase) activate(ctx context.Context, userID uuid.UUID, plan entities.Plan, cycle entities.BillingCycle, attemptID null.String, periodEnd null.Time) error {
	return u.subRepo.Upsert(ctx, &entities.Subscription{
		UserID:           userID,
		Plan:             plan,
		Cycle:            cycle,
		Status:           entities.SubscriptionActive,
		CurrentPeriodEnd: periodEnd,
		LastAttemptID:    attemptID,
	})
}
