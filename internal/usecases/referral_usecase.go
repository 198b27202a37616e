package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/domain/repositories"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/metrics"
)

// ReferralUsecase resolves and manages referral codes
type ReferralUsecase struct {
	referralRepo repositories.ReferralCodeRepository
	metrics      *metrics.Registry
}

// NewReferralUsecase creates a new referral usecase
func NewReferralUsecase(referralRepo repositories.ReferralCodeRepository, m *metrics.Registry) *ReferralUsecase {
	return &ReferralUsecase{
		referralRepo: referralRepo,
		metrics:      m,
	}
}

// Validate looks a code up by exact, case-sensitive match. The code is not
// trimmed, so surrounding whitespace never matches. An empty code, an unknown
// code and an inactive code are rejected with distinct errors. It has no side
// effects on stored data.
func (u *ReferralUsecase) Validate(ctx context.Context, code string) (*entities.ReferralDetails, error) {
	if code == "" {
		u.metrics.ReferralValidated(OutcomeRequired)
		return nil, domainerrors.ErrReferralCodeRequired
	}

	ref, err := u.referralRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			u.metrics.ReferralValidated(OutcomeNotFound)
			logger.Info(ctx, "Referral code not found", zap.String("code", code))
			return nil, domainerrors.ErrReferralNotFound
		}
		u.metrics.ReferralValidated(OutcomeError)
		return nil, fmt.Errorf("lookup referral code: %w", err)
	}

	if !ref.IsActive {
		u.metrics.ReferralValidated(OutcomeInactive)
		logger.Info(ctx, "Referral code inactive", zap.String("code", code))
		return nil, domainerrors.ErrReferralInactive
	}

	u.metrics.ReferralValidated(OutcomeValid)
	return &entities.ReferralDetails{
		UserName:        ref.UserName,
		DiscountPercent: ref.DiscountPercent,
	}, nil
}

// IsRejection reports whether err is one of the user-facing referral rejections.
func IsRejection(err error) bool {
	return errors.Is(err, domainerrors.ErrReferralCodeRequired) ||
		errors.Is(err, domainerrors.ErrReferralNotFound) ||
		errors.Is(err, domainerrors.ErrReferralInactive)
}

// CreateCode registers a new active code.
func (u *ReferralUsecase) CreateCode(ctx context.Context, input *entities.CreateReferralCodeInput) (*entities.ReferralCode, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, domainerrors.ErrReferralCodeRequired
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.UserName) == "" {
		return nil, fmt.Errorf("%w: referrer name is required", domainerrors.ErrInvalidInput)
	}

	ref := &entities.ReferralCode{
		Code:            code,
		IsActive:        true,
		DiscountPercent: input.DiscountPercent,
		UserName:        strings.TrimSpace(input.UserName),
	}
	if err := u.referralRepo.Create(ctx, ref); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Referral code created", zap.String("code", ref.Code), zap.Int("discount_percent", ref.DiscountPercent))
	return ref, nil
}

// SetActive activates or deactivates a code.
func (u *ReferralUsecase) SetActive(ctx context.Context, code string, active bool) error {
	if strings.TrimSpace(code) == "" {
		return domainerrors.ErrReferralCodeRequired
	}
	return u.referralRepo.SetActive(ctx, code, active)
}

// List returns stored codes.
func (u *ReferralUsecase) List(ctx context.Context, activeOnly bool) ([]*entities.ReferralCode, error) {
	return u.referralRepo.List(ctx, activeOnly)
}
