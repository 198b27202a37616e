package repositories

import (
	"context"

	"collabriss.backend/internal/domain/entities"
)

// ReferralCodeRepository defines referral code operations. GetByCode is an
// exact, case-sensitive match; when several rows share a code the first wins.
type ReferralCodeRepository interface {
	GetByCode(ctx context.Context, code string) (*entities.ReferralCode, error)
	Create(ctx context.Context, code *entities.ReferralCode) error
	SetActive(ctx context.Context, code string, active bool) error
	List(ctx context.Context, activeOnly bool) ([]*entities.ReferralCode, error)
}
