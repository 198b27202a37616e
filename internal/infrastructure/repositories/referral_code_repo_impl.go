package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/infrastructure/models"
	"collabriss.backend/pkg/utils"
)

// ReferralCodeRepository implements referral code lookups
type ReferralCodeRepository struct {
	db *gorm.DB
}

func NewReferralCodeRepository(db *gorm.DB) *ReferralCodeRepository {
	return &ReferralCodeRepository{db: db}
}

// GetByCode returns the oldest row whose code equals code exactly.
func (r *ReferralCodeRepository) GetByCode(ctx context.Context, code string) (*entities.ReferralCode, error) {
	var m models.ReferralCode
	err := GetDB(ctx, r.db).
		Where("code = ?", code).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toReferralCodeEntity(&m), nil
}

func (r *ReferralCodeRepository) Create(ctx context.Context, code *entities.ReferralCode) error {
	if code.ID == uuid.Nil {
		code.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	code.CreatedAt = now
	code.UpdatedAt = now

	m := &models.ReferralCode{
		ID:              code.ID,
		Code:            code.Code,
		IsActive:        code.IsActive,
		DiscountPercent: code.DiscountPercent,
		UserName:        code.UserName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReferralCodeRepository) SetActive(ctx context.Context, code string, active bool) error {
	result := GetDB(ctx, r.db).Model(&models.ReferralCode{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ReferralCodeRepository) List(ctx context.Context, activeOnly bool) ([]*entities.ReferralCode, error) {
	query := GetDB(ctx, r.db).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var ms []models.ReferralCode
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	codes := make([]*entities.ReferralCode, 0, len(ms))
	for i := range ms {
		codes = append(codes, toReferralCodeEntity(&ms[i]))
	}
	return codes, nil
}

func toReferralCodeEntity(m *models.ReferralCode) *entities.ReferralCode {
	return &entities.ReferralCode{
		ID:              m.ID,
		Code:            m.Code,
		IsActive:        m.IsActive,
		DiscountPercent: m.DiscountPercent,
		UserName:        m.UserName,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
