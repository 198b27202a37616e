package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/infrastructure/models"
)

// upsertColumns are overwritten when a profile already exists. Subdomain and
// created_at are deliberately absent.
var upsertColumns = []string{
	"email",
	"business_name",
	"first_name",
	"last_name",
	"category",
	"channels",
	"phone",
	"referral_code",
	"updated_at",
}

// ProfileRepository implements merchant profile persistence
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entities.MerchantProfile) error {
	m, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *entities.MerchantProfile) error {
	channels, err := encodeChannels(profile.Channels)
	if err != nil {
		return err
	}
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.MerchantProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"email":         profile.Email,
			"business_name": profile.BusinessName,
			"first_name":    profile.FirstName,
			"last_name":     profile.LastName,
			"category":      string(profile.Category),
			"channels":      channels,
			"phone":         profile.Phone,
			"referral_code": profile.ReferralCode.Ptr(),
			"updated_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	profile.UpdatedAt = now
	return nil
}

// Upsert writes the profile in a single INSERT ... ON CONFLICT (user_id) statement.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *entities.MerchantProfile) error {
	m, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(m).Error
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.MerchantProfile, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *ProfileRepository) GetBySubdomain(ctx context.Context, subdomain string) (*entities.MerchantProfile, error) {
	return r.first(ctx, "subdomain = ?", subdomain)
}

func (r *ProfileRepository) first(ctx context.Context, query string, arg interface{}) (*entities.MerchantProfile, error) {
	var m models.MerchantProfile
	if err := GetDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProfileEntity(&m)
}

func toProfileModel(p *entities.MerchantProfile) (*models.MerchantProfile, error) {
	channels, err := encodeChannels(p.Channels)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &models.MerchantProfile{
		UserID:       p.UserID,
		Email:        p.Email,
		Subdomain:    p.Subdomain,
		BusinessName: p.BusinessName,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Category:     string(p.Category),
		Channels:     channels,
		Phone:        p.Phone,
		ReferralCode: p.ReferralCode.Ptr(),
		CreatedAt:    createdAt,
		UpdatedAt:    now,
	}, nil
}

func toProfileEntity(m *models.MerchantProfile) (*entities.MerchantProfile, error) {
	var channels []entities.Channel
	if m.Channels != "" {
		if err := json.Unmarshal([]byte(m.Channels), &channels); err != nil {
			return nil, fmt.Errorf("decode channels of profile %s: %w", m.UserID, err)
		}
	}
	if channels == nil {
		channels = []entities.Channel{}
	}
	return &entities.MerchantProfile{
		UserID:       m.UserID,
		Email:        m.Email,
		Subdomain:    m.Subdomain,
		BusinessName: m.BusinessName,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Category:     entities.Category(m.Category),
		Channels:     channels,
		Phone:        m.Phone,
		ReferralCode: null.StringFromPtr(m.ReferralCode),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func encodeChannels(channels []entities.Channel) (string, error) {
	if channels == nil {
		channels = []entities.Channel{}
	}
	b, err := json.Marshal(channels)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
