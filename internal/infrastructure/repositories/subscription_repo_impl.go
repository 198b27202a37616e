package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/infrastructure/models"
	"collabriss.backend/pkg/utils"
)

// SubscriptionRepository implements subscription persistence, one row per user
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *entities.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	m := &models.Subscription{
		ID:               sub.ID,
		UserID:           sub.UserID,
		Plan:             string(sub.Plan),
		Cycle:            string(sub.Cycle),
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd.Ptr(),
		LastAttemptID:    sub.LastAttemptID.Ptr(),
		CreatedAt:        sub.CreatedAt,
		UpdatedAt:        now,
	}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plan", "cycle", "status", "current_period_end", "last_attempt_id", "updated_at",
			}),
		}).
		Create(m).Error
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Subscription{
		ID:               m.ID,
		UserID:           m.UserID,
		Plan:             entities.Plan(m.Plan),
		Cycle:            entities.BillingCycle(m.Cycle),
		Status:           entities.SubscriptionStatus(m.Status),
		CurrentPeriodEnd: null.TimeFromPtr(m.CurrentPeriodEnd),
		LastAttemptID:    null.StringFromPtr(m.LastAttemptID),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}
