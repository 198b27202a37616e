package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/infrastructure/models"
	"collabriss.backend/pkg/utils"
)

// CheckoutAttemptRepositoryImpl implements CheckoutAttemptRepository
type CheckoutAttemptRepositoryImpl struct {
	db *gorm.DB
}

func NewCheckoutAttemptRepository(db *gorm.DB) *CheckoutAttemptRepositoryImpl {
	return &CheckoutAttemptRepositoryImpl{db: db}
}

func (r *CheckoutAttemptRepositoryImpl) Create(ctx context.Context, attempt *entities.CheckoutAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = utils.GenerateUUIDv7()
	}
	if attempt.Status == "" {
		attempt.Status = entities.CheckoutPending
	}
	now := time.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	m := &models.CheckoutAttempt{
		ID:              attempt.ID,
		UserID:          attempt.UserID,
		TxRef:           attempt.TxRef,
		Plan:            string(attempt.Plan),
		Cycle:           string(attempt.Cycle),
		Currency:        attempt.Currency,
		Amount:          attempt.Amount,
		DiscountPercent: attempt.DiscountPercent.Ptr(),
		ReferralCode:    attempt.ReferralCode.Ptr(),
		Status:          string(attempt.Status),
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

func (r *CheckoutAttemptRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.CheckoutAttempt, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CheckoutAttemptRepositoryImpl) GetByTxRef(ctx context.Context, txRef string) (*entities.CheckoutAttempt, error) {
	return r.first(ctx, "tx_ref = ?", txRef)
}

// UpdateStatus only moves attempts that are still pending.
func (r *CheckoutAttemptRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CheckoutAttemptStatus, reason string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if reason != "" {
		updates["failure_reason"] = reason
	}
	return r.transition(ctx, id, updates, entities.CheckoutPending)
}

// MarkVerified finalizes a pending attempt, or an expired one whose charge
// completed after the expiry job ran.
func (r *CheckoutAttemptRepositoryImpl) MarkVerified(ctx context.Context, id uuid.UUID, transactionID string, verifiedAt time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":         string(entities.CheckoutVerified),
		"transaction_id": transactionID,
		"verified_at":    verifiedAt,
		"updated_at":     time.Now(),
	}, entities.CheckoutPending, entities.CheckoutExpired)
}

func (r *CheckoutAttemptRepositoryImpl) GetExpiredPending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.CheckoutAttempt, error) {
	var ms []models.CheckoutAttempt
	if err := GetDB(ctx, r.db).
		Where("status = ? AND created_at < ?", string(entities.CheckoutPending), olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	attempts := make([]*entities.CheckoutAttempt, 0, len(ms))
	for i := range ms {
		attempts = append(attempts, toCheckoutAttemptEntity(&ms[i]))
	}
	return attempts, nil
}

func (r *CheckoutAttemptRepositoryImpl) ExpireAttempts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&models.CheckoutAttempt{}).
		Where("id IN ? AND status = ?", ids, string(entities.CheckoutPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.CheckoutExpired),
			"updated_at": time.Now(),
		}).Error
}

func (r *CheckoutAttemptRepositoryImpl) transition(ctx context.Context, id uuid.UUID, updates map[string]interface{}, from ...entities.CheckoutAttemptStatus) error {
	statuses := make([]string, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, string(s))
	}

	db := GetDB(ctx, r.db)
	result := db.Model(&models.CheckoutAttempt{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.CheckoutAttempt{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrAttemptNotPending
}

func (r *CheckoutAttemptRepositoryImpl) first(ctx context.Context, query string, arg interface{}) (*entities.CheckoutAttempt, error) {
	var m models.CheckoutAttempt
	if err := GetDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toCheckoutAttemptEntity(&m), nil
}

func toCheckoutAttemptEntity(m *models.CheckoutAttempt) *entities.CheckoutAttempt {
	return &entities.CheckoutAttempt{
		ID:              m.ID,
		UserID:          m.UserID,
		TxRef:           m.TxRef,
		Plan:            entities.Plan(m.Plan),
		Cycle:           entities.BillingCycle(m.Cycle),
		Currency:        m.Currency,
		Amount:          m.Amount,
		DiscountPercent: null.IntFromPtr(m.DiscountPercent),
		ReferralCode:    null.StringFromPtr(m.ReferralCode),
		Status:          entities.CheckoutAttemptStatus(m.Status),
		TransactionID:   null.StringFromPtr(m.TransactionID),
		FailureReason:   null.StringFromPtr(m.FailureReason),
		VerifiedAt:      null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
