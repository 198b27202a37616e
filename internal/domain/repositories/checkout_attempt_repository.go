package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
)

// CheckoutAttemptRepository defines checkout attempt operations
type CheckoutAttemptRepository interface {
	Create(ctx context.Context, attempt *entities.CheckoutAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CheckoutAttempt, error)
	GetByTxRef(ctx context.Context, txRef string) (*entities.CheckoutAttempt, error)
	// UpdateStatus moves a pending attempt to status; ErrAttemptNotPending otherwise.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CheckoutAttemptStatus, reason string) error
	MarkVerified(ctx context.Context, id uuid.UUID, transactionID string, verifiedAt time.Time) error
	GetExpiredPending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.CheckoutAttempt, error)
	ExpireAttempts(ctx context.Context, ids []uuid.UUID) error
}
