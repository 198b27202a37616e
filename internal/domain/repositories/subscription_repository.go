package repositories

import (
	"context"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
)

// SubscriptionRepository defines subscription operations
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *entities.Subscription) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
}
