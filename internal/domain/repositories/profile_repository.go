package repositories

import (
	"context"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
)

// ProfileRepository defines merchant profile operations
type ProfileRepository interface {
	// Create fails with ErrAlreadyExists when the user already has a profile.
	Create(ctx context.Context, profile *entities.MerchantProfile) error
	// Update rewrites every answer field. The subdomain is never changed.
	Update(ctx context.Context, profile *entities.MerchantProfile) error
	// Upsert inserts or updates in one statement, keeping an existing subdomain.
	Upsert(ctx context.Context, profile *entities.MerchantProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.MerchantProfile, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*entities.MerchantProfile, error)
}
