package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/domain/repositories"
	"collabriss.backend/pkg/logger"
)

// ProfileUsecase serves the settings page and storefront lookups
type ProfileUsecase struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profileRepo repositories.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo}
}

// Get returns the user's profile.
func (u *ProfileUsecase) Get(ctx context.Context, userID uuid.UUID) (*entities.MerchantProfile, error) {
	return u.profileRepo.GetByUserID(ctx, userID)
}

// Update edits answer fields. The subdomain cannot be changed.
func (u *ProfileUsecase) Update(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.MerchantProfile, error) {
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		v := strings.TrimSpace(*input.BusinessName)
		if v == "" {
			return nil, fmt.Errorf("%w: business name is required", domainerrors.ErrInvalidInput)
		}
		profile.BusinessName = v
	}
	if input.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		profile.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		v := strings.TrimSpace(*input.Phone)
		if v == "" {
			return nil, fmt.Errorf("%w: phone number is required", domainerrors.ErrInvalidInput)
		}
		profile.Phone = v
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", domainerrors.ErrInvalidInput, *input.Category)
		}
		profile.Category = *input.Category
	}
	if input.Channels != nil {
		seen := make(map[entities.Channel]bool, len(input.Channels))
		channels := make([]entities.Channel, 0, len(input.Channels))
		for _, ch := range input.Channels {
			if !ch.IsValid() {
				return nil, fmt.Errorf("%w: unknown channel %q", domainerrors.ErrInvalidInput, ch)
			}
			if !seen[ch] {
				seen[ch] = true
				channels = append(channels, ch)
			}
		}
		profile.Channels = channels
	}

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Profile updated", zap.String("user_id", userID.String()))
	return u.profileRepo.GetByUserID(ctx, userID)
}

// GetStore resolves a storefront by subdomain.
func (u *ProfileUsecase) GetStore(ctx context.Context, subdomain string) (*entities.PublicStore, error) {
	profile, err := u.profileRepo.GetBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
	if err != nil {
		return nil, err
	}
	return &entities.PublicStore{
		Subdomain:    profile.Subdomain,
		BusinessName: profile.BusinessName,
		Category:     profile.Category,
	}, nil
}
