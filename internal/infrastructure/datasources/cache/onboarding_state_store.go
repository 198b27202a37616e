package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/pkg/redis"
)

const onboardingStateKeyPrefix = "onboarding:state:"

// OnboardingStateStore keeps wizard state in Redis as JSON.
type OnboardingStateStore struct {
	ttl time.Duration
}

func NewOnboardingStateStore(ttl time.Duration) *OnboardingStateStore {
	return &OnboardingStateStore{ttl: ttl}
}

func (s *OnboardingStateStore) Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
	raw, err := redis.Get(ctx, onboardingStateKey(userID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, domainerrors.ErrOnboardingNotFound
		}
		return nil, fmt.Errorf("load onboarding state: %w", err)
	}

	var state entities.OnboardingState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode onboarding state: %w", err)
	}
	return &state, nil
}

// Save refreshes the TTL on every write.
func (s *OnboardingStateStore) Save(ctx context.Context, state *entities.OnboardingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode onboarding state: %w", err)
	}
	if err := redis.Set(ctx, onboardingStateKey(state.UserID), data, s.ttl); err != nil {
		return fmt.Errorf("save onboarding state: %w", err)
	}
	return nil
}

func (s *OnboardingStateStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return redis.Del(ctx, onboardingStateKey(userID))
}

func onboardingStateKey(userID uuid.UUID) string {
	return onboardingStateKeyPrefix + userID.String()
}
