package repositories

import (
	"context"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
)

// OnboardingStateStore keeps wizard state between requests.
type OnboardingStateStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error)
	Save(ctx context.Context, state *entities.OnboardingState) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// SubmissionLocker serializes submissions of one user. Acquire returns
// ErrSubmissionInFlight when another submission holds the lock.
type SubmissionLocker interface {
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}
