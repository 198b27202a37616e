package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/pkg/crypto"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/redis"
)

const (
	submissionLockKeyPrefix = "onboarding:lock:"
	releaseTimeout          = 2 * time.Second
	lockTokenBytes          = 16
)

// SubmissionLocker allows one in-flight submission per user. The lock expires
// after ttl so a crashed request cannot block the user for long.
type SubmissionLocker struct {
	ttl time.Duration
}

func NewSubmissionLocker(ttl time.Duration) *SubmissionLocker {
	return &SubmissionLocker{ttl: ttl}
}

func (l *SubmissionLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := submissionLockKeyPrefix + userID.String()
	token, err := crypto.GenerateRandomToken(lockTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("acquire submission lock: %w", err)
	}

	ok, err := redis.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrSubmissionInFlight
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := redis.ReleaseIfOwned(ctx, key, token); err != nil {
			logger.Warn(ctx, "Failed to release submission lock", zap.String("userId", userID.String()), zap.Error(err))
		}
	}
	return release, nil
}
