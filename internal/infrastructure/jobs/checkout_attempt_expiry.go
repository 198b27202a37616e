package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/metrics"
)

const expiryBatchSize = 100

type checkoutAttemptExpiryRepo interface {
	GetExpiredPending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.CheckoutAttempt, error)
	ExpireAttempts(ctx context.Context, ids []uuid.UUID) error
}

// CheckoutAttemptExpiryJob marks pending attempts older than ttl as expired.
type CheckoutAttemptExpiryJob struct {
	repo     checkoutAttemptExpiryRepo
	metrics  *metrics.Registry
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewCheckoutAttemptExpiryJob(repo checkoutAttemptExpiryRepo, m *metrics.Registry, ttl time.Duration) *CheckoutAttemptExpiryJob {
	return &CheckoutAttemptExpiryJob{
		repo:     repo,
		metrics:  m,
		ttl:      ttl,
		interval: time.Minute,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *CheckoutAttemptExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting checkout attempt expiry job", zap.Duration("ttl", j.ttl))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Checkout attempt expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Checkout attempt expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredAttempts(ctx)
		}
	}
}

func (j *CheckoutAttemptExpiryJob) Stop() {
	close(j.stop)
}

func (j *CheckoutAttemptExpiryJob) processExpiredAttempts(ctx context.Context) {
	expired, err := j.repo.GetExpiredPending(ctx, j.now().Add(-j.ttl), expiryBatchSize)
	if err != nil {
		logger.Error(ctx, "Error fetching expired checkout attempts", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, a := range expired {
		ids = append(ids, a.ID)
	}

	if err := j.repo.ExpireAttempts(ctx, ids); err != nil {
		logger.Error(ctx, "Error expiring checkout attempts", zap.Int("count", len(ids)), zap.Error(err))
		return
	}

	for _, a := range expired {
		j.metrics.CheckoutAttempt(string(a.Plan), "expired")
	}
	logger.Info(ctx, "Expired checkout attempts", zap.Int("count", len(ids)))
}
