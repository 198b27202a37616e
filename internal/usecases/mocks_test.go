package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/pkg/redis"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

// Mock ReferralCodeRepository
type MockReferralCodeRepository struct {
	mock.Mock
}

func (m *MockReferralCodeRepository) GetByCode(ctx context.Context, code string) (*entities.ReferralCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReferralCode), args.Error(1)
}

func (m *MockReferralCodeRepository) Create(ctx context.Context, code *entities.ReferralCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockReferralCodeRepository) SetActive(ctx context.Context, code string, active bool) error {
	return m.Called(ctx, code, active).Error(0)
}

func (m *MockReferralCodeRepository) List(ctx context.Context, activeOnly bool) ([]*entities.ReferralCode, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ReferralCode), args.Error(1)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *entities.MerchantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *entities.MerchantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *entities.MerchantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.MerchantProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MerchantProfile), args.Error(1)
}

func (m *MockProfileRepository) GetBySubdomain(ctx context.Context, subdomain string) (*entities.MerchantProfile, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MerchantProfile), args.Error(1)
}

// Mock CheckoutAttemptRepository
type MockCheckoutAttemptRepository struct {
	mock.Mock
}

func (m *MockCheckoutAttemptRepository) Create(ctx context.Context, attempt *entities.CheckoutAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockCheckoutAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CheckoutAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CheckoutAttempt), args.Error(1)
}

func (m *MockCheckoutAttemptRepository) GetByTxRef(ctx context.Context, txRef string) (*entities.CheckoutAttempt, error) {
	args := m.Called(ctx, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CheckoutAttempt), args.Error(1)
}

func (m *MockCheckoutAttemptRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CheckoutAttemptStatus, reason string) error {
	return m.Called(ctx, id, status, reason).Error(0)
}

func (m *MockCheckoutAttemptRepository) MarkVerified(ctx context.Context, id uuid.UUID, transactionID string, verifiedAt time.Time) error {
	return m.Called(ctx, id, transactionID, verifiedAt).Error(0)
}

func (m *MockCheckoutAttemptRepository) GetExpiredPending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.CheckoutAttempt, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CheckoutAttempt), args.Error(1)
}

func (m *MockCheckoutAttemptRepository) ExpireAttempts(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

// Mock SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub *entities.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Subscription), args.Error(1)
}

// Mock PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, transactionID string) (*entities.GatewayTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GatewayTransaction), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, data *redis.SessionData, expiration time.Duration) (string, error) {
	args := m.Called(ctx, data, expiration)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

// memoryStateStore keeps wizard state in a map.
type memoryStateStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]entities.OnboardingState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[uuid.UUID]entities.OnboardingState{}}
}

func (s *memoryStateStore) Get(_ context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[userID]
	if !ok {
		return nil, domainerrors.ErrOnboardingNotFound
	}
	state.Answers.Channels = append([]entities.Channel{}, state.Answers.Channels...)
	return &state, nil
}

func (s *memoryStateStore) Save(_ context.Context, state *entities.OnboardingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	copied.Answers.Channels = append([]entities.Channel{}, state.Answers.Channels...)
	s.states[state.UserID] = copied
	return nil
}

func (s *memoryStateStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

// memoryLocker grants one holder per user.
type memoryLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: map[uuid.UUID]bool{}}
}

func (l *memoryLocker) Acquire(_ context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[userID] {
		return nil, domainerrors.ErrSubmissionInFlight
	}
	l.held[userID] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, userID)
	}, nil
}

// memoryProfileRepo keeps one profile per user. Upsert keeps an existing subdomain.
type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]entities.MerchantProfile
	upserts  int
	failNext error
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: map[uuid.UUID]entities.MerchantProfile{}}
}

func (r *memoryProfileRepo) Create(_ context.Context, profile *entities.MerchantProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *memoryProfileRepo) Update(_ context.Context, profile *entities.MerchantProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.UserID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	updated := *profile
	updated.Subdomain = existing.Subdomain
	r.profiles[profile.UserID] = updated
	return nil
}

func (r *memoryProfileRepo) Upsert(_ context.Context, profile *entities.MerchantProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.upserts++
	updated := *profile
	if existing, ok := r.profiles[profile.UserID]; ok {
		updated.Subdomain = existing.Subdomain
	}
	r.profiles[profile.UserID] = updated
	return nil
}

func (r *memoryProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entities.MerchantProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &p, nil
}

func (r *memoryProfileRepo) GetBySubdomain(_ context.Context, subdomain string) (*entities.MerchantProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Subdomain == subdomain {
			return &p, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
