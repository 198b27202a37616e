package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/domain/repositories"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/metrics"
)

const (
	msgReferralUnavailable = "Could not validate referral code. Please try again."
	msgProfileSaveFailed   = "Could not save your profile. Please try again."
)

// OnboardingUsecase drives the six-step merchant setup wizard
type OnboardingUsecase struct {
	stateStore  repositories.OnboardingStateStore
	locker      repositories.SubmissionLocker
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	referrals   *ReferralUsecase
	metrics     *metrics.Registry
	dwell       time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOnboardingUsecase creates a new onboarding usecase. dwell is how long a
// redeemed referral is celebrated before the profile is saved.
func NewOnboardingUsecase(
	stateStore repositories.OnboardingStateStore,
	locker repositories.SubmissionLocker,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	referrals *ReferralUsecase,
	m *metrics.Registry,
	dwell time.Duration,
) *OnboardingUsecase {
	return &OnboardingUsecase{
		stateStore:  stateStore,
		locker:      locker,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		referrals:   referrals,
		metrics:     m,
		dwell:       dwell,
		now:         func() time.Time { return time.Now().UTC() },
		sleep:       sleepContext,
	}
}

// SetClock replaces the time source and the dwell wait.
func (u *OnboardingUsecase) SetClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) {
	if now != nil {
		u.now = now
	}
	if sleep != nil {
		u.sleep = sleep
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start resumes the user's wizard or starts a new one. Signup values from the
// user record and the request pre-fill and lock steps 1 and 2.
func (u *OnboardingUsecase) Start(ctx context.Context, userID uuid.UUID, input entities.StartOnboardingInput) (*entities.OnboardingState, error) {
	existing, err := u.stateStore.Get(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrOnboardingNotFound) {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefill := entities.StartOnboardingInput{
		BusinessName: firstNonEmpty(input.BusinessName, user.BusinessName),
		FirstName:    firstNonEmpty(input.FirstName, user.FirstName),
		LastName:     firstNonEmpty(input.LastName, user.LastName),
	}
	state := newOnboardingState(userID, user.Email, prefill, u.now())
	if err := u.stateStore.Save(ctx, state); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Onboarding started",
		zap.String("user_id", userID.String()),
		zap.Bool("business_name_locked", state.Locks.BusinessName == entities.FieldLocked),
	)
	return state, nil
}

// Get returns the current wizard state.
func (u *OnboardingUsecase) Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
	return u.stateStore.Get(ctx, userID)
}

// SetBusinessName completes step 1.
func (u *OnboardingUsecase) SetBusinessName(ctx context.Context, userID uuid.UUID, input entities.BusinessNameInput) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, func(s *entities.OnboardingState) error { return setBusinessName(s, input) })
}

// SetName completes step 2.
func (u *OnboardingUsecase) SetName(ctx context.Context, userID uuid.UUID, input entities.NameInput) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, func(s *entities.OnboardingState) error { return setName(s, input) })
}

// SelectCategory completes step 3.
func (u *OnboardingUsecase) SelectCategory(ctx context.Context, userID uuid.UUID, input entities.CategoryInput) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, func(s *entities.OnboardingState) error { return selectCategory(s, input.Category) })
}

// ToggleChannel flips one channel on step 4.
func (u *OnboardingUsecase) ToggleChannel(ctx context.Context, userID uuid.UUID, input entities.ChannelInput) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, func(s *entities.OnboardingState) error { return toggleChannel(s, input.Channel) })
}

// ChannelsNext leaves step 4.
func (u *OnboardingUsecase) ChannelsNext(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, channelsNext)
}

// Back returns to the previous step.
func (u *OnboardingUsecase) Back(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
	return u.mutate(ctx, userID, goBack)
}

func (u *OnboardingUsecase) mutate(ctx context.Context, userID uuid.UUID, fn func(*entities.OnboardingState) error) (*entities.OnboardingState, error) {
	state, err := u.stateStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UpdatedAt = u.now()
	if err := u.stateStore.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SubmitContact records step 5. Without a referral code the profile is saved
// right away. With a code the code is validated: a rejection stays on step 5
// with the message inline, a valid code starts the celebration dwell and
// moves to the finish step.
func (u *OnboardingUsecase) SubmitContact(ctx context.Context, userID uuid.UUID, input entities.ContactInput) (*entities.OnboardingState, error) {
	release, err := u.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := u.stateStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	code, err := beginContact(state, input)
	if err != nil {
		return nil, err
	}

	if code == "" {
		if _, err := u.finish(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	state.UpdatedAt = u.now()
	if err := u.stateStore.Save(ctx, state); err != nil {
		return nil, err
	}

	details, err := u.referrals.Validate(ctx, code)
	if err != nil {
		if !IsRejection(err) {
			state.Referral = entities.ReferralRedemption{Status: entities.ReferralIdle, Code: code}
			state.Error = msgReferralUnavailable
			u.saveQuietly(ctx, state)
			return nil, err
		}
		referralRejected(state, domainerrors.FromError(err).Message)
		state.UpdatedAt = u.now()
		if err := u.stateStore.Save(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	now := u.now()
	referralAccepted(state, details, now.Add(u.dwell))
	state.UpdatedAt = now
	if err := u.stateStore.Save(ctx, state); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Referral redeemed",
		zap.String("user_id", userID.String()),
		zap.String("code", code),
		zap.Int("discount_percent", details.DiscountPercent),
	)
	return state, nil
}

// Finish saves the profile once the celebration dwell has elapsed. Calling it
// again after success rewrites the same profile and keeps its subdomain.
func (u *OnboardingUsecase) Finish(ctx context.Context, userID uuid.UUID) (*entities.FinishResult, error) {
	release, err := u.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := u.stateStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Step != entities.StepFinish {
		return nil, fmt.Errorf("%w: on step %d, expected %d", domainerrors.ErrWrongStep, state.Step, entities.StepFinish)
	}

	if wait := remainingDwell(state, u.now()); wait > 0 {
		if err := u.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return u.finish(ctx, state)
}

func (u *OnboardingUsecase) finish(ctx context.Context, state *entities.OnboardingState) (*entities.FinishResult, error) {
	state.Step = entities.StepFinish

	subdomain, err := GenerateSubdomain(state.Answers.BusinessName)
	if err != nil {
		return nil, fmt.Errorf("generate subdomain: %w", err)
	}

	profile := &entities.MerchantProfile{
		UserID:       state.UserID,
		Email:        state.Email,
		Subdomain:    subdomain,
		BusinessName: state.Answers.BusinessName,
		FirstName:    state.Answers.FirstName,
		LastName:     state.Answers.LastName,
		Category:     state.Answers.Category,
		Channels:     state.Answers.Channels,
		Phone:        state.Answers.Phone,
	}
	discount := discountFor(state)
	if discount != nil {
		profile.ReferralCode = null.StringFrom(discount.Code)
	}

	if err := u.profileRepo.Upsert(ctx, profile); err != nil {
		logger.Error(ctx, "Profile upsert failed", zap.String("user_id", state.UserID.String()), zap.Error(err))
		state.Error = msgProfileSaveFailed
		u.saveQuietly(ctx, state)
		return nil, err
	}
	u.metrics.ProfileUpserted()

	saved, err := u.profileRepo.GetByUserID(ctx, state.UserID)
	if err != nil {
		return nil, err
	}

	redirect := entities.PricingRedirect(discount)
	state.Completed = true
	state.Redirect = redirect
	state.Error = ""
	state.UpdatedAt = u.now()
	if err := u.stateStore.Save(ctx, state); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Onboarding finished",
		zap.String("user_id", state.UserID.String()),
		zap.String("subdomain", saved.Subdomain),
		zap.Bool("discounted", discount != nil),
	)
	return &entities.FinishResult{
		Profile:  saved,
		Discount: discount,
		Redirect: redirect,
	}, nil
}

func (u *OnboardingUsecase) saveQuietly(ctx context.Context, state *entities.OnboardingState) {
	state.UpdatedAt = u.now()
	if err := u.stateStore.Save(ctx, state); err != nil {
		logger.Warn(ctx, "Failed to save onboarding state", zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
