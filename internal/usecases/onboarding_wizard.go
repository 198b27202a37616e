package usecases

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
)

// newOnboardingState starts a wizard on step 1. Non-empty pre-fill values
// are stored and locked.
func newOnboardingState(userID uuid.UUID, email string, prefill entities.StartOnboardingInput, now time.Time) *entities.OnboardingState {
	state := &entities.OnboardingState{
		UserID: userID,
		Email:  email,
		Step:   entities.StepBusinessName,
		Answers: entities.OnboardingAnswers{
			Channels: []entities.Channel{},
		},
		Locks: entities.FieldLocks{
			BusinessName: entities.FieldEditable,
			FirstName:    entities.FieldEditable,
			LastName:     entities.FieldEditable,
		},
		Referral:  entities.ReferralRedemption{Status: entities.ReferralIdle},
		UpdatedAt: now,
	}

	if v := strings.TrimSpace(prefill.BusinessName); v != "" {
		state.Answers.BusinessName = v
		state.Locks.BusinessName = entities.FieldLocked
	}
	if v := strings.TrimSpace(prefill.FirstName); v != "" {
		state.Answers.FirstName = v
		state.Locks.FirstName = entities.FieldLocked
	}
	if v := strings.TrimSpace(prefill.LastName); v != "" {
		state.Answers.LastName = v
		state.Locks.LastName = entities.FieldLocked
	}
	return state
}

func requireStep(state *entities.OnboardingState, step entities.OnboardingStep) error {
	if state.Completed {
		return domainerrors.ErrOnboardingCompleted
	}
	if state.Step != step {
		return fmt.Errorf("%w: on step %d, expected %d", domainerrors.ErrWrongStep, state.Step, step)
	}
	return nil
}

// applyField resolves an input against a possibly locked field. An empty
// input keeps the current value; a locked field rejects a different value.
func applyField(current string, mode entities.FieldMode, input string) (string, error) {
	v := strings.TrimSpace(input)
	if v == "" {
		return current, nil
	}
	if mode == entities.FieldLocked {
		if v != current {
			return "", domainerrors.ErrFieldLocked
		}
		return current, nil
	}
	return v, nil
}

func setBusinessName(state *entities.OnboardingState, input entities.BusinessNameInput) error {
	if err := requireStep(state, entities.StepBusinessName); err != nil {
		return err
	}
	name, err := applyField(state.Answers.BusinessName, state.Locks.BusinessName, input.BusinessName)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: business name is required", domainerrors.ErrInvalidInput)
	}
	state.Answers.BusinessName = name
	state.Step = entities.StepName
	return nil
}

func setName(state *entities.OnboardingState, input entities.NameInput) error {
	if err := requireStep(state, entities.StepName); err != nil {
		return err
	}
	first, err := applyField(state.Answers.FirstName, state.Locks.FirstName, input.FirstName)
	if err != nil {
		return err
	}
	last, err := applyField(state.Answers.LastName, state.Locks.LastName, input.LastName)
	if err != nil {
		return err
	}
	if first == "" || last == "" {
		return fmt.Errorf("%w: first and last name are required", domainerrors.ErrInvalidInput)
	}
	state.Answers.FirstName = first
	state.Answers.LastName = last
	state.Step = entities.StepCategory
	return nil
}

// selectCategory records the category and advances immediately.
func selectCategory(state *entities.OnboardingState, category entities.Category) error {
	if err := requireStep(state, entities.StepCategory); err != nil {
		return err
	}
	if !category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", domainerrors.ErrInvalidInput, category)
	}
	state.Answers.Category = category
	state.Step = entities.StepChannels
	return nil
}

// toggleChannel adds the channel when absent and removes it when present.
func toggleChannel(state *entities.OnboardingState, channel entities.Channel) error {
	if err := requireStep(state, entities.StepChannels); err != nil {
		return err
	}
	if !channel.IsValid() {
		return fmt.Errorf("%w: unknown channel %q", domainerrors.ErrInvalidInput, channel)
	}

	if state.Answers.HasChannel(channel) {
		kept := make([]entities.Channel, 0, len(state.Answers.Channels))
		for _, c := range state.Answers.Channels {
			if c != channel {
				kept = append(kept, c)
			}
		}
		state.Answers.Channels = kept
		return nil
	}
	state.Answers.Channels = append(state.Answers.Channels, channel)
	return nil
}

func channelsNext(state *entities.OnboardingState) error {
	if err := requireStep(state, entities.StepChannels); err != nil {
		return err
	}
	state.Step = entities.StepContact
	return nil
}

// goBack moves to the immediately preceding step. Step 1 has no back, and
// once the finish step is reached the wizard cannot go back.
func goBack(state *entities.OnboardingState) error {
	if state.Completed {
		return domainerrors.ErrOnboardingCompleted
	}
	if state.Step <= entities.StepBusinessName || state.Step >= entities.StepFinish {
		return fmt.Errorf("%w: cannot go back from step %d", domainerrors.ErrWrongStep, state.Step)
	}
	if state.Step == entities.StepContact {
		state.Referral = entities.ReferralRedemption{Status: entities.ReferralIdle}
	}
	state.Step--
	state.Error = ""
	return nil
}

// beginContact records step 5 answers. It returns the referral code as typed.
func beginContact(state *entities.OnboardingState, input entities.ContactInput) (string, error) {
	if err := requireStep(state, entities.StepContact); err != nil {
		return "", err
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return "", fmt.Errorf("%w: phone number is required", domainerrors.ErrInvalidInput)
	}
	code := input.ReferralCode
	state.Answers.Phone = phone
	state.Answers.ReferralCode = code
	state.Error = ""
	if code == "" {
		state.Referral = entities.ReferralRedemption{Status: entities.ReferralIdle}
		return "", nil
	}
	state.Referral = entities.ReferralRedemption{Status: entities.ReferralValidating, Code: code}
	return code, nil
}

// referralRejected keeps the wizard on step 5 with the message inline.
func referralRejected(state *entities.OnboardingState, message string) {
	state.Referral.Status = entities.ReferralInvalid
	state.Referral.Message = message
	state.Referral.Details = nil
	state.Referral.CelebrateUntil = nil
}

// referralAccepted enters the celebration dwell before finishing.
func referralAccepted(state *entities.OnboardingState, details *entities.ReferralDetails, celebrateUntil time.Time) {
	state.Referral.Status = entities.ReferralValid
	state.Referral.Message = ""
	state.Referral.Details = details
	state.Referral.CelebrateUntil = &celebrateUntil
	state.Step = entities.StepFinish
}

// discountFor returns the discount context of a redeemed referral, or nil.
func discountFor(state *entities.OnboardingState) *entities.DiscountContext {
	if state.Referral.Status != entities.ReferralValid || state.Referral.Details == nil {
		return nil
	}
	return &entities.DiscountContext{
		DiscountPercent: state.Referral.Details.DiscountPercent,
		Code:            state.Referral.Code,
	}
}

// remainingDwell is how long the celebration still has to run at now.
func remainingDwell(state *entities.OnboardingState, now time.Time) time.Duration {
	if state.Referral.Status != entities.ReferralValid || state.Referral.CelebrateUntil == nil {
		return 0
	}
	if d := state.Referral.CelebrateUntil.Sub(now); d > 0 {
		return d
	}
	return 0
}
