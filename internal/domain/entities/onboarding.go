package entities

import (
	"time"

	"github.com/google/uuid"
)

// Category is the single business category picked on step 3.
type Category string

const (
	CategoryFashion     Category = "Fashion & Apparel"
	CategoryElectronics Category = "Electronics"
	CategoryFood        Category = "Food & Drinks"
	CategoryHealth      Category = "Health & Beauty"
	CategoryHome        Category = "Home & Garden"
	CategoryServices    Category = "Services"
	CategoryOther       Category = "Other"
)

// Categories lists the closed set in display order.
func Categories() []Category {
	return []Category{
		CategoryFashion, CategoryElectronics, CategoryFood, CategoryHealth,
		CategoryHome, CategoryServices, CategoryOther,
	}
}

// IsValid reports whether c belongs to the closed set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Channel is a selling channel toggled on step 4.
type Channel string

const (
	ChannelInstagram     Channel = "Instagram"
	ChannelFacebook      Channel = "Facebook"
	ChannelWhatsApp      Channel = "WhatsApp"
	ChannelPhysicalStore Channel = "Physical Store"
	ChannelWebsite       Channel = "Another website"
	ChannelJustStarting  Channel = "I'm just starting"
)

// Channels lists the closed set in display order.
func Channels() []Channel {
	return []Channel{
		ChannelInstagram, ChannelFacebook, ChannelWhatsApp,
		ChannelPhysicalStore, ChannelWebsite, ChannelJustStarting,
	}
}

// IsValid reports whether ch belongs to the closed set.
func (ch Channel) IsValid() bool {
	for _, known := range Channels() {
		if ch == known {
			return true
		}
	}
	return false
}

// OnboardingStep numbers the wizard steps.
type OnboardingStep int

const (
	StepBusinessName OnboardingStep = 1
	StepName         OnboardingStep = 2
	StepCategory     OnboardingStep = 3
	StepChannels     OnboardingStep = 4
	StepContact      OnboardingStep = 5
	StepFinish       OnboardingStep = 6
)

// TotalOnboardingSteps is used for progress reporting.
const TotalOnboardingSteps = 6

// FieldMode says whether a pre-fillable answer may still be edited.
type FieldMode string

const (
	FieldEditable FieldMode = "editable"
	FieldLocked   FieldMode = "locked"
)

// FieldLocks holds the mode of each pre-fillable field.
type FieldLocks struct {
	BusinessName FieldMode `json:"businessName"`
	FirstName    FieldMode `json:"firstName"`
	LastName     FieldMode `json:"lastName"`
}

// OnboardingAnswers is the wizard's collected input.
type OnboardingAnswers struct {
	BusinessName string    `json:"businessName"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Category     Category  `json:"category"`
	Channels     []Channel `json:"channels"`
	Phone        string    `json:"phone"`
	ReferralCode string    `json:"referralCode"`
}

// HasChannel reports channel membership.
func (a *OnboardingAnswers) HasChannel(ch Channel) bool {
	for _, c := range a.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// ReferralStatus tracks the redemption sub-flow on step 5.
type ReferralStatus string

const (
	ReferralIdle       ReferralStatus = "idle"
	ReferralValidating ReferralStatus = "validating"
	ReferralValid      ReferralStatus = "valid"
	ReferralInvalid    ReferralStatus = "invalid"
)

// ReferralRedemption is the redemption state shown on step 5.
type ReferralRedemption struct {
	Status         ReferralStatus   `json:"status"`
	Code           string           `json:"code,omitempty"`
	Message        string           `json:"message,omitempty"`
	Details        *ReferralDetails `json:"details,omitempty"`
	CelebrateUntil *time.Time       `json:"celebrateUntil,omitempty"`
}

// OnboardingState is the wizard instance for one user.
type OnboardingState struct {
	UserID    uuid.UUID          `json:"userId"`
	Email     string             `json:"email"`
	Step      OnboardingStep     `json:"step"`
	Answers   OnboardingAnswers  `json:"answers"`
	Locks     FieldLocks         `json:"locks"`
	Referral  ReferralRedemption `json:"referral"`
	Completed bool               `json:"completed"`
	Redirect  string             `json:"redirect,omitempty"`
	Error     string             `json:"error,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Progress returns the completion percentage of the wizard.
func (s *OnboardingState) Progress() int {
	return int(s.Step) * 100 / TotalOnboardingSteps
}

// StartOnboardingInput carries optional pre-fill values from the signup step.
type StartOnboardingInput struct {
	BusinessName string `json:"businessName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// BusinessNameInput is the step 1 body.
type BusinessNameInput struct {
	BusinessName string `json:"businessName"`
}

// NameInput is the step 2 body.
type NameInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CategoryInput is the step 3 body.
type CategoryInput struct {
	Category Category `json:"category" binding:"required"`
}

// ChannelInput is the step 4 toggle body.
type ChannelInput struct {
	Channel Channel `json:"channel" binding:"required"`
}

// ContactInput is the step 5 body.
type ContactInput struct {
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

// FinishResult is returned once the profile is persisted.
type FinishResult struct {
	Profile  *MerchantProfile `json:"profile"`
	Discount *DiscountContext `json:"discount,omitempty"`
	Redirect string           `json:"redirect"`
}
