package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/internal/interfaces/http/response"
)

type OnboardingService interface {
	Start(ctx context.Context, userID uuid.UUID, input entities.StartOnboardingInput) (*entities.OnboardingState, error)
	Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error)
	SetBusinessName(ctx context.Context, userID uuid.UUID, input entities.BusinessNameInput) (*entities.OnboardingState, error)
	SetName(ctx context.Context, userID uuid.UUID, input entities.NameInput) (*entities.OnboardingState, error)
	SelectCategory(ctx context.Context, userID uuid.UUID, input entities.CategoryInput) (*entities.OnboardingState, error)
	ToggleChannel(ctx context.Context, userID uuid.UUID, input entities.ChannelInput) (*entities.OnboardingState, error)
	ChannelsNext(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error)
	Back(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error)
	SubmitContact(ctx context.Context, userID uuid.UUID, input entities.ContactInput) (*entities.OnboardingState, error)
	Finish(ctx context.Context, userID uuid.UUID) (*entities.FinishResult, error)
}

// OnboardingHandler drives the six-step wizard
type OnboardingHandler struct {
	onboardingUsecase OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingUsecase OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingUsecase: onboardingUsecase}
}

type stateAction func(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error)

func (h *OnboardingHandler) respondState(c *gin.Context, action stateAction) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	state, err := action(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"state":    state,
		"progress": state.Progress(),
	})
}

// bindState binds the JSON body into input before running action.
func bindState[T any](h *OnboardingHandler, c *gin.Context, run func(ctx context.Context, userID uuid.UUID, input T) (*entities.OnboardingState, error)) {
	var input T
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.respondState(c, func(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
		return run(ctx, userID, input)
	})
}

// Start starts or resumes the wizard
// POST /api/v1/onboarding/start
func (h *OnboardingHandler) Start(c *gin.Context) {
	var input entities.StartOnboardingInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, domainerrors.BadRequest(err.Error()))
			return
		}
	}
	h.respondState(c, func(ctx context.Context, userID uuid.UUID) (*entities.OnboardingState, error) {
		return h.onboardingUsecase.Start(ctx, userID, input)
	})
}

// Get returns the wizard state
// GET /api/v1/onboarding
func (h *OnboardingHandler) Get(c *gin.Context) {
	h.respondState(c, h.onboardingUsecase.Get)
}

// SetBusinessName completes step 1
// POST /api/v1/onboarding/business-name
func (h *OnboardingHandler) SetBusinessName(c *gin.Context) {
	bindState(h, c, h.onboardingUsecase.SetBusinessName)
}

// SetName completes step 2
// POST /api/v1/onboarding/name
func (h *OnboardingHandler) SetName(c *gin.Context) {
	bindState(h, c, h.onboardingUsecase.SetName)
}

// SelectCategory completes step 3
// POST /api/v1/onboarding/category
func (h *OnboardingHandler) SelectCategory(c *gin.Context) {
	bindState(h, c, h.onboardingUsecase.SelectCategory)
}

// ToggleChannel flips one channel on step 4
// POST /api/v1/onboarding/channels/toggle
func (h *OnboardingHandler) ToggleChannel(c *gin.Context) {
	bindState(h, c, h.onboardingUsecase.ToggleChannel)
}

// ChannelsNext completes step 4
// POST /api/v1/onboarding/channels/next
func (h *OnboardingHandler) ChannelsNext(c *gin.Context) {
	h.respondState(c, h.onboardingUsecase.ChannelsNext)
}

// Back returns to the previous step
// POST /api/v1/onboarding/back
func (h *OnboardingHandler) Back(c *gin.Context) {
	h.respondState(c, h.onboardingUsecase.Back)
}

// SubmitContact submits step 5. A rejected referral code is a 200 with the
// message on the state.
// POST /api/v1/onboarding/contact
func (h *OnboardingHandler) SubmitContact(c *gin.Context) {
	bindState(h, c, h.onboardingUsecase.SubmitContact)
}

// Finish persists the profile after the celebration dwell
// POST /api/v1/onboarding/finish
func (h *OnboardingHandler) Finish(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.onboardingUsecase.Finish(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
