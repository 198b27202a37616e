package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/internal/interfaces/http/response"
)

type CheckoutService interface {
	Initiate(ctx context.Context, userID uuid.UUID, input *entities.CheckoutInput) (*entities.CheckoutResponse, error)
	HandleCallback(ctx context.Context, userID uuid.UUID, input *entities.PaymentCallbackInput) (*entities.PaymentCallbackResult, error)
	Verify(ctx context.Context, userID uuid.UUID, input *entities.VerifyPaymentInput) (*entities.VerifyPaymentResponse, error)
	GetSubscription(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
}

// CheckoutHandler handles checkout, payment callback and verification
type CheckoutHandler struct {
	checkoutUsecase CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutUsecase CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase}
}

// Initiate starts a checkout for the selected plan
// POST /api/v1/checkout
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	var input entities.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	resp, err := h.checkoutUsecase.Initiate(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if resp.SkipPayment {
		status = http.StatusOK
	}
	response.Success(c, status, resp)
}

// Callback records what the payment UI reported
// POST /api/v1/checkout/callback
func (h *CheckoutHandler) Callback(c *gin.Context) {
	var input entities.PaymentCallbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.checkoutUsecase.HandleCallback(c.Request.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Checkout attempt not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Verify checks a transaction with the gateway and activates the plan
// POST /api/v1/payments/verify
func (h *CheckoutHandler) Verify(c *gin.Context) {
	var input entities.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.checkoutUsecase.Verify(c.Request.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Checkout attempt not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetSubscription returns the user's plan
// GET /api/v1/subscription
func (h *CheckoutHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	sub, err := h.checkoutUsecase.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("No subscription"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}
