package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/interfaces/http/response"
	"collabriss.backend/internal/usecases"
)

type ReferralService interface {
	Validate(ctx context.Context, code string) (*entities.ReferralDetails, error)
}

// ReferralHandler serves the referral lookup function
type ReferralHandler struct {
	referralUsecase ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralUsecase ReferralService) *ReferralHandler {
	return &ReferralHandler{referralUsecase: referralUsecase}
}

// Validate resolves a referral code to the referrer and discount.
// Rejections are 400 with the user-facing message.
// POST /api/v1/referrals/validate
func (h *ReferralHandler) Validate(c *gin.Context) {
	var input entities.ValidateReferralInput
	// an unreadable body is treated as an empty code
	_ = c.ShouldBindJSON(&input)

	details, err := h.referralUsecase.Validate(c.Request.Context(), input.Code)
	if err != nil {
		if usecases.IsRejection(err) {
			c.JSON(http.StatusBadRequest, entities.ValidateReferralResponse{
				Success: false,
				Message: domainerrors.FromError(err).Message,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entities.ValidateReferralResponse{
		Success: true,
		Data:    details,
	})
}
