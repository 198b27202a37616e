package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/internal/interfaces/http/response"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*entities.MerchantProfile, error)
	Update(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.MerchantProfile, error)
	GetStore(ctx context.Context, subdomain string) (*entities.PublicStore, error)
}

// ProfileHandler handles merchant profile and storefront endpoints
type ProfileHandler struct {
	profileUsecase ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileUsecase ProfileService) *ProfileHandler {
	return &ProfileHandler{profileUsecase: profileUsecase}
}

// GetProfile returns the current merchant profile
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	profile, err := h.profileUsecase.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Profile not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile edits the settings-page fields
// PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	profile, err := h.profileUsecase.Update(c.Request.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Profile not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// GetStore resolves a public storefront
// GET /api/v1/stores/:subdomain
func (h *ProfileHandler) GetStore(c *gin.Context) {
	subdomain := strings.ToLower(strings.TrimSpace(c.Param("subdomain")))
	if subdomain == "" {
		response.Error(c, domainerrors.BadRequest("Subdomain is required"))
		return
	}

	store, err := h.profileUsecase.GetStore(c.Request.Context(), subdomain)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Store not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"store": store})
}
