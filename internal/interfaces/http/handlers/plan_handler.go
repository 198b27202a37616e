package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collabriss.backend/internal/domain/entities"
	"collabriss.backend/internal/interfaces/http/response"
)

type PricingService interface {
	Quote(cycle entities.BillingCycle, discount *entities.DiscountContext) (*entities.PlansResponse, error)
}

// PlanHandler serves the pricing page catalog
type PlanHandler struct {
	pricingUsecase PricingService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(pricingUsecase PricingService) *PlanHandler {
	return &PlanHandler{pricingUsecase: pricingUsecase}
}

// ListPlans prices the catalog for the requested cycle and discount
// GET /api/v1/plans?cycle=monthly&discount=20&code=ADA
func (h *PlanHandler) ListPlans(c *gin.Context) {
	discount := entities.ParseDiscountContext(c.Request.URL.Query())
	cycle := entities.BillingCycle(c.Query("cycle"))

	plans, err := h.pricingUsecase.Quote(cycle, discount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plans)
}
