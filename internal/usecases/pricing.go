package usecases

import (
	"fmt"

	"github.com/shopspring/decimal"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
)

// Minor unit places of the billing currency (kobo for NGN).
const currencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies an optional percentage discount to base:
// base - base*discount/100, rounded half away from zero to the currency minor unit.
// A nil discount returns base unchanged.
func EffectivePrice(base decimal.Decimal, discountPercent *int) decimal.Decimal {
	if discountPercent == nil {
		return base
	}
	off := base.Mul(decimal.NewFromInt(int64(*discountPercent))).Div(hundred)
	return base.Sub(off).Round(currencyPlaces)
}

// PriceFor returns the amount due for a plan and cycle after discount.
func PriceFor(plan entities.Plan, cycle entities.BillingCycle, discountPercent *int) (decimal.Decimal, error) {
	info, ok := entities.LookupPlan(plan)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown plan %q", domainerrors.ErrInvalidInput, plan)
	}
	if !cycle.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unknown billing cycle %q", domainerrors.ErrInvalidInput, cycle)
	}
	if discountPercent != nil && (*discountPercent < 0 || *discountPercent > 100) {
		return decimal.Zero, fmt.Errorf("%w: discount must be between 0 and 100", domainerrors.ErrInvalidInput)
	}
	return EffectivePrice(decimal.NewFromInt(info.Prices[cycle]), discountPercent), nil
}

// PricingUsecase prices the plan catalog for the pricing page.
type PricingUsecase struct {
	currency string
}

// NewPricingUsecase creates a new pricing usecase
func NewPricingUsecase(currency string) *PricingUsecase {
	return &PricingUsecase{currency: currency}
}

// Quote prices every plan for cycle. The percentage re-applies to each plan.
func (u *PricingUsecase) Quote(cycle entities.BillingCycle, discount *entities.DiscountContext) (*entities.PlansResponse, error) {
	if cycle == "" {
		cycle = entities.CycleMonthly
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("%w: unknown billing cycle %q", domainerrors.ErrInvalidInput, cycle)
	}

	var pct *int
	if discount != nil {
		pct = &discount.DiscountPercent
	}

	catalog := entities.PlanCatalog()
	quotes := make([]entities.PlanQuote, 0, len(catalog))
	for _, info := range catalog {
		base := decimal.NewFromInt(info.Prices[cycle])
		quotes = append(quotes, entities.PlanQuote{
			PlanInfo:       info,
			Cycle:          cycle,
			BasePrice:      amountFloat(base),
			EffectivePrice: amountFloat(EffectivePrice(base, pct)),
			Currency:       u.currency,
		})
	}

	return &entities.PlansResponse{
		Cycle:    cycle,
		Currency: u.currency,
		Discount: discount,
		Plans:    quotes,
	}, nil
}
