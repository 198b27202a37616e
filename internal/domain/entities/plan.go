package entities

import (
	"net/url"
	"strconv"
	"strings"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
)

// IsValid reports whether p is a known plan.
func (p Plan) IsValid() bool {
	return p == PlanFree || p == PlanStarter || p == PlanPro
}

// BillingCycle is monthly or yearly.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// IsValid reports whether c is a known cycle.
func (c BillingCycle) IsValid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// PlanInfo describes a plan and its base prices in whole currency units.
type PlanInfo struct {
	Key       Plan                   `json:"key"`
	Name      string                 `json:"name"`
	Prices    map[BillingCycle]int64 `json:"prices"`
	Features  []string               `json:"features"`
	IsPopular bool                   `json:"isPopular"`
}

// PlanCatalog returns the plans in display order. Prices are NGN.
func PlanCatalog() []PlanInfo {
	return []PlanInfo{
		{
			Key:      PlanFree,
			Name:     "Free",
			Prices:   map[BillingCycle]int64{CycleMonthly: 0, CycleYearly: 0},
			Features: []string{"Up to 25 products", "Online Storefront", "Basic Inventory", "Community Support"},
		},
		{
			Key:       PlanStarter,
			Name:      "Starter",
			Prices:    map[BillingCycle]int64{CycleMonthly: 4000, CycleYearly: 40000},
			Features:  []string{"Unlimited products", "Custom Domain", "Staff Accounts", "Priority Support"},
			IsPopular: true,
		},
		{
			Key:      PlanPro,
			Name:     "Pro",
			Prices:   map[BillingCycle]int64{CycleMonthly: 12500, CycleYearly: 125000},
			Features: []string{"All Starter Features", "Advanced Analytics", "API Access", "Dedicated Manager"},
		},
	}
}

// LookupPlan returns the catalog entry for p.
func LookupPlan(p Plan) (PlanInfo, bool) {
	for _, info := range PlanCatalog() {
		if info.Key == p {
			return info, true
		}
	}
	return PlanInfo{}, false
}

// DiscountContext travels from onboarding to checkout as URL query state.
type DiscountContext struct {
	DiscountPercent int    `json:"discountPercent"`
	Code            string `json:"code"`
}

const (
	discountQueryKey = "discount"
	codeQueryKey     = "code"
)

// Query encodes the context as `discount` and `code` query parameters.
func (d *DiscountContext) Query() url.Values {
	q := url.Values{}
	if d == nil {
		return q
	}
	q.Set(discountQueryKey, strconv.Itoa(d.DiscountPercent))
	q.Set(codeQueryKey, d.Code)
	return q
}

// ParseDiscountContext reads the query parameters. A missing or malformed
// `discount` means no discount.
func ParseDiscountContext(q url.Values) *DiscountContext {
	raw := strings.TrimSpace(q.Get(discountQueryKey))
	if raw == "" {
		return nil
	}
	pct, err := strconv.Atoi(raw)
	if err != nil || pct < 0 || pct > 100 {
		return nil
	}
	return &DiscountContext{DiscountPercent: pct, Code: q.Get(codeQueryKey)}
}

// PricingRedirect builds the checkout path carrying the discount context,
// "/pricing?discount=<n>&code=<code>", or "/pricing" without one.
func PricingRedirect(d *DiscountContext) string {
	if d == nil {
		return "/pricing"
	}
	return "/pricing?" + discountQueryKey + "=" + strconv.Itoa(d.DiscountPercent) +
		"&" + codeQueryKey + "=" + url.QueryEscape(d.Code)
}

// PlanQuote is a catalog entry priced for one cycle and optional discount.
type PlanQuote struct {
	PlanInfo
	Cycle          BillingCycle `json:"cycle"`
	BasePrice      float64      `json:"basePrice"`
	EffectivePrice float64      `json:"effectivePrice"`
	Currency       string       `json:"currency"`
}

// PlansResponse is the pricing page payload.
type PlansResponse struct {
	Cycle    BillingCycle     `json:"cycle"`
	Currency string           `json:"currency"`
	Discount *DiscountContext `json:"discount,omitempty"`
	Plans    []PlanQuote      `json:"plans"`
}
