package entities

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCatalog(t *testing.T) {
	starter, ok := LookupPlan(PlanStarter)
	require.True(t, ok)
	assert.Equal(t, int64(4000), starter.Prices[CycleMonthly])
	assert.Equal(t, int64(40000), starter.Prices[CycleYearly])
	assert.True(t, starter.IsPopular)

	free, ok := LookupPlan(PlanFree)
	require.True(t, ok)
	assert.Zero(t, free.Prices[CycleYearly])

	_, ok = LookupPlan(Plan("enterprise"))
	assert.False(t, ok)
}

func TestDiscountContextQueryRoundTrip(t *testing.T) {
	d := &DiscountContext{DiscountPercent: 20, Code: "ADA20"}
	assert.Equal(t, "/pricing?discount=20&code=ADA20", PricingRedirect(d))

	parsed := ParseDiscountContext(d.Query())
	require.NotNil(t, parsed)
	assert.Equal(t, *d, *parsed)

	assert.Equal(t, "/pricing", PricingRedirect(nil))
}

func TestParseDiscountContext_AbsentOrInvalid(t *testing.T) {
	assert.Nil(t, ParseDiscountContext(url.Values{}))
	assert.Nil(t, ParseDiscountContext(url.Values{"code": {"X"}}))
	assert.Nil(t, ParseDiscountContext(url.Values{"discount": {"abc"}}))
	assert.Nil(t, ParseDiscountContext(url.Values{"discount": {"101"}}))
	assert.Nil(t, ParseDiscountContext(url.Values{"discount": {"-5"}}))
}

func TestClosedSets(t *testing.T) {
	assert.True(t, CategoryFood.IsValid())
	assert.False(t, Category("Cars").IsValid())
	assert.True(t, ChannelJustStarting.IsValid())
	assert.False(t, Channel("TikTok").IsValid())
	assert.Len(t, Categories(), 7)
	assert.Len(t, Channels(), 6)
}

func TestBillingCyclePeriodEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), CycleYearly.PeriodEnd(start))
	assert.Equal(t, start.AddDate(0, 1, 0), CycleMonthly.PeriodEnd(start))
}
