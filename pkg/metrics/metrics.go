package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the service collectors. Tests build their own with NewRegistry.
type Registry struct {
	reg *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
	referralValidation *prometheus.CounterVec
	checkoutAttempts   *prometheus.CounterVec
	profileUpserts     prometheus.Counter
}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabriss",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "collabriss",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		referralValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabriss",
			Name:      "referral_validations_total",
			Help:      "Referral code lookups by outcome.",
		}, []string{"outcome"}),
		checkoutAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabriss",
			Name:      "checkout_attempts_total",
			Help:      "Checkout attempts by plan and outcome.",
		}, []string{"plan", "outcome"}),
		profileUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collabriss",
			Name:      "profile_upserts_total",
			Help:      "Merchant profile writes from onboarding finish.",
		}),
	}
	r.reg.MustRegister(
		prometheus.NewGoCollector(),
		r.httpRequests,
		r.httpLatency,
		r.referralValidation,
		r.checkoutAttempts,
		r.profileUpserts,
	)
	return r
}

// Gatherer exposes the underlying registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveHTTP records one finished request.
func (r *Registry) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// ReferralValidated records a referral lookup outcome (valid, required, not_found, inactive, error).
func (r *Registry) ReferralValidated(outcome string) {
	if r == nil {
		return
	}
	r.referralValidation.WithLabelValues(outcome).Inc()
}

// CheckoutAttempt records a checkout outcome for a plan.
func (r *Registry) CheckoutAttempt(plan, outcome string) {
	if r == nil {
		return
	}
	r.checkoutAttempts.WithLabelValues(plan, outcome).Inc()
}

// ProfileUpserted records a profile write.
func (r *Registry) ProfileUpserted() {
	if r == nil {
		return
	}
	r.profileUpserts.Inc()
}

// ReferralValidations exposes the referral outcome counter.
func (r *Registry) ReferralValidations() *prometheus.CounterVec {
	return r.referralValidation
}

// CheckoutAttempts exposes the checkout outcome counter.
func (r *Registry) CheckoutAttempts() *prometheus.CounterVec {
	return r.checkoutAttempts
}
