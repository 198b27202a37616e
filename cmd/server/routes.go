package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"collabriss.backend/internal/interfaces/http/handlers"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/pkg/metrics"
)

const (
	serviceName    = "collabriss-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	referralHandler   *handlers.ReferralHandler
	onboardingHandler *handlers.OnboardingHandler
	planHandler       *handlers.PlanHandler
	checkoutHandler   *handlers.CheckoutHandler
	profileHandler    *handlers.ProfileHandler
	authMiddleware    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	r.Use(middleware.CORSMiddleware(allowedOrigins))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, reg *metrics.Registry) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Public lookups
		v1.POST("/referrals/validate", d.referralHandler.Validate)
		v1.GET("/plans", d.planHandler.ListPlans)
		v1.GET("/stores/:subdomain", d.profileHandler.GetStore)

		// Onboarding wizard (protected)
		onboarding := v1.Group("/onboarding")
		onboarding.Use(d.authMiddleware)
		{
			onboarding.POST("/start", d.onboardingHandler.Start)
			onboarding.GET("", d.onboardingHandler.Get)
			onboarding.POST("/business-name", d.onboardingHandler.SetBusinessName)
			onboarding.POST("/name", d.onboardingHandler.SetName)
			onboarding.POST("/category", d.onboardingHandler.SelectCategory)
			onboarding.POST("/channels/toggle", d.onboardingHandler.ToggleChannel)
			onboarding.POST("/channels/next", d.onboardingHandler.ChannelsNext)
			onboarding.POST("/back", d.onboardingHandler.Back)
			onboarding.POST("/contact", d.onboardingHandler.SubmitContact)
			onboarding.POST("/finish", d.onboardingHandler.Finish)
		}

		// Checkout routes (protected)
		checkout := v1.Group("/checkout")
		checkout.Use(d.authMiddleware)
		{
			checkout.POST("", middleware.IdempotencyMiddleware(), d.checkoutHandler.Initiate)
			checkout.POST("/callback", d.checkoutHandler.Callback)
		}
		v1.POST("/payments/verify", d.authMiddleware, d.checkoutHandler.Verify)
		v1.GET("/subscription", d.authMiddleware, d.checkoutHandler.GetSubscription)

		// Merchant profile (protected)
		profile := v1.Group("/profile")
		profile.Use(d.authMiddleware)
		{
			profile.GET("", d.profileHandler.GetProfile)
			profile.PUT("", d.profileHandler.UpdateProfile)
		}
	}
}
