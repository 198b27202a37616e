package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"collabriss.backend/internal/config"
	"collabriss.backend/internal/infrastructure/datasources/cache"
	"collabriss.backend/internal/infrastructure/datasources/postgres"
	"collabriss.backend/internal/infrastructure/gateway"
	"collabriss.backend/internal/infrastructure/jobs"
	"collabriss.backend/internal/infrastructure/repositories"
	"collabriss.backend/internal/interfaces/http/handlers"
	"collabriss.backend/internal/interfaces/http/middleware"
	"collabriss.backend/internal/usecases"
	"collabriss.backend/pkg/jwt"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/metrics"
	"collabriss.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewGorm(sqlDB, debug)
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database, cfg.Server.Env == "development")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(context.Background(), "Connected to PostgreSQL")

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	registry := metrics.NewRegistry()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	referralRepo := repositories.NewReferralCodeRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	attemptRepo := repositories.NewCheckoutAttemptRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	stateStore := cache.NewOnboardingStateStore(cfg.Onboarding.StateTTL)
	locker := cache.NewSubmissionLocker(cfg.Onboarding.SubmitLockTTL)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	paymentGateway := gateway.NewFlutterwaveClient(cfg.Payment)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, profileRepo, subRepo, jwtService, sessionStore)
	referralUsecase := usecases.NewReferralUsecase(referralRepo, registry)
	onboardingUsecase := usecases.NewOnboardingUsecase(
		stateStore, locker, profileRepo, userRepo, referralUsecase, registry, cfg.Onboarding.CelebrationDwell,
	)
	pricingUsecase := usecases.NewPricingUsecase(cfg.Payment.Currency)
	checkoutUsecase := usecases.NewCheckoutUsecase(
		attemptRepo, subRepo, userRepo, profileRepo, referralUsecase, paymentGateway, uow, registry, cfg.Payment,
	)
	profileUsecase := usecases.NewProfileUsecase(profileRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase, handlers.CookieConfig{
		Domain:        cfg.Server.CookieDomain,
		Secure:        cfg.Server.SecureCookies,
		AccessMaxAge:  cfg.JWT.AccessExpiry,
		RefreshMaxAge: cfg.JWT.RefreshExpiry,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewCheckoutAttemptExpiryJob(attemptRepo, registry, cfg.Payment.AttemptTTL)
	go expiryJob.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(registry))

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		referralHandler:   handlers.NewReferralHandler(referralUsecase),
		onboardingHandler: handlers.NewOnboardingHandler(onboardingUsecase),
		planHandler:       handlers.NewPlanHandler(pricingUsecase),
		checkoutHandler:   handlers.NewCheckoutHandler(checkoutUsecase),
		profileHandler:    handlers.NewProfileHandler(profileUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(context.Background(), "Shutting down server")
		expiryJob.Stop()
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(context.Background(), "Collabriss backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Sync()
	return nil
}
