package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equitrack-backend/config"
	httpHandler "equitrack-backend/internal/adapter/http/handler"
	"equitrack-backend/internal/adapter/mail"
	"equitrack-backend/internal/adapter/report"
	pgStorage "equitrack-backend/internal/adapter/storage/postgres"
	redisStorage "equitrack-backend/internal/adapter/storage/redis"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/internal/service"
	"equitrack-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting EquiTrack backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	profileRepo := pgStorage.NewProfileRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	activityRepo := pgStorage.NewActivityRepo(pool)
	entryRepo := pgStorage.NewEntryRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize outbound adapters
	mailer := mail.NewSMTPSender(cfg.SMTP, log)
	renderer := report.NewCSVRenderer()

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(profileRepo, hashSvc, tokenSvc, mailer, cfg.App.ActivationURL, log)
	walletSvc := service.NewWalletService(walletRepo, activityRepo, transactor, log)
	entrySvc := service.NewEntryService(entryRepo, log)
	dashboardSvc := service.NewDashboardService(walletRepo, entryRepo, log)
	reportSvc := service.NewReportService(entryRepo, profileRepo, renderer, mailer, log)
	notifySvc := service.NewNotifyService(profileRepo, entryRepo, mailer, cfg.Notify, cfg.App.FrontendURL, log)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WalletSvc:      walletSvc,
		EntrySvc:       entrySvc,
		DashboardSvc:   dashboardSvc,
		ReportSvc:      reportSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// Daily reminder scheduler
	notifyCtx, stopNotify := context.WithCancel(ctx)
	defer stopNotify()
	go notifySvc.Run(notifyCtx)

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopNotify()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
