package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/chirps-api/docs"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/cache"
	"github.com/straye-as/chirps-api/internal/config"
	"github.com/straye-as/chirps-api/internal/database"
	"github.com/straye-as/chirps-api/internal/http/handler"
	"github.com/straye-as/chirps-api/internal/http/middleware"
	"github.com/straye-as/chirps-api/internal/http/router"
	"github.com/straye-as/chirps-api/internal/jobs"
	"github.com/straye-as/chirps-api/internal/logger"
	"github.com/straye-as/chirps-api/internal/metrics"
	"github.com/straye-as/chirps-api/internal/realtime"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/service"
	"github.com/straye-as/chirps-api/internal/storage"
	"go.uber.org/zap"
)

// @title Chirps API
// @version 1.0
// @description Micro-posting API: chirps, reactions, comments, notifications and engagement dashboard

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.IsDevelopment() {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Redis is optional; without it dashboard stats are computed on every request
	var statsCache cache.Cache = cache.NoopCache{}
	var cachePinger router.Pinger
	if cfg.Redis.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		} else {
			defer client.Close()
			redisCache := cache.NewRedisCache(client, "chirps:")
			statsCache = redisCache
			cachePinger = redisCache
			log.Info("Redis cache connected")
		}
	}

	hub := realtime.NewHub(cfg.CORS.AllowedOrigins, metrics.WebsocketConnections, log)
	defer hub.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	chirpRepo := repository.NewChirpRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Services
	hasher := auth.NewPasswordHasher(cfg.Security.BcryptCost)
	tokens := auth.NewTokenManager(&cfg.JWT)

	dashboardService := service.NewDashboardService(dashboardRepo, statsCache, cfg.Cache.DashboardTTLDuration(), log)
	notificationService := service.NewNotificationService(notificationRepo, hub, log)
	authService := service.NewAuthService(userRepo, hasher, tokens, log)
	maxUploadBytes := cfg.Storage.MaxUploadSizeMB << 20
	profileService := service.NewProfileService(userRepo, hasher, fileStorage, dashboardService, maxUploadBytes, log)
	chirpService := service.NewChirpService(chirpRepo, dashboardService, log)
	reactionService := service.NewReactionService(reactionRepo, chirpRepo, notificationService, dashboardService, log)
	commentService := service.NewCommentService(commentRepo, chirpRepo, notificationService, dashboardService, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.ApiKey.Value, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, cachePinger, authMiddleware, rateLimiter, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Profile:      handler.NewProfileHandler(profileService, maxUploadBytes, log),
		Chirp:        handler.NewChirpHandler(chirpService, log),
		Reaction:     handler.NewReactionHandler(reactionService, log),
		Comment:      handler.NewCommentHandler(commentService, log),
		Notification: handler.NewNotificationHandler(notificationService, hub, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Admin:        handler.NewAdminHandler(notificationService, cfg.Jobs.NotificationRetention(), log),
	})

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if cfg.Jobs.NotificationPurgeEnabled {
		purgeJob := jobs.NewNotificationPurgeJob(notificationService, cfg.Jobs.NotificationRetention(), log)
		if err := scheduler.AddJob(cfg.Jobs.NotificationPurgeCron, cfg.Jobs.NotificationPurgeTimeoutDuration(), purgeJob); err != nil {
			return fmt.Errorf("failed to register notification purge job: %w", err)
		}
	} else {
		log.Info("Notification purge job disabled")
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		<-scheduler.Stop().Done()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		jobsDone := scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Websockets are hijacked and not tracked by Shutdown
		hub.Close()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		select {
		case <-jobsDone.Done():
			log.Info("Scheduler stopped")
		case <-ctx.Done():
			log.Warn("Scheduler did not stop before shutdown timeout")
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
