package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/config"
	"github.com/straye-as/chirps-api/internal/database"
	"github.com/straye-as/chirps-api/internal/http/handler"
	"github.com/straye-as/chirps-api/internal/http/middleware"
	"github.com/straye-as/chirps-api/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/straye-as/chirps-api/docs" // Import generated swagger docs
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency checked by /health/ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers bundles the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Chirp        *handler.ChirpHandler
	Reaction     *handler.ReactionHandler
	Comment      *handler.CommentHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Admin        *handler.AdminHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	cache          Pinger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

// NewRouter creates the router. cache may be nil when redis is disabled.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	cache Pinger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		cache:          cache,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.cfg.Metrics.Enabled {
		r.Use(metrics.InstrumentHandler(rt.cfg.Metrics.Path))
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, &rt.cfg.App, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health with pool stats
	r.Get("/health/db", rt.databaseHealth)

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Metrics.Enabled {
		r.Handle(rt.cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	writes := rt.rateLimiter.LimitWrites

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Maintenance, system principal only
			r.Route("/admin", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireSystem)
				r.Post("/notifications/purge", h.Admin.PurgeNotifications)
			})

			// User accounts
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireUser)

				r.Get("/auth/me", h.Auth.Me)

				r.Route("/profile", func(r chi.Router) {
					r.Get("/", h.Profile.Get)
					r.Patch("/", h.Profile.Update)
					r.Delete("/", h.Profile.Delete)
					r.Put("/password", h.Profile.UpdatePassword)
					r.Put("/avatar", h.Profile.UploadAvatar)
				})
				r.Get("/users/{id}/avatar", h.Profile.GetAvatar)

				r.Route("/chirps", func(r chi.Router) {
					r.Get("/", h.Chirp.List)
					r.With(writes).Post("/", h.Chirp.Create)
					r.Get("/{id}", h.Chirp.GetByID)
					r.Put("/{id}", h.Chirp.Update)
					r.Patch("/{id}", h.Chirp.Update)
					r.Delete("/{id}", h.Chirp.Delete)

					r.Get("/{chirpId}/comments", h.Comment.List)
					r.With(writes).Post("/{chirpId}/comments", h.Comment.Create)
				})

				r.Route("/reactions/{chirpId}", func(r chi.Router) {
					r.Get("/", h.Reaction.List)
					r.With(writes).Post("/", h.Reaction.React)
					r.Delete("/", h.Reaction.Remove)
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", h.Notification.List)
					r.Get("/count", h.Notification.GetUnreadCount)
					r.Get("/stream", h.Notification.Stream)
					r.Put("/read-all", h.Notification.MarkAllAsRead)
					r.Patch("/{id}/mark-as-read", h.Notification.MarkAsRead)
					r.Put("/{id}/mark-as-read", h.Notification.MarkAsRead)
				})

				r.Get("/dashboard/stats", h.Dashboard.GetStats)
			})
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			"max_idle_closed":      stats.MaxIdleClosed,
			"max_lifetime_closed":  stats.MaxLifetimeClosed,
		},
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	if rt.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := rt.cache.Ping(ctx)
		cancel()
		if err != nil {
			rt.logger.Error("Redis health check failed", zap.Error(err))
			checks["redis"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["redis"] = map[string]interface{}{"status": "healthy"}
		}
	}

	status, label := http.StatusOK, "healthy"
	if !allHealthy {
		status, label = http.StatusServiceUnavailable, "unhealthy"
	}
	writeHealth(w, status, map[string]interface{}{
		"status": label,
		"checks": checks,
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
