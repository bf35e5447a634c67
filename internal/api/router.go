package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/mwhite/waterline/internal/api/handlers"
	"github.com/mwhite/waterline/internal/api/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB                 *gorm.DB
	Redis              *redis.Client
	Logger             *slog.Logger
	AsynqClient        *asynq.Client
	AllowedOrigins     []string
	RateLimitReqs      int
	RateLimitSecs      int
	UpcomingWindowDays int
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	assetHandler := handlers.NewAssetHandler(cfg.DB)
	taskHandler := handlers.NewTaskHandler(cfg.DB)
	assessmentHandler := handlers.NewAssessmentHandler(cfg.DB)
	scheduleHandler := handlers.NewScheduleHandler(cfg.DB, cfg.AsynqClient)
	metricsHandler := handlers.NewMetricsHandler(cfg.DB, cfg.UpcomingWindowDays)
	systemHandler := handlers.NewSystemHandler(cfg.DB)

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", assetHandler.List)
			r.Post("/", assetHandler.Create)
			r.Get("/{id}", assetHandler.Get)
			r.Put("/{id}", assetHandler.Update)
			r.Delete("/{id}", assetHandler.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Put("/{id}/status", taskHandler.Transition)
			r.Delete("/{id}", taskHandler.Delete)
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", assessmentHandler.List)
			r.Post("/", assessmentHandler.Create)
			r.Get("/{id}", assessmentHandler.Get)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
			r.Get("/{id}", scheduleHandler.Get)
			r.Put("/{id}", scheduleHandler.Update)
			r.Delete("/{id}", scheduleHandler.Delete)
			r.Post("/{id}/trigger", scheduleHandler.Trigger)
		})

		r.Get("/metrics", metricsHandler.Get)
		r.Get("/reports/condition", metricsHandler.ConditionReport)

		r.Route("/system", func(r chi.Router) {
			r.Get("/", systemHandler.Get)
			r.Put("/", systemHandler.Update)
		})
	})

	return &Router{r}
}
