package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/mwhite/waterline/internal/api"
	"github.com/mwhite/waterline/internal/database"
	"github.com/mwhite/waterline/pkg/config"
	"github.com/mwhite/waterline/pkg/queue"
	"github.com/mwhite/waterline/pkg/util"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting waterline server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"store", cfg.Database.Driver,
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis backs the recurring-maintenance queue. Without it the API
	// still serves; schedule triggers return 503.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, schedule triggers disabled", "error", err)
		redisClient = nil
	}

	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
	}

	router := api.NewRouter(api.RouterConfig{
		DB:                 db,
		Redis:              redisClient,
		Logger:             logger,
		AsynqClient:        asynqClient,
		RateLimitReqs:      cfg.RateLimit.Requests,
		RateLimitSecs:      cfg.RateLimit.WindowSeconds,
		UpcomingWindowDays: cfg.Maintenance.UpcomingWindowDays,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
