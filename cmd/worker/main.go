package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/mwhite/waterline/internal/database"
	"github.com/mwhite/waterline/internal/tasks"
	"github.com/mwhite/waterline/pkg/config"
	"github.com/mwhite/waterline/pkg/queue"
	"github.com/mwhite/waterline/pkg/util"
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

	logger.Info("starting waterline worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := queue.NewServer(&cfg.Redis, 10)

	handler := tasks.NewHandler(db, logger)

	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Periodic tick sweeps due schedules into concrete maintenance tasks.
	scheduler := queue.NewScheduler(&cfg.Redis)
	if _, err := scheduler.Register("@every 1m", tasks.NewSchedulerTickTask()); err != nil {
		logger.Error("failed to register scheduler tick", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for jobs...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
