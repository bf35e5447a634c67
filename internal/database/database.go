package database

import (
	"fmt"
	"log/slog"

	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured store. SQLite (in-memory by default) is the
// canonical backend; postgres is available for durable installs.
func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// A single connection keeps an in-memory database from being
		// cloned per pooled connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting underlying db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		log.Info("opened sqlite store", "path", cfg.Path)
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting underlying db: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.WaterSystem{},
		&models.Asset{},
		&models.MaintenanceTask{},
		&models.ConditionAssessment{},
		&models.MaintenanceSchedule{},
	)
}
