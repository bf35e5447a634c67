package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Maintenance MaintenanceConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig selects the store backend. The default is an in-memory
// SQLite database: fleet data lives for the process lifetime, which is the
// intended deployment for a single-operator system. Postgres is available
// for installs that want durability.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"

	// SQLite
	Path string // file path, or ":memory:"

	// Postgres
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type MaintenanceConfig struct {
	// UpcomingWindowDays is the look-ahead window for "due soon" task
	// listings and reports.
	UpcomingWindowDays int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", ":memory:")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "waterline")
	v.SetDefault("DATABASE_PASSWORD", "waterline_secret")
	v.SetDefault("DATABASE_NAME", "waterline")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("MAINTENANCE_UPCOMING_WINDOW_DAYS", 30)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DATABASE_DRIVER"),
			Path:     v.GetString("DATABASE_PATH"),
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Maintenance: MaintenanceConfig{
			UpcomingWindowDays: v.GetInt("MAINTENANCE_UPCOMING_WINDOW_DAYS"),
		},
	}

	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Maintenance.UpcomingWindowDays <= 0 {
		cfg.Maintenance.UpcomingWindowDays = 30
	}

	return cfg, nil
}
