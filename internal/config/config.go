package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string
	Migrations  bool
	CORSOrigins string
	// Cron expression of the low-stock scan, empty disables it.
	StockAlertCron string
}

const devSecret = "dev-secret-change-me-dev-secret-change-me"

// Load reads configuration from the environment with defaults.
// Precedence: explicit env var > .env file (loaded by the caller) > default.
func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "3000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Migrations:     parseBool("MIGRATIONS", false),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		StockAlertCron: getEnv("STOCK_ALERT_CRON", "@every 1h"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "compta"),
			getEnv("DB_PORT", "5432"),
		)
	}

	hours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %q", os.Getenv("JWT_TTL_HOURS"))
	}
	cfg.JWTTTL = time.Duration(hours) * time.Hour

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = devSecret
	}
	if len(cfg.JWTSecret) < 32 && !cfg.IsDevelopment() {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
