package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port   string
	AppEnv string
	AppURL string

	// Database
	DatabaseURL string
	DBLogLevel  string

	// Redis (optional)
	RedisURL string

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration

	// Firebase (optional external identity)
	FirebaseCredentialsPath string

	// Email
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	ResendAPIKey string

	// Ledger
	MonthlyDueAmount decimal.Decimal
	Location         *time.Location

	// Workers
	EmailConcurrency int
	FinanceCacheTTL  time.Duration
	WorkerInterval   time.Duration
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from the environment, after loading .env when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		AppEnv:                  getEnv("APP_ENV", "development"),
		AppURL:                  getEnv("APP_URL", "http://localhost:8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		DBLogLevel:              getEnv("DB_LOG_LEVEL", "warn"),
		RedisURL:                os.Getenv("REDIS_URL"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		SMTPHost:                os.Getenv("SMTP_HOST"),
		SMTPPort:                getEnv("SMTP_PORT", "587"),
		SMTPUser:                os.Getenv("SMTP_USER"),
		SMTPPassword:            os.Getenv("SMTP_PASS"),
		EmailFrom:               getEnv("EMAIL_FROM", "Association Admin <admin@example.com>"),
		ResendAPIKey:            os.Getenv("RESEND_API_KEY"),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "120h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.FinanceCacheTTL, err = time.ParseDuration(getEnv("FINANCE_CACHE_TTL", "60s")); err != nil {
		return nil, fmt.Errorf("invalid FINANCE_CACHE_TTL: %w", err)
	}
	if cfg.WorkerInterval, err = time.ParseDuration(getEnv("WORKER_INTERVAL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid WORKER_INTERVAL: %w", err)
	}
	if cfg.EmailConcurrency, err = strconv.Atoi(getEnv("EMAIL_CONCURRENCY", "8")); err != nil || cfg.EmailConcurrency < 1 {
		return nil, fmt.Errorf("invalid EMAIL_CONCURRENCY: %q", os.Getenv("EMAIL_CONCURRENCY"))
	}
	if cfg.MonthlyDueAmount, err = decimal.NewFromString(getEnv("MONTHLY_DUE_AMOUNT", "200")); err != nil || !cfg.MonthlyDueAmount.IsPositive() {
		return nil, fmt.Errorf("invalid MONTHLY_DUE_AMOUNT: %q", os.Getenv("MONTHLY_DUE_AMOUNT"))
	}
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

// RequireDatabase fails when DATABASE_URL is not set
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	return nil
}

// RequireSessions fails when JWT_SECRET is not set
func (c *Config) RequireSessions() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
