package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration, loaded from the
// environment with development-friendly defaults.
type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// SMTP configuration for estimate notification emails
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Optional webhook to receive estimate summaries alongside email.
	// Empty disables the webhook sender.
	NotifyWebhookURL string

	// Timeout for persistence and notification calls from the
	// submission pipeline
	SubmitTimeout time.Duration

	// Rate limiting for the public estimate endpoint (the widget is
	// embedded on third-party sites)
	EstimateRateLimit  int
	EstimateRateWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected
	MetricsUsername string
	MetricsPassword string
}

// NewConfig loads configuration from the environment. A .env file is
// honored in development and ignored in production.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// SMTP defaults for Mailhog (development)
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "estimates@prestimate.io"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Prestimate"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		SubmitTimeout: getEnvDuration("SUBMIT_TIMEOUT", 10*time.Second),

		EstimateRateLimit:  getEnvInt("ESTIMATE_RATE_LIMIT", 30),
		EstimateRateWindow: getEnvDuration("ESTIMATE_RATE_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
