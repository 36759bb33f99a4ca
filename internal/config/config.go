package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the identity provider settings.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// ContactConfig holds contact-form settings.
type ContactConfig struct {
	SupportEmail    string
	FromEmail       string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	MapboxToken string

	Casdoor CasdoorConfig
	Contact ContactConfig
}

// LoadConfig reads configuration from the environment. A .env file is loaded
// when present (development convenience); real deployments set variables
// directly. Required variables fail startup.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		KafkaTopic:  getEnv("KAFKA_NOTIFICATION_TOPIC", "platform.notifications"),
		MapboxToken: os.Getenv("MAPBOX_TOKEN"),
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: getEnv("CASDOOR_ORGANIZATION", "raceday"),
			Application:  getEnv("CASDOOR_APPLICATION", "platform"),
		},
		Contact: ContactConfig{
			SupportEmail:    os.Getenv("SUPPORT_EMAIL"),
			FromEmail:       getEnv("EMAIL_FROM", "no-reply@raceday.app"),
			RateLimitMax:    getEnvInt("CONTACT_RATE_LIMIT_MAX", 5),
			RateLimitWindow: time.Duration(getEnvInt("CONTACT_RATE_LIMIT_WINDOW_SECONDS", 3600)) * time.Second,
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Casdoor.Endpoint == "" || cfg.Casdoor.ClientID == "" {
		return nil, fmt.Errorf("CASDOOR_ENDPOINT and CASDOOR_CLIENT_ID are required")
	}
	if cfg.Contact.SupportEmail == "" {
		return nil, fmt.Errorf("SUPPORT_EMAIL is required")
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
