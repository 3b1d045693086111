package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PlaceholderDatabaseURL is the build-time fallback endpoint. When the
// configured URL is empty or still a placeholder, the service runs in demo
// mode: writes return synthetic successes, reads return empty sets tagged
// with a "not configured" reason.
const PlaceholderDatabaseURL = "postgres://placeholder.supabase.co:5432/postgres"

type Config struct {
	Port        string
	Environment string

	// Backend endpoint plus its public (anon) API key. Absence or a
	// placeholder value switches the whole service into demo mode.
	DatabaseURL     string
	DatabaseAnonKey string

	RedisURL   string
	AdminToken string

	// QueryTimeout bounds every backend call; an unresponsive backend is
	// reported as a persistence failure instead of hanging the request.
	QueryTimeout time.Duration

	// CacheTTL is the lifetime of the short-lived analytics read cache.
	CacheTTL time.Duration

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine in production; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", PlaceholderDatabaseURL),
		DatabaseAnonKey: getEnv("DATABASE_ANON_KEY", "placeholder-key"),
		RedisURL:        getEnv("REDIS_URL", ""),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		QueryTimeout:    getDurationEnv("QUERY_TIMEOUT_SECONDS", 10*time.Second),
		CacheTTL:        getDurationEnv("ANALYTICS_CACHE_TTL_SECONDS", 30*time.Second),
		Events: EventConfig{
			Enabled:      getEnv("EVENTS_ENABLED", "false") == "true",
			Publisher:    getEnv("EVENTS_PUBLISHER", "mock"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SurveyTopic:  getEnv("SURVEY_TOPIC", "survey-events"),
		},
	}, nil
}

// IsConfigured reports whether a real backend endpoint is present. Demo
// mode is the negation of this.
func (c *Config) IsConfigured() bool {
	if c.DatabaseURL == "" || strings.Contains(c.DatabaseURL, "placeholder") {
		return false
	}
	if c.DatabaseAnonKey == "" || c.DatabaseAnonKey == "placeholder-key" {
		return false
	}
	return true
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
