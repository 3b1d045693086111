package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "mock", cfg.Events.Publisher)
	assert.False(t, cfg.Events.Enabled)
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		anonKey string
		want    bool
	}{
		{"real backend", "postgres://db.example.supabase.co:5432/postgres", "real-key", true},
		{"empty url", "", "real-key", false},
		{"placeholder url", PlaceholderDatabaseURL, "real-key", false},
		{"empty key", "postgres://db.example.supabase.co:5432/postgres", "", false},
		{"placeholder key", "postgres://db.example.supabase.co:5432/postgres", "placeholder-key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tt.url, DatabaseAnonKey: tt.anonKey}
			assert.Equal(t, tt.want, cfg.IsConfigured())
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("TEST_TIMEOUT_SECONDS", "25")
	assert.Equal(t, 25*time.Second, getDurationEnv("TEST_TIMEOUT_SECONDS", 5*time.Second))

	t.Setenv("TEST_TIMEOUT_SECONDS", "not-a-number")
	assert.Equal(t, 5*time.Second, getDurationEnv("TEST_TIMEOUT_SECONDS", 5*time.Second))

	t.Setenv("TEST_TIMEOUT_SECONDS", "-3")
	assert.Equal(t, 5*time.Second, getDurationEnv("TEST_TIMEOUT_SECONDS", 5*time.Second))
}

func TestGetKafkaBrokers(t *testing.T) {
	ec := EventConfig{KafkaBrokers: "broker1:9092,broker2:9092"}
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, ec.GetKafkaBrokers())
}
