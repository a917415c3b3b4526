package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "WEBHOOK_URL", "WEBHOOK_TIMEOUT", "SESSION_SECRET", "SESSION_TTL", "MONGO_URI", "DB_NAME", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultWebhookURL, cfg.WebhookURL)
	assert.Zero(t, cfg.WebhookTimeout)
	assert.Equal(t, 120*time.Minute, cfg.SessionTTL)
	assert.Len(t, cfg.SessionSecret, 64)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, "coffeeorder", cfg.DBName)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Len(t, cfg.Warnings, 2)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WEBHOOK_URL", "http://hooks.internal/orders")
	t.Setenv("WEBHOOK_TIMEOUT", "15")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://hooks.internal/orders", cfg.WebhookURL)
	assert.Equal(t, 15*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestFromEnvRejectsBadWebhookURL(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "ftp://nope")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvZeroSessionTTLFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Minute, cfg.SessionTTL)
}

func TestGetDurationEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "-4")
	assert.Equal(t, 120*time.Minute, getDurationEnv("SESSION_TTL", 120, time.Minute))

	t.Setenv("SESSION_TTL", "abc")
	assert.Equal(t, 120*time.Minute, getDurationEnv("SESSION_TTL", 120, time.Minute))

	t.Setenv("SESSION_TTL", "9223372036854775807")
	assert.Equal(t, 120*time.Minute, getDurationEnv("SESSION_TTL", 120, time.Minute))
}
