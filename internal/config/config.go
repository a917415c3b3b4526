package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultWebhookURL is a placeholder and must be replaced with the real
// deployment endpoint through WEBHOOK_URL before production use.
const DefaultWebhookURL = "https://your-n8n-webhook-url.com/webhook"

type Config struct {
	Port           string
	WebhookURL     string
	WebhookTimeout time.Duration
	SessionSecret  string
	SessionTTL     time.Duration
	MongoURI       string
	DBName         string
	CORSOrigins    []string
	LogLevel       string

	// Warnings are logged by the caller once logging is set up.
	Warnings []string
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		WebhookURL:     getEnvOrDefault("WEBHOOK_URL", DefaultWebhookURL),
		WebhookTimeout: getDurationEnv("WEBHOOK_TIMEOUT", 0, time.Second),
		SessionSecret:  getEnvOrDefault("SESSION_SECRET", ""),
		SessionTTL:     getDurationEnv("SESSION_TTL", 120, time.Minute),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "coffeeorder"),
		CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	u, err := url.Parse(cfg.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("invalid WEBHOOK_URL %q", cfg.WebhookURL)
	}
	if cfg.WebhookURL == DefaultWebhookURL {
		cfg.Warnings = append(cfg.Warnings, "WEBHOOK_URL not set, orders will be posted to the placeholder endpoint")
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 120 * time.Minute
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
		cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET not set, sessions will not survive a restart")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts zero so that WEBHOOK_TIMEOUT=0 can disable the timeout.
func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 && int64(parsed) <= math.MaxInt64/int64(unit) {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
