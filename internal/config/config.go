package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	AppEnv  string
	Port    string

	BcryptCost         int
	SessionTTL         time.Duration
	LoginAttemptWindow time.Duration
	LoginMaxAttempts   int

	IPRateLimit     int
	AuthIPRateLimit int

	CORSAllowedOrigins []string

	// DbURL is optional; when set, auth events are also written to Postgres
	DbURL string
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// Unset variables fall back to defaults; unparsable ones are reported together.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		AppName:            getString("APP_NAME", "chat-auth-service"),
		AppEnv:             getString("APP_ENV", "development"),
		Port:               getString("PORT", "8000"),
		BcryptCost:         getInt("BCRYPT_COST", 10, &errs),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour, &errs),
		LoginAttemptWindow: getDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute, &errs),
		LoginMaxAttempts:   getInt("LOGIN_MAX_ATTEMPTS", 5, &errs),
		IPRateLimit:        getInt("IP_RATE_LIMIT", 100, &errs),
		AuthIPRateLimit:    getInt("AUTH_IP_RATE_LIMIT", 10, &errs),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*"}),
		DbURL:              os.Getenv("DATABASE_URL"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs with development logging
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: want a positive integer, got %q", key, raw))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: want a positive duration, got %q", key, raw))
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
