package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPredictTimeoutMs = 30000
	defaultMaxUploadBytes   = 32 << 20
)

type Config struct {
	// Prediction API
	PredictAPIBaseURL string
	PredictTimeoutMs  int

	// Presenter server
	Port           string
	Environment    string
	MaxUploadBytes int64

	LogLevel string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeoutMs, err := getEnvInt("PREDICT_TIMEOUT_MS", DefaultPredictTimeoutMs)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PredictAPIBaseURL: getEnv("PREDICT_API_BASE_URL", "http://localhost:8000"),
		PredictTimeoutMs:  timeoutMs,

		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		MaxUploadBytes: int64(maxUpload),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.PredictAPIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PREDICT_API_BASE_URL must be an absolute URL, got %q", c.PredictAPIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PREDICT_API_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}
	if c.PredictTimeoutMs <= 0 {
		return fmt.Errorf("PREDICT_TIMEOUT_MS must be a positive integer, got %d", c.PredictTimeoutMs)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %d", c.MaxUploadBytes)
	}
	return nil
}

func (c *Config) PredictTimeout() time.Duration {
	return time.Duration(c.PredictTimeoutMs) * time.Millisecond
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
