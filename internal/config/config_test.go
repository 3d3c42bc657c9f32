package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"potato-classifier/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PREDICT_API_BASE_URL", "")
	t.Setenv("PREDICT_TIMEOUT_MS", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.PredictAPIBaseURL)
	assert.Equal(t, config.DefaultPredictTimeoutMs, cfg.PredictTimeoutMs)
	assert.Equal(t, 30*time.Second, cfg.PredictTimeout())
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PREDICT_API_BASE_URL", "https://inference.example.com")
	t.Setenv("PREDICT_TIMEOUT_MS", "1500")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://inference.example.com", cfg.PredictAPIBaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.PredictTimeout())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PREDICT_TIMEOUT_MS", "soon")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("PREDICT_TIMEOUT_MS", "0")
	_, err = config.Load()
	assert.ErrorContains(t, err, "PREDICT_TIMEOUT_MS must be a positive integer")
}

func TestValidate_RejectsRelativeEndpoint(t *testing.T) {
	cfg := &config.Config{
		PredictAPIBaseURL: "localhost:8000",
		PredictTimeoutMs:  1000,
		MaxUploadBytes:    1,
	}
	assert.Error(t, cfg.Validate())

	cfg.PredictAPIBaseURL = "ftp://files.example.com"
	assert.Error(t, cfg.Validate())

	cfg.PredictAPIBaseURL = "http://127.0.0.1:8000"
	assert.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
