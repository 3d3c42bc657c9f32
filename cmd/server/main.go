// @title           Potato Classifier API
// @version         1.0.0
// @description     Presenter API for the potato quality workflow. Pick an image, submit it, and read back the fresh/rotten prediction from the remote inference service.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"potato-classifier/internal/app"
	"potato-classifier/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(os.Stdout, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, logger)
	err = a.Serve(ctx)
	a.Close()
	if err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
