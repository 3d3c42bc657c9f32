// Package app wires configuration, the prediction client, the submission
// controller and the presenter routes together.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"potato-classifier/internal/config"
	"potato-classifier/internal/handlers"
	"potato-classifier/internal/predict"
	"potato-classifier/internal/preview"
	"potato-classifier/internal/submission"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Previews   *preview.Store
	Client     *predict.Client
	Controller *submission.Controller
}

// NewLogger builds the JSON logger used by every binary.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func New(cfg *config.Config, logger *slog.Logger) *App {
	previews := preview.NewStore()
	client := predict.NewClient(predict.Options{
		Endpoint: cfg.PredictAPIBaseURL,
		Timeout:  cfg.PredictTimeout(),
	}, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Previews:   previews,
		Client:     client,
		Controller: submission.NewController(previews, client, logger),
	}
}

func (a *App) Close() {
	a.Controller.Close()
}

func (a *App) Router() *gin.Engine {
	if a.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return handlers.Setup(a.Controller, a.Previews, a.Config.MaxUploadBytes, a.Logger)
}

// Serve runs the presenter server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	port := a.Config.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", "port", port, "predict_endpoint", a.Client.Endpoint())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
