package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"potato-classifier/internal/middleware"
	"potato-classifier/internal/preview"
	"potato-classifier/internal/submission"
)

// NewRouter wires the presenter routes onto a gin engine.
func NewRouter(sessions *SessionHandler, previews *PreviewsHandler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	router.GET("/health", HealthHandler)

	api := router.Group("/api/v1")
	api.GET("/session", sessions.GetSession)
	api.POST("/session/file", sessions.PickFile)
	api.POST("/session/submit", sessions.Submit)
	api.GET("/previews/:preview_id", previews.GetPreview)

	return router
}

// Setup builds the handlers for one controller and its preview store.
func Setup(controller *submission.Controller, store *preview.Store, maxUploadBytes int64, logger *slog.Logger) *gin.Engine {
	return NewRouter(
		NewSessionHandler(controller, maxUploadBytes, logger),
		NewPreviewsHandler(store),
		logger,
	)
}
