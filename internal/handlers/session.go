package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"potato-classifier/internal/models"
	"potato-classifier/internal/submission"
)

type SessionHandler struct {
	controller     *submission.Controller
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewSessionHandler(controller *submission.Controller, maxUploadBytes int64, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		controller:     controller,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// GetSession godoc
// @Summary     Current submission state
// @Description Returns what the user currently sees: the picked file, its preview, and the prediction or error.
// @Tags        session
// @Produce     json
// @Success     200 {object} models.SessionResponse
// @Router      /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionView(h.controller.State()))
}

// PickFile godoc
// @Summary     Pick an image
// @Description Validates the uploaded image and makes it the current selection. A rejected file is
// @Description reported through the session state, not as an HTTP error.
// @Tags        session
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Potato image (JPG or PNG, at most 10MB)"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Router      /session/file [post]
func (h *SessionHandler) PickFile(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		h.bodyTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.bodyTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	header := formFile(c.Request.MultipartForm)
	if header == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: models.MessageNoFile,
		})
		return
	}

	file, err := readCandidate(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	state := h.controller.PickFile(file)
	c.JSON(http.StatusOK, SessionView(state))
}

// Submit godoc
// @Summary     Classify the picked image
// @Description Starts the prediction for the current file. Poll GET /session for the outcome.
// @Tags        session
// @Produce     json
// @Success     202 {object} models.SubmitResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /session/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	state, err := h.controller.Submit()
	if err != nil {
		h.logger.Debug("submit ignored", "reason", err, "phase", state.Phase)
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   err.Error(),
			Message: refusalMessage(err, state),
		})
		return
	}

	c.JSON(http.StatusAccepted, models.SubmitResponse{
		Accepted: true,
		Session:  SessionView(state),
	})
}

func (h *SessionHandler) bodyTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
		Error:   "request body too large",
		Message: models.ErrorTooLarge.Message(""),
	})
}

func formFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range []string{"file", "image"} {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

// readCandidate keeps the browser's declared type and only sniffs the bytes
// when the client did not declare a specific one.
func readCandidate(header *multipart.FileHeader) (models.CandidateFile, error) {
	src, err := header.Open()
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to read file data: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}

	return models.CandidateFile{
		Name:     header.Filename,
		MIMEType: mimeType,
		Size:     header.Size,
		Data:     data,
	}, nil
}

func refusalMessage(err error, s submission.State) string {
	switch {
	case errors.Is(err, submission.ErrRejected):
		return s.Reason.Message("")
	case errors.Is(err, submission.ErrBusy):
		return "A prediction is already in progress."
	case errors.Is(err, submission.ErrFinished):
		return "Pick a new image to classify another potato."
	case errors.Is(err, submission.ErrClosed):
		return "The session has ended."
	default:
		return models.MessageNoFile
	}
}
