package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"potato-classifier/internal/models"
	"potato-classifier/internal/preview"
)

type PreviewsHandler struct {
	store *preview.Store
}

func NewPreviewsHandler(store *preview.Store) *PreviewsHandler {
	return &PreviewsHandler{
		store: store,
	}
}

// GetPreview godoc
// @Summary     Preview image
// @Description Serves the bytes of the currently picked image. Previews disappear as soon as another file is picked.
// @Tags        previews
// @Produce     image/png,image/jpeg
// @Param       preview_id path string true "Preview ID (UUID)"
// @Success     200 {file} binary
// @Failure     404 {object} models.ErrorResponse
// @Router      /previews/{preview_id} [get]
func (h *PreviewsHandler) GetPreview(c *gin.Context) {
	p, err := h.store.Get(c.Param("preview_id"))
	if err != nil {
		if errors.Is(err, preview.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "preview not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load preview",
			Message: err.Error(),
		})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, p.ContentType, p.Data)
}
