package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Uploader relays media content to the external media host and returns its
// public URL.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader) (string, error)
}

// UploadHandler handles media upload HTTP requests
type UploadHandler struct {
	uploader Uploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload forwards the multipart "image" file to the media host. The form is
// opened once; a missing or unreadable part is the client's fault.
func (h *UploadHandler) Upload(c echo.Context) error {
	file, _, err := c.Request().FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File not found")
	}
	defer file.Close()

	url, err := h.uploader.UploadImage(c.Request().Context(), file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to upload file",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
