package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kova-store/internal/service"
)

// UploadHandler recibe imagenes de producto (solo admin).
type UploadHandler struct {
	logger  *zap.Logger
	uploads *service.UploadService
}

func NewUploadHandler(logger *zap.Logger, uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{logger: logger, uploads: uploads}
}

// UploadImage maneja POST /upload con un campo multipart "file".
func (h *UploadHandler) UploadImage(c *gin.Context) {
	// Margen para los headers multipart por encima del limite del archivo.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > service.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open upload failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	url, err := h.uploads.UploadImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		case errors.Is(err, service.ErrUnsupportedFileType), errors.Is(err, service.ErrEmptyUpload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "only image files are allowed"})
		default:
			h.logger.Error("upload image failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not upload file"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
