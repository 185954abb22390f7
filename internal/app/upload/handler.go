package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"
	"taskboard/internal/providers/minio"
)

type Handler struct {
	minioP      *minio.MinioProvider
	identitySvc identity.Service
	maxFileSize int64
	logger      *zap.SugaredLogger
}

func NewHandler(minioP *minio.MinioProvider, identitySvc identity.Service, maxFileSize int64, logger *zap.Logger) *Handler {
	return &Handler{
		minioP:      minioP,
		identitySvc: identitySvc,
		maxFileSize: maxFileSize,
		logger:      logger.Sugar(),
	}
}

// @Summary Upload a board cover image
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Cover image"
// @Success 200 {object} result.Response
// @Failure 400 {object} result.Response
// @Failure 401 {object} result.Response
// @Router /api/uploads/cover [post]
func (h *Handler) UploadCover(c *gin.Context) {
	if _, err := h.identitySvc.GetAuth(identity.SessionKey(c)); err != nil {
		result.Error(c, result.ErrUnauthorized)
		return
	}

	if h.minioP == nil {
		c.JSON(http.StatusServiceUnavailable, result.Response{Error: "File storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "No file provided"})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, result.Response{Error: "File too large"})
		return
	}

	cover, err := h.minioP.UploadCover(c.Request.Context(), fileHeader)
	if err != nil {
		h.logger.Errorw("Failed to upload cover", "filename", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to upload file"})
		return
	}

	result.Data(c, cover)
}
