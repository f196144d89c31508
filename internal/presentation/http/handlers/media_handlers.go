package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// MediaHandlers accepts image and video uploads
type MediaHandlers struct {
	mediaService *services.MediaService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewMediaHandlers creates media handlers with injected dependencies
func NewMediaHandlers(mediaService *services.MediaService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *MediaHandlers {
	return &MediaHandlers{mediaService: mediaService, logger: logger, perfTracker: perfTracker}
}

// PostImage handles POST /api/v1/media/images. It takes a multipart "file"
// field or a JSON body {"filename","data"} with base64 data.
func (h *MediaHandlers) PostImage(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	marker := h.perfTracker.StartOperation("media:image", "")
	defer h.perfTracker.CompleteOperation(marker)

	var (
		result *services.UploadResult
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req struct {
			Filename string `json:"filename"`
			Data     string `json:"data" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		result, err = h.mediaService.UploadBase64Image(c.Request.Context(), profileID, req.Filename, req.Data)
	} else {
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			marker.SetError(ferr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, ferr := fileHeader.Open()
		if ferr != nil {
			marker.SetError(ferr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()
		result, err = h.mediaService.UploadImage(c.Request.Context(), profileID, fileHeader.Filename, file)
	}

	if err != nil {
		marker.SetError(err)
		c.JSON(uploadStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PostVideo handles POST /api/v1/media/videos (multipart "file")
func (h *MediaHandlers) PostVideo(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	marker := h.perfTracker.StartOperation("media:video", "")
	defer h.perfTracker.CompleteOperation(marker)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer file.Close()

	result, err := h.mediaService.UploadVideo(c.Request.Context(), profileID, fileHeader.Filename, file)
	if err != nil {
		marker.SetError(err)
		c.JSON(uploadStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetAllMedia handles GET /api/v1/media
func (h *MediaHandlers) GetAllMedia(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	files, err := h.mediaService.List(c.Request.Context(), profileID)
	if err != nil {
		h.logger.Media().Error("Failed to list media", "error", err, "profileId", profileID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

func uploadStatus(err error) int {
	if errors.Is(err, media.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, services.ErrUploadRejected) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
