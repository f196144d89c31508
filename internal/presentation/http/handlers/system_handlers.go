package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// SystemHandlers exposes health, tracker statistics and log levels
type SystemHandlers struct {
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	started       time.Time
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(editorService *services.EditorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{editorService: editorService, logger: logger, perfTracker: perfTracker, started: time.Now()}
}

// GetHealth handles GET /api/v1/health
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.started).String(),
		"sessions": h.editorService.SessionCount(),
	})
}

// GetStats handles GET /api/v1/system/stats
func (h *SystemHandlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":  h.perfTracker.GetOverallStats(),
		"alerts": h.perfTracker.GetAlerts(),
	})
}

// GetLogLevels handles GET /api/v1/system/logs/levels
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// PostLogLevel handles POST /api/v1/system/logs/levels
func (h *SystemHandlers) PostLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
