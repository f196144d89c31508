// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - editor authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("auth:login", "")
	defer h.perfTracker.CompleteOperation(marker)
	h.logger.Auth().Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var loginReq struct {
		ProfileID string `json:"profileId" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Warn("Login request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.authService.Login(loginReq.ProfileID, loginReq.Password)
	if !result.Success {
		marker.SetSuccess(false)
		h.logger.Auth().Info("Login failed", "profileId", loginReq.ProfileID, "duration", time.Since(start))
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	h.logger.Auth().Info("Login request completed", "profileId", result.ProfileID, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "profileId": result.ProfileID})
}

// GetStatus handles GET /api/v1/auth/status - reports the authenticated profile
func (h *AuthHandlers) GetStatus(c *gin.Context) {
	profileID, ok := middleware.GetProfileID(c)
	c.JSON(http.StatusOK, gin.H{"authenticated": ok, "profileId": profileID})
}
