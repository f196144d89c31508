package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/flexstack-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// requireProfile returns the authenticated profile or writes a 401.
func requireProfile(c *gin.Context) (string, bool) {
	profileID, ok := middleware.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return "", false
	}
	return profileID, true
}
