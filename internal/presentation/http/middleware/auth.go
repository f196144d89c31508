// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const profileIDKey = "profileId"

// TokenValidator resolves a bearer token to the profile it was issued to.
type TokenValidator interface {
	ProfileFromToken(token string) (string, bool)
}

// AuthMiddleware requires a valid editor token. Browsers cannot set headers
// on a websocket handshake, so the token query parameter is accepted too.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		profileID, ok := validator.ProfileFromToken(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(profileIDKey, profileID)
		c.Next()
	}
}

// GetProfileID returns the profile set by AuthMiddleware.
func GetProfileID(c *gin.Context) (string, bool) {
	v, exists := c.Get(profileIDKey)
	if !exists {
		return "", false
	}
	profileID, ok := v.(string)
	return profileID, ok && profileID != ""
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
