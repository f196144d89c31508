package services

import (
	"strings"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
)

// AuthResult holds authentication result data
type AuthResult struct {
	Token     string `json:"token,omitempty"`
	ProfileID string `json:"profileId,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// AuthService handles editor login and JWT operations
type AuthService struct {
	logger       *logging.ChanneledLogger
	jwtSecret    string
	passwordHash string
	tokenTTL     time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *logging.ChanneledLogger, jwtSecret, passwordHash string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		logger:       logger,
		jwtSecret:    jwtSecret,
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the editor password and issues a token naming profileID.
func (a *AuthService) Login(profileID, password string) *AuthResult {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" || password == "" {
		return &AuthResult{Success: false, Error: "profileId and password are required"}
	}
	if a.passwordHash == "" {
		a.logger.Auth().Warn("Login attempted with no editor password configured", "profileId", profileID)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}
	if !security.CheckPassword(a.passwordHash, password) {
		a.logger.Auth().Warn("Invalid editor credentials", "profileId", profileID)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateEditorToken(profileID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		a.logger.Auth().Error("Token generation failed", "error", err)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}
	a.logger.Auth().Info("Editor logged in", "profileId", profileID)
	return &AuthResult{Token: token, ProfileID: profileID, Success: true}
}

// ProfileFromToken validates tokenString and returns the profile it names.
func (a *AuthService) ProfileFromToken(tokenString string) (string, bool) {
	if tokenString == "" {
		return "", false
	}
	claims, err := security.ValidateJWT(tokenString, a.jwtSecret)
	if err != nil {
		a.logger.Auth().Debug("Token rejected", "error", err)
		return "", false
	}
	return claims.ProfileID, true
}
