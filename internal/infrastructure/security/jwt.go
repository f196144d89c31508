// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// EditorClaims identify the profile an editor token was issued to.
type EditorClaims struct {
	ProfileID string `json:"profileId"`
	Role      string `json:"role"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

const editorTokenType = "editor_auth"

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (*EditorClaims, error) {
	if jwtSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	claims := &EditorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Type != editorTokenType || claims.ProfileID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateEditorToken creates a JWT token for an editor profile
func GenerateEditorToken(profileID, jwtSecret string, ttl time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now().UTC()
	claims := EditorClaims{
		ProfileID: profileID,
		Role:      "editor",
		Type:      editorTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateULID(),
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return result, nil
}
