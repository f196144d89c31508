package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "CORS_ORIGINS", "HISTORY_MAX_SNAPSHOTS", "TOKEN_TTL", "LOG_JSON", "MAX_UPLOAD_MB"} {
		t.Setenv(key, "")
	}
	Load()

	assert.Equal(t, "8080", Port)
	assert.Equal(t, []string{"http://localhost:3000"}, CORSOrigins)
	assert.Equal(t, 200, HistoryMaxSnapshots)
	assert.Equal(t, 720*time.Hour, TokenTTL)
	assert.True(t, LogJSON)
	assert.Equal(t, 20, MaxUploadMB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("HISTORY_MAX_SNAPSHOTS", "50")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("WEBP_QUALITY", "not-a-number")
	Load()

	assert.Equal(t, "9090", Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, CORSOrigins)
	assert.Equal(t, 50, HistoryMaxSnapshots)
	assert.Equal(t, 30*time.Minute, SessionIdleTimeout)
	assert.True(t, LogToFile)
	assert.Equal(t, 80, WebPQuality, "unparseable values fall back to the default")
}
