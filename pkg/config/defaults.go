// Package config provides centralized default values for flexstack
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	GinMode            string
	CORSOrigins        []string

	// Database Configuration
	DatabaseDriver   string
	SQLitePath       string
	TursoDatabaseURL string
	TursoAuthToken   string

	// Database Pool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBSlowQueryThreshold     time.Duration

	// Media Configuration
	MediaDir       string
	MediaURLPrefix string
	MaxImageWidth  int
	WebPQuality    int
	MaxUploadMB    int

	// Auth Configuration
	JWTSecret          string
	EditorPasswordHash string
	TokenTTL           time.Duration

	// Editor Sessions
	HistoryMaxSnapshots    int
	SessionIdleTimeout     time.Duration
	SessionCleanupInterval time.Duration
	LiveBroadcastBuffer    int

	// Logging
	LogDir    string
	LogJSON   bool
	LogToFile bool
	LogLevel  string
)

func init() {
	Load()
}

// Load reads every setting from the environment, falling back to defaults.
// It runs once at package init; tests call it again after changing env vars.
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	GinMode = getEnvString("GIN_MODE", "release")
	CORSOrigins = splitList(getEnvString("CORS_ORIGINS", "http://localhost:3000"))

	// Database Configuration
	DatabaseDriver = getEnvString("DATABASE_DRIVER", "sqlite3")
	SQLitePath = getEnvString("SQLITE_PATH", "flexstack.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = os.Getenv("TURSO_AUTH_TOKEN")

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBSlowQueryThreshold = getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Media Configuration
	MediaDir = getEnvString("MEDIA_DIR", "media")
	MediaURLPrefix = getEnvString("MEDIA_URL_PREFIX", "/media")
	MaxImageWidth = getEnvInt("MAX_IMAGE_WIDTH", 1600)
	WebPQuality = getEnvInt("WEBP_QUALITY", 80)
	MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", 20)

	// Auth Configuration. Secrets are read directly so they are never logged.
	JWTSecret = os.Getenv("JWT_SECRET")
	EditorPasswordHash = os.Getenv("EDITOR_PASSWORD_HASH")
	TokenTTL = getEnvDuration("TOKEN_TTL", 720*time.Hour)

	// Editor Sessions
	HistoryMaxSnapshots = getEnvInt("HISTORY_MAX_SNAPSHOTS", 200)
	SessionIdleTimeout = getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour)
	SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute)
	LiveBroadcastBuffer = getEnvInt("LIVE_BROADCAST_BUFFER", 16)

	// Logging
	LogDir = getEnvString("LOG_DIR", "logs")
	LogJSON = getEnvBool("LOG_JSON", true)
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogLevel = getEnvString("LOG_LEVEL", "info")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
