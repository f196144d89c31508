package cleanup

import (
	"time"

	"github.com/AtRiskMedia/flexstack-go/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval: config.SessionCleanupInterval,
		IdleTimeout:     config.SessionIdleTimeout,
	}
}
