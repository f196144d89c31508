// Package cleanup provides the background editor session reaper
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
)

// Expirer closes sessions that have been idle since cutoff and returns how
// many it closed.
type Expirer interface {
	ExpireIdle(cutoff time.Time) int
}

// Worker handles background session cleanup operations
type Worker struct {
	sessions Expirer
	logger   *logging.ChanneledLogger
	config   *Config
	now      func() time.Time
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(sessions Expirer, logger *logging.ChanneledLogger, config *Config) *Worker {
	return &Worker{
		sessions: sessions,
		logger:   logger,
		config:   config,
		now:      time.Now,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Editor().Info("Session cleanup worker started",
		"interval", w.config.CleanupInterval, "idleTimeout", w.config.IdleTimeout)

	for {
		select {
		case <-ctx.Done():
			w.logger.Editor().Info("Session cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single cleanup pass.
func (w *Worker) RunOnce() int {
	start := time.Now()
	cutoff := w.now().Add(-w.config.IdleTimeout)
	expired := w.sessions.ExpireIdle(cutoff)
	if expired > 0 {
		w.logger.Editor().Info("Idle editor sessions expired", "count", expired, "duration", time.Since(start))
	}
	return expired
}
