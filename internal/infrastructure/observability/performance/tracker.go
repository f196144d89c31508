// Package performance provides performance tracking for editor operations.
package performance

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Tracker keeps recent markers and the alerts they raised
type Tracker struct {
	active     map[*Marker]struct{}
	completed  []*Marker
	alerts     []*PerformanceAlert
	thresholds *AlertThresholds
	mu         sync.RWMutex
	started    time.Time
	config     *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers      int           `json:"maxMarkers"`      // Completed markers retained
	MaxAlerts       int           `json:"maxAlerts"`       // Alerts retained
	Retention       time.Duration `json:"retention"`       // Age after which completed markers are dropped
	CleanupInterval time.Duration `json:"cleanupInterval"` // How often Start prunes
	EnableAlerts    bool          `json:"enableAlerts"`    // Whether to generate performance alerts
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:      5000,
		MaxAlerts:       200,
		Retention:       time.Hour,
		CleanupInterval: time.Minute * 10,
		EnableAlerts:    true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	SlowResponseThreshold     time.Duration `json:"slowResponseThreshold"`
	CriticalResponseThreshold time.Duration `json:"criticalResponseThreshold"`

	// Operation-specific thresholds, matched by operation prefix
	CommandThreshold time.Duration `json:"commandThreshold"` // editor:*
	SaveThreshold    time.Duration `json:"saveThreshold"`    // card:*
	UploadThreshold  time.Duration `json:"uploadThreshold"`  // media:*
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		SlowResponseThreshold:     time.Millisecond * 500,
		CriticalResponseThreshold: time.Second * 5,
		CommandThreshold:          time.Millisecond * 50,
		SaveThreshold:             time.Millisecond * 300,
		UploadThreshold:           time.Second * 3,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		active:     make(map[*Marker]struct{}),
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	marker := &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
	}
	t.mu.Lock()
	t.active[marker] = struct{}{}
	t.mu.Unlock()
	return marker
}

// CompleteOperation completes an operation and checks it against thresholds
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.Completed {
		return
	}
	marker.Complete()

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, marker)
	t.completed = append(t.completed, marker)
	if over := len(t.completed) - t.config.MaxMarkers; over > 0 {
		t.completed = t.completed[over:]
	}
	if t.config.EnableAlerts {
		if alert := t.evaluate(marker); alert != nil {
			t.alerts = append(t.alerts, alert)
			if over := len(t.alerts) - t.config.MaxAlerts; over > 0 {
				t.alerts = t.alerts[over:]
			}
		}
	}
}

func (t *Tracker) evaluate(marker *Marker) *PerformanceAlert {
	alert := func(severity AlertSeverity, threshold time.Duration) *PerformanceAlert {
		return &PerformanceAlert{
			Timestamp: marker.EndTime,
			Severity:  severity,
			Operation: marker.Operation,
			SessionID: marker.SessionID,
			Threshold: threshold,
			Actual:    marker.Duration,
			Message:   fmt.Sprintf("%s took %v (threshold %v)", marker.Operation, marker.Duration, threshold),
		}
	}
	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		return alert(AlertCritical, t.thresholds.CriticalResponseThreshold)
	}
	if threshold := t.operationThreshold(marker.Operation); marker.Duration > threshold {
		return alert(AlertWarning, threshold)
	}
	return nil
}

func (t *Tracker) operationThreshold(operation string) time.Duration {
	switch {
	case strings.HasPrefix(operation, "editor:"):
		return t.thresholds.CommandThreshold
	case strings.HasPrefix(operation, "card:"):
		return t.thresholds.SaveThreshold
	case strings.HasPrefix(operation, "media:"):
		return t.thresholds.UploadThreshold
	}
	return t.thresholds.SlowResponseThreshold
}

// GetRecentMetrics returns completed markers that ended within the window
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	cutoff := time.Now().Add(-within)
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Marker
	for _, m := range t.completed {
		if m.EndTime.After(cutoff) {
			out = append(out, *m)
		}
	}
	return out
}

// GetAlerts returns a copy of the retained alerts
func (t *Tracker) GetAlerts() []PerformanceAlert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]PerformanceAlert, len(t.alerts))
	for i, a := range t.alerts {
		out[i] = *a
	}
	return out
}

// Cleanup removes completed markers older than the retention window
func (t *Tracker) Cleanup() {
	cutoff := time.Now().Add(-t.config.Retention)
	t.mu.Lock()
	defer t.mu.Unlock()
	keep := 0
	for keep < len(t.completed) && t.completed[keep].EndTime.Before(cutoff) {
		keep++
	}
	t.completed = t.completed[keep:]
}

// Start prunes on CleanupInterval until ctx is done
func (t *Tracker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Cleanup()
		}
	}
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var failed int
	var total time.Duration
	for _, m := range t.completed {
		total += m.Duration
		if !m.Success {
			failed++
		}
	}
	var avg time.Duration
	if n := len(t.completed); n > 0 {
		avg = total / time.Duration(n)
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"activeOperations":    len(t.active),
		"completedOperations": len(t.completed),
		"failedOperations":    failed,
		"averageDuration":     avg.String(),
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
