// Package performance provides performance monitoring data structures and utilities
// for tracking editor, save and upload operations.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"`           // e.g., "editor:dispatch", "card:save"
	SessionID string         `json:"sessionId,omitempty"` // Editor session, when the operation has one
	StartTime time.Time      `json:"startTime"`           // When the operation started
	EndTime   time.Time      `json:"endTime"`             // When the operation completed
	Duration  time.Duration  `json:"duration"`            // Total operation duration
	Success   bool           `json:"success"`             // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"`     // Error message if operation failed
	Metadata  map[string]any `json:"metadata"`            // Additional operation-specific data
	Completed bool           `json:"completed"`           // Whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"  // Performance degradation detected
	AlertCritical AlertSeverity = "critical" // Serious performance issue
)

// PerformanceAlert represents a performance threshold violation
type PerformanceAlert struct {
	Timestamp time.Time     `json:"timestamp"`
	Severity  AlertSeverity `json:"severity"`
	Operation string        `json:"operation"`
	SessionID string        `json:"sessionId,omitempty"`
	Threshold time.Duration `json:"threshold"`
	Actual    time.Duration `json:"actual"`
	Message   string        `json:"message"`
}
