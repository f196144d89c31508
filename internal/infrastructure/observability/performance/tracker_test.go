package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker(t *testing.T) {
	m := &Marker{StartTime: time.Now().Add(-time.Second)}
	m.AddMetadata("command", "UNDO")
	m.SetSuccess(true)
	m.SetError(errors.New("boom"))
	m.Complete()
	end := m.EndTime
	m.Complete()

	assert.False(t, m.Success)
	assert.Equal(t, "boom", m.Error)
	assert.Equal(t, "UNDO", m.Metadata["command"])
	assert.GreaterOrEqual(t, m.Duration, time.Second)
	assert.Equal(t, end, m.EndTime, "complete is idempotent")
}

func TestTracker_CompleteOperation(t *testing.T) {
	tr := NewTracker(nil)
	m := tr.StartOperation("editor:dispatch", "s1")
	assert.True(t, m.Success)
	assert.Equal(t, 1, tr.GetOverallStats()["activeOperations"])

	tr.CompleteOperation(m)
	tr.CompleteOperation(m)

	stats := tr.GetOverallStats()
	assert.Equal(t, 0, stats["activeOperations"])
	assert.Equal(t, 1, stats["completedOperations"])

	recent := tr.GetRecentMetrics(time.Minute)
	require.Len(t, recent, 1)
	assert.Equal(t, "s1", recent[0].SessionID)
	assert.Empty(t, tr.GetAlerts())
}

func TestTracker_Alerts(t *testing.T) {
	tr := NewTracker(nil)

	slow := tr.StartOperation("editor:dispatch", "s1")
	slow.StartTime = time.Now().Add(-200 * time.Millisecond)
	tr.CompleteOperation(slow)

	save := tr.StartOperation("card:save", "")
	save.StartTime = time.Now().Add(-200 * time.Millisecond)
	tr.CompleteOperation(save)

	critical := tr.StartOperation("media:upload", "")
	critical.StartTime = time.Now().Add(-6 * time.Second)
	tr.CompleteOperation(critical)

	alerts := tr.GetAlerts()
	require.Len(t, alerts, 2, "a save under its threshold raises nothing")
	assert.Equal(t, AlertWarning, alerts[0].Severity)
	assert.Equal(t, 50*time.Millisecond, alerts[0].Threshold)
	assert.Equal(t, AlertCritical, alerts[1].Severity)
	assert.Contains(t, alerts[1].Message, "media:upload took")
}

func TestTracker_Retention(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.MaxMarkers = 2
	cfg.EnableAlerts = false
	tr := NewTracker(cfg)

	for _, op := range []string{"a", "b", "c"} {
		tr.CompleteOperation(tr.StartOperation(op, ""))
	}
	recent := tr.GetRecentMetrics(time.Minute)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Operation)

	tr.completed[0].EndTime = time.Now().Add(-2 * time.Hour)
	tr.Cleanup()
	recent = tr.GetRecentMetrics(24 * time.Hour)
	require.Len(t, recent, 1)
	assert.Equal(t, "c", recent[0].Operation)
}

func TestTracker_StartStops(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.CleanupInterval = time.Millisecond
	tr := NewTracker(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop")
	}
}
