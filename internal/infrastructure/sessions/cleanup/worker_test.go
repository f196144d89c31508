package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
)

type fakeExpirer struct {
	mu      sync.Mutex
	cutoffs []time.Time
	result  int
}

func (f *fakeExpirer) ExpireIdle(cutoff time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.result
}

func (f *fakeExpirer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestWorker_RunOnce(t *testing.T) {
	fake := &fakeExpirer{result: 3}
	w := NewWorker(fake, logging.NewNopLogger(), &Config{CleanupInterval: time.Minute, IdleTimeout: 2 * time.Hour})
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	assert.Equal(t, 3, w.RunOnce())
	assert.Equal(t, []time.Time{fixed.Add(-2 * time.Hour)}, fake.cutoffs)
}

func TestWorker_StartStopsOnCancel(t *testing.T) {
	fake := &fakeExpirer{}
	w := NewWorker(fake, logging.NewNopLogger(), &Config{CleanupInterval: 5 * time.Millisecond, IdleTimeout: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return fake.calls() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
