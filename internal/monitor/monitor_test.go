package monitor

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubRecorder struct {
	reads atomic.Int64
}

func (s *stubRecorder) Pending() int {
	s.reads.Add(1)
	return 3
}

func TestServiceStartStop(t *testing.T) {
	rec := &stubRecorder{}
	svc := NewService(Dependencies{Recorder: rec, Logger: slog.Default()}, time.Millisecond)

	assert.False(t, svc.IsRunning())
	svc.Start()
	assert.True(t, svc.IsRunning())

	// Let a few ticks pass so the recorder gets polled.
	time.Sleep(20 * time.Millisecond)
	svc.Stop()
	assert.False(t, svc.IsRunning())
	assert.Greater(t, rec.reads.Load(), int64(0))
}

func TestServiceDoubleStartIsNoop(t *testing.T) {
	svc := NewService(Dependencies{Recorder: &stubRecorder{}, Logger: slog.Default()}, time.Millisecond)
	svc.Start()
	svc.Start()
	svc.Stop()
	svc.Stop()
	assert.False(t, svc.IsRunning())
}
