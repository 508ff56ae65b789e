// Package worker runs the asynchronous telemetry writer. The scenario driver
// enqueues samples without blocking on storage; a single goroutine drains the
// queue into the configured backend and optional sinks on a flush interval.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/simdrive/driveclient/internal/influx"
	"github.com/simdrive/driveclient/internal/queue"
	"github.com/simdrive/driveclient/internal/telemetry"
	"github.com/simdrive/driveclient/pkg/core"
)

const instrumentationName = "github.com/simdrive/driveclient/internal/worker"

// Dependencies holds everything the recorder writes through.
type Dependencies struct {
	Backend telemetry.Backend
	Influx  *influx.Sink // optional, nil disables the metrics sink
	Logger  *slog.Logger
}

// Recorder drains queued telemetry samples into storage.
type Recorder struct {
	deps          Dependencies
	flushInterval time.Duration

	samples *queue.Queue[core.Sample]

	mu  sync.RWMutex
	run *core.RunInfo

	stopChan chan struct{}
	doneChan chan struct{}

	recorded metric.Int64Counter
}

// NewRecorder creates a telemetry recorder. Metrics use the global OTel
// meter and are no-ops when the provider is not configured.
func NewRecorder(deps Dependencies, flushInterval time.Duration) (*Recorder, error) {
	r := &Recorder{
		deps:          deps,
		flushInterval: flushInterval,
		samples:       queue.New[core.Sample](),
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}

	var err error
	r.recorded, err = otel.Meter(instrumentationName).Int64Counter(
		"telemetry.samples.recorded",
		metric.WithDescription("Total telemetry samples written to storage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating recorded counter: %w", err)
	}

	return r, nil
}

// Start begins the run on the backend and launches the drain goroutine.
func (r *Recorder) Start(run *core.RunInfo) error {
	if err := r.deps.Backend.StartRun(run); err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	r.mu.Lock()
	r.run = run
	r.mu.Unlock()

	go r.drainLoop()
	return nil
}

// Enqueue buffers one sample for asynchronous writing. Never blocks.
func (r *Recorder) Enqueue(s core.Sample) {
	r.samples.Push(s)
}

// Pending returns the number of samples not yet written.
func (r *Recorder) Pending() int {
	return r.samples.Len()
}

// Stop drains remaining samples, finalizes the run on the backend, and
// writes the summary to the metrics sink.
func (r *Recorder) Stop(sum *core.Summary) error {
	close(r.stopChan)
	<-r.doneChan

	if err := r.deps.Backend.EndRun(sum); err != nil {
		return fmt.Errorf("end run: %w", err)
	}

	r.mu.RLock()
	run := r.run
	r.mu.RUnlock()
	if r.deps.Influx != nil && run != nil {
		r.deps.Influx.WriteSummary(run, sum)
	}
	return nil
}

func (r *Recorder) drainLoop() {
	defer close(r.doneChan)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stopChan:
			r.flush()
			return
		}
	}
}

func (r *Recorder) flush() {
	batch := r.samples.Drain()
	if len(batch) == 0 {
		return
	}

	r.mu.RLock()
	run := r.run
	r.mu.RUnlock()

	for i := range batch {
		s := &batch[i]
		if err := r.deps.Backend.RecordSample(s); err != nil {
			r.deps.Logger.Error("Failed to record sample", "tick", s.Tick, "error", err)
			continue
		}
		if r.deps.Influx != nil {
			r.deps.Influx.WriteSample(run, s)
		}
		r.recorded.Add(context.Background(), 1)
	}
}
