// Package memory stores run telemetry in memory and exports it to a JSON
// file when the run ends.
package memory

import (
	"sync"

	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/pkg/core"
)

// Backend buffers samples in memory and writes one run file on EndRun.
type Backend struct {
	cfg  config.MemoryConfig
	proj geo.Projector

	mu      sync.Mutex
	run     *core.RunInfo
	samples []core.Sample
	summary *core.Summary

	exportedPath string
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig, proj geo.Projector) *Backend {
	return &Backend{
		cfg:  cfg,
		proj: proj,
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run.
func (b *Backend) StartRun(run *core.RunInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.samples = nil
	b.summary = nil
	return nil
}

// RecordSample appends a telemetry sample.
func (b *Backend) RecordSample(s *core.Sample) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, *s)
	return nil
}

// EndRun finalizes the run and exports the JSON file.
func (b *Backend) EndRun(sum *core.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.summary = sum
	return b.exportJSON()
}

// ExportedFilePath returns the path of the written run file, empty before
// EndRun.
func (b *Backend) ExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exportedPath
}

// Samples returns a copy of the recorded samples.
func (b *Backend) Samples() []core.Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}
