// Package telemetry defines the storage backend interface the scenario
// driver records through, and the factory that builds the configured one.
package telemetry

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/database"
	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/internal/telemetry/gormdb"
	"github.com/simdrive/driveclient/internal/telemetry/memory"
	"github.com/simdrive/driveclient/pkg/core"
)

// Backend is the interface all telemetry storage implementations satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(run *core.RunInfo) error
	EndRun(sum *core.Summary) error

	// Sample recording
	RecordSample(s *core.Sample) error
}

// Exportable is an optional interface for backends that produce a run file.
type Exportable interface {
	ExportedFilePath() string
}

// NewBackend creates a telemetry backend based on configuration.
func NewBackend(cfg config.StorageConfig, proj geo.Projector, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory, proj), nil
	case "db":
		mgr := database.NewManager(log)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("connect telemetry database: %w", err)
		}
		return gormdb.New(mgr, proj), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
