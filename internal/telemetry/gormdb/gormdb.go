// Package gormdb records run telemetry through gorm, into Postgres when
// configured and a local SQLite file otherwise.
package gormdb

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/simdrive/driveclient/internal/database"
	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/pkg/core"
)

// Run is the per-run row.
type Run struct {
	ID          uint `gorm:"primarykey"`
	Host        string
	Port        uint16
	MapName     string
	BlueprintID string
	VehicleID   uint32
	StartTime   time.Time
	Ticks       int
	DistanceM   float64
	MaxSpeedKmh float32
	DurationMs  int64
}

// Sample is the per-tick row. The control triple is kept as a JSON column.
type Sample struct {
	ID       uint `gorm:"primarykey"`
	RunID    uint `gorm:"index"`
	Tick     int
	SimTime  float64
	Time     time.Time
	X        float32
	Y        float32
	Z        float32
	VX       float32
	VY       float32
	VZ       float32
	SpeedKmh float32
	Lon      float64
	Lat      float64
	Control  datatypes.JSON
}

// Backend implements telemetry storage over gorm.
type Backend struct {
	mgr  *database.Manager
	proj geo.Projector

	mu    sync.Mutex
	runID uint
}

// New creates a new gorm-backed telemetry backend.
func New(mgr *database.Manager, proj geo.Projector) *Backend {
	return &Backend{mgr: mgr, proj: proj}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.mgr.DB.AutoMigrate(&Run{}, &Sample{}); err != nil {
		return fmt.Errorf("failed to migrate telemetry schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.mgr.Close()
}

// StartRun inserts the run row and remembers its id.
func (b *Backend) StartRun(run *core.RunInfo) error {
	row := Run{
		Host:        run.Host,
		Port:        run.Port,
		MapName:     run.MapName,
		BlueprintID: run.BlueprintID,
		VehicleID:   run.VehicleID,
		StartTime:   run.StartTime,
	}
	if err := b.mgr.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	b.mu.Lock()
	b.runID = row.ID
	b.mu.Unlock()
	return nil
}

// RecordSample inserts one sample row.
func (b *Backend) RecordSample(s *core.Sample) error {
	b.mu.Lock()
	runID := b.runID
	b.mu.Unlock()
	if runID == 0 {
		return fmt.Errorf("no run started")
	}

	control, err := json.Marshal(s.Control)
	if err != nil {
		return fmt.Errorf("failed to marshal control: %w", err)
	}
	lon, lat := b.proj.ToLonLat(s.Location)

	row := Sample{
		RunID:    runID,
		Tick:     s.Tick,
		SimTime:  s.SimTime,
		Time:     s.Time,
		X:        s.Location.X,
		Y:        s.Location.Y,
		Z:        s.Location.Z,
		VX:       s.Velocity.X,
		VY:       s.Velocity.Y,
		VZ:       s.Velocity.Z,
		SpeedKmh: s.SpeedKmh,
		Lon:      lon,
		Lat:      lat,
		Control:  datatypes.JSON(control),
	}
	if err := b.mgr.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// EndRun updates the run row with the summary.
func (b *Backend) EndRun(sum *core.Summary) error {
	b.mu.Lock()
	runID := b.runID
	b.mu.Unlock()
	if runID == 0 {
		return fmt.Errorf("no run started")
	}

	updates := map[string]any{
		"ticks":         sum.Ticks,
		"distance_m":    sum.DistanceM,
		"max_speed_kmh": sum.MaxSpeedKmh,
		"duration_ms":   sum.Duration.Milliseconds(),
	}
	if err := b.mgr.DB.Model(&Run{}).Where("id = ?", runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}
	return nil
}
