package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/core"
)

func testRun() *core.RunInfo {
	return &core.RunInfo{
		Host:        "localhost",
		Port:        2000,
		MapName:     "Town01",
		BlueprintID: "vehicle.tesla.model3",
		VehicleID:   101,
		StartTime:   time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestBackendExportsRunFile(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir}, geo.NewProjector(48.85, 2.35))
	require.NoError(t, b.Init())

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordSample(&core.Sample{
		Tick:     0,
		Location: geom.Location{X: 1, Y: 2, Z: 0.3},
		SpeedKmh: 12.5,
	}))
	require.NoError(t, b.RecordSample(&core.Sample{Tick: 1}))
	require.NoError(t, b.EndRun(&core.Summary{Ticks: 2, DistanceM: 2.2}))

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)
	assert.Equal(t, filepath.Join(dir, "run_20260831_120000.json"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var export RunExport
	require.NoError(t, json.NewDecoder(f).Decode(&export))
	assert.Equal(t, "Town01", export.Run.MapName)
	assert.Equal(t, 2, export.Summary.Ticks)
	require.Len(t, export.Samples, 2)
	// Geodetic coordinates are near the projector datum.
	assert.InDelta(t, 2.35, export.Samples[0].Lon, 0.01)
	assert.InDelta(t, 48.85, export.Samples[0].Lat, 0.01)
}

func TestBackendExportsCompressed(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true}, geo.Projector{})

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordSample(&core.Sample{Tick: 0}))
	require.NoError(t, b.EndRun(&core.Summary{Ticks: 1}))

	path := b.ExportedFilePath()
	assert.Contains(t, path, ".json.gz")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	var export RunExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	require.Len(t, export.Samples, 1)
}

func TestBackendEndRunWithoutStart(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()}, geo.Projector{})
	err := b.EndRun(&core.Summary{})
	assert.Error(t, err)
}

func TestBackendStartRunResetsState(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()}, geo.Projector{})

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordSample(&core.Sample{Tick: 0}))
	require.NoError(t, b.StartRun(testRun()))
	assert.Empty(t, b.Samples())
}
