package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simdrive/driveclient/pkg/core"
)

// RunExport is the root JSON structure of a run file.
type RunExport struct {
	Run     *core.RunInfo `json:"run"`
	Summary *core.Summary `json:"summary"`
	Samples []SampleJSON  `json:"samples"`
}

// SampleJSON is a sample augmented with geodetic coordinates.
type SampleJSON struct {
	core.Sample
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// exportJSON writes the run data to a JSON file, gzipped when configured.
// Caller holds b.mu.
func (b *Backend) exportJSON() error {
	if b.run == nil {
		return fmt.Errorf("no run started")
	}

	export := RunExport{
		Run:     b.run,
		Summary: b.summary,
		Samples: make([]SampleJSON, 0, len(b.samples)),
	}
	for _, s := range b.samples {
		lon, lat := b.proj.ToLonLat(s.Location)
		export.Samples = append(export.Samples, SampleJSON{Sample: s, Lon: lon, Lat: lat})
	}

	timestamp := b.run.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("run_%s.json", timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create run file: %w", err)
	}
	defer file.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(file)
		defer gz.Close()
		if err := json.NewEncoder(gz).Encode(export); err != nil {
			return fmt.Errorf("failed to encode run file: %w", err)
		}
	} else {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode run file: %w", err)
		}
	}

	b.exportedPath = outputPath
	return nil
}
