// Package influx ships per-tick telemetry to InfluxDB when enabled. The sink
// is best-effort: a failed connection downgrades it to a no-op rather than
// failing the scenario.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/simdrive/driveclient/pkg/core"
)

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx.enabled is false")

// Sink handles the InfluxDB connection and writes.
type Sink struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewSink creates a new InfluxDB sink.
func NewSink(log zerolog.Logger) *Sink {
	return &Sink{
		IsValid: false,
		Logger:  log,
	}
}

// Connect establishes a connection to InfluxDB and prepares the write API.
func (s *Sink) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return ErrDisabled
	}

	s.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := s.Client.Ping(context.Background())
	if err != nil || !running {
		s.IsValid = false
		s.Logger.Warn().Err(err).Msg("InfluxDB unreachable, telemetry metrics disabled")
		return nil
	}

	s.Writer = s.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	s.IsValid = true
	s.Logger.Info().Msg("InfluxDB sink initialized")
	return nil
}

// WriteSample writes one telemetry point.
func (s *Sink) WriteSample(run *core.RunInfo, sample *core.Sample) {
	if !s.IsValid {
		return
	}

	p := influxdb2.NewPoint(
		"vehicle_telemetry",
		map[string]string{
			"map":       run.MapName,
			"blueprint": run.BlueprintID,
		},
		map[string]any{
			"tick":      sample.Tick,
			"sim_time":  sample.SimTime,
			"x":         sample.Location.X,
			"y":         sample.Location.Y,
			"z":         sample.Location.Z,
			"speed_kmh": sample.SpeedKmh,
			"throttle":  sample.Control.Throttle,
			"brake":     sample.Control.Brake,
			"steer":     sample.Control.Steer,
		},
		sample.Time,
	)
	s.Writer.WritePoint(p)
}

// WriteSummary writes the run summary point.
func (s *Sink) WriteSummary(run *core.RunInfo, sum *core.Summary) {
	if !s.IsValid {
		return
	}

	p := influxdb2.NewPoint(
		"scenario_run",
		map[string]string{
			"map":       run.MapName,
			"blueprint": run.BlueprintID,
		},
		map[string]any{
			"ticks":         sum.Ticks,
			"distance_m":    sum.DistanceM,
			"max_speed_kmh": sum.MaxSpeedKmh,
			"duration_ms":   sum.Duration.Milliseconds(),
		},
		time.Now(),
	)
	s.Writer.WritePoint(p)
}

// Close flushes pending writes and shuts the client down.
func (s *Sink) Close() {
	if s.Writer != nil {
		s.Writer.Flush()
	}
	if s.Client != nil {
		s.Client.Close()
	}
	s.IsValid = false
}
