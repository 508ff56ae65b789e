// Package core holds the shared telemetry data model for a scenario run.
// Storage backends and the scenario driver both depend on it.
package core

import (
	"time"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

// RunInfo identifies a single scenario run.
type RunInfo struct {
	Host        string    `json:"host"`
	Port        uint16    `json:"port"`
	MapName     string    `json:"mapName"`
	BlueprintID string    `json:"blueprintId"`
	VehicleID   uint32    `json:"vehicleId"`
	StartTime   time.Time `json:"startTime"`
}

// Sample is one telemetry reading, taken after the tick's control was emitted.
type Sample struct {
	Tick     int                `json:"tick"`
	SimTime  float64            `json:"simTime"` // seconds since first control
	Time     time.Time          `json:"time"`
	Location geom.Location      `json:"location"`
	Velocity geom.Vector3       `json:"velocity"`
	SpeedKmh float32            `json:"speedKmh"`
	Control  sim.VehicleControl `json:"control"`
}

// Summary aggregates a completed run.
type Summary struct {
	Ticks       int           `json:"ticks"`
	DistanceM   float64       `json:"distanceM"`
	MaxSpeedKmh float32       `json:"maxSpeedKmh"`
	Duration    time.Duration `json:"duration"`
}
