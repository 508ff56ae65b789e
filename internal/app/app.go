// Package app orchestrates a scenario run end to end: session, vehicle
// provisioning, spectator placement, the drive maneuver, and teardown.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/observer"
	"github.com/simdrive/driveclient/internal/provision"
	"github.com/simdrive/driveclient/internal/scenario"
	"github.com/simdrive/driveclient/pkg/core"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Dial opens a session to the simulation server.
type Dial func(host string, port uint16, logger *slog.Logger) (sim.Client, error)

// RunRecorder is the telemetry pipeline as the orchestrator sees it.
type RunRecorder interface {
	Start(run *core.RunInfo) error
	Enqueue(s core.Sample)
	Stop(sum *core.Summary) error
}

// Dependencies holds the injected collaborators of a run.
type Dependencies struct {
	Dial     Dial
	Recorder RunRecorder
	Logger   *slog.Logger
}

// App runs the demo scenario.
type App struct {
	deps Dependencies
}

// New builds an App.
func New(deps Dependencies) *App {
	return &App{deps: deps}
}

// Result describes a completed scenario run.
type Result struct {
	Run     *core.RunInfo
	Summary *core.Summary
}

// Run executes the scenario against the configured server. On return the
// session is closed; spawned actors are intentionally left to the server,
// the demo never issues destroys.
func (a *App) Run() (*Result, error) {
	log := a.deps.Logger
	host, port := config.Addr()

	log.Info("connecting", "host", host, "port", port)
	client, err := a.deps.Dial(host, port, log)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	// The timeout must be in force before the first world query.
	client.SetTimeout(config.GetDuration("session.timeout"))

	world, err := client.World()
	if err != nil {
		return nil, fmt.Errorf("query world: %w", err)
	}
	simMap, err := world.Map()
	if err != nil {
		return nil, fmt.Errorf("query map: %w", err)
	}
	log.Info("connected", "map", simMap.Name())

	prov := provision.New(world, provision.Options{
		Preferred:   config.GetString("blueprint.preferred"),
		Wildcard:    config.GetString("blueprint.wildcard"),
		SettleDelay: config.GetDuration("scenario.settleDelay"),
	}, log)
	spawned, err := prov.SpawnVehicle()
	if err != nil {
		return nil, err
	}

	err = observer.Place(world, spawned.Vehicle, observer.Offsets{
		Back:  float32(config.GetFloat64("observer.back")),
		Up:    float32(config.GetFloat64("observer.up")),
		Pitch: float32(config.GetFloat64("observer.pitch")),
	}, log)
	if err != nil {
		return nil, err
	}

	run := &core.RunInfo{
		Host:        host,
		Port:        port,
		MapName:     simMap.Name(),
		BlueprintID: spawned.BlueprintID,
		VehicleID:   spawned.Vehicle.ID(),
		StartTime:   time.Now(),
	}
	if err := a.deps.Recorder.Start(run); err != nil {
		return nil, err
	}

	driver := scenario.New(spawned.Vehicle, a.deps.Recorder, scenario.Options{
		Throttle:      float32(config.GetFloat64("scenario.throttle")),
		DriveTicks:    config.GetInt("scenario.driveTicks"),
		TickInterval:  config.GetDuration("scenario.tickInterval"),
		BrakeDuration: config.GetDuration("scenario.brakeDuration"),
	}, log)
	sum, runErr := driver.Run()
	if runErr != nil {
		// Flush what was captured before the failure.
		if stopErr := a.deps.Recorder.Stop(&core.Summary{}); stopErr != nil {
			log.Error("Failed to finalize telemetry after abort", "error", stopErr)
		}
		return nil, runErr
	}

	if err := a.deps.Recorder.Stop(sum); err != nil {
		return nil, err
	}
	log.Info("run recorded",
		"ticks", sum.Ticks,
		"distance_m", fmt.Sprintf("%.1f", sum.DistanceM),
		"max_speed_kmh", fmt.Sprintf("%.1f", sum.MaxSpeedKmh),
	)
	return &Result{Run: run, Summary: sum}, nil
}
