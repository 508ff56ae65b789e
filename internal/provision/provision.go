// Package provision selects a vehicle blueprint, picks a spawn point, and
// spawns the ego vehicle into the world.
package provision

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

var (
	// ErrNoVehicleBlueprints is returned when neither the preferred blueprint
	// nor the wildcard filter yields a usable vehicle blueprint.
	ErrNoVehicleBlueprints = errors.New("no vehicle blueprints found")

	// ErrNoSpawnPoints is returned when the map recommends no spawn points.
	ErrNoSpawnPoints = errors.New("no spawn points available")
)

// Options control blueprint selection and post-spawn settling.
type Options struct {
	// Preferred is the exact blueprint id tried first.
	Preferred string
	// Wildcard is the fallback filter pattern when Preferred is absent.
	Wildcard string
	// SettleDelay is how long to wait after the spawn before the vehicle is
	// handed to the driver, so physics can settle.
	SettleDelay time.Duration
	// Sleep is injectable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Result describes the spawned ego vehicle.
type Result struct {
	Vehicle     sim.Vehicle
	BlueprintID string
	SpawnPoint  geom.Transform
}

// Provisioner spawns the ego vehicle.
type Provisioner struct {
	world  sim.World
	opts   Options
	logger *slog.Logger
}

// New builds a Provisioner over an open world.
func New(world sim.World, opts Options, logger *slog.Logger) *Provisioner {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Provisioner{world: world, opts: opts, logger: logger}
}

// SpawnVehicle selects a blueprint, spawns it at the first recommended spawn
// point, and narrows the result to its vehicle capability. The spawn point
// choice is deterministic so repeated runs are comparable.
func (p *Provisioner) SpawnVehicle() (*Result, error) {
	bp, err := p.selectBlueprint()
	if err != nil {
		return nil, err
	}

	simMap, err := p.world.Map()
	if err != nil {
		return nil, fmt.Errorf("query map: %w", err)
	}
	points, err := simMap.RecommendedSpawnPoints()
	if err != nil {
		return nil, fmt.Errorf("query spawn points: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNoSpawnPoints
	}
	spawnPoint := points[0]
	p.logger.Info("spawning vehicle",
		"blueprint", bp.ID(),
		"x", spawnPoint.Location.X,
		"y", spawnPoint.Location.Y,
		"z", spawnPoint.Location.Z,
	)

	actor, err := p.world.SpawnActor(bp, spawnPoint)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", bp.ID(), err)
	}
	vehicle, err := sim.AsVehicle(actor)
	if err != nil {
		return nil, fmt.Errorf("spawned actor: %w", err)
	}

	if p.opts.SettleDelay > 0 {
		p.opts.Sleep(p.opts.SettleDelay)
	}
	return &Result{Vehicle: vehicle, BlueprintID: bp.ID(), SpawnPoint: spawnPoint}, nil
}

// selectBlueprint tries the exact preferred id first and falls back to the
// first wildcard match.
func (p *Provisioner) selectBlueprint() (sim.Blueprint, error) {
	lib, err := p.world.BlueprintLibrary()
	if err != nil {
		return nil, fmt.Errorf("query blueprint library: %w", err)
	}

	bp, err := lib.Find(p.opts.Preferred)
	if err == nil {
		return bp, nil
	}
	if !errors.Is(err, sim.ErrBlueprintNotFound) {
		return nil, fmt.Errorf("find blueprint %s: %w", p.opts.Preferred, err)
	}

	p.logger.Warn("preferred blueprint unavailable, falling back",
		"preferred", p.opts.Preferred,
		"pattern", p.opts.Wildcard,
	)
	candidates, err := lib.Filter(p.opts.Wildcard)
	if err != nil {
		return nil, fmt.Errorf("filter blueprints %s: %w", p.opts.Wildcard, err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoVehicleBlueprints
	}
	return candidates[0], nil
}
