// Package scenario drives the spawned vehicle through the demo maneuver:
// a fixed number of throttle ticks with telemetry sampling, then a full
// brake and a dwell so the stop is visible.
package scenario

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/core"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Phase is the driver's current stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDriving
	PhaseBraking
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDriving:
		return "driving"
	case PhaseBraking:
		return "braking"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Recorder receives telemetry samples as they are taken. Implementations
// must not block the tick loop.
type Recorder interface {
	Enqueue(s core.Sample)
}

// Options parameterize the maneuver.
type Options struct {
	Throttle      float32
	DriveTicks    int
	TickInterval  time.Duration
	BrakeDuration time.Duration
	// Sleep is injectable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Driver executes the maneuver against a vehicle.
type Driver struct {
	vehicle  sim.Vehicle
	recorder Recorder
	opts     Options
	logger   *slog.Logger

	phase    Phase
	track    geo.Track
	maxSpeed float32
	start    time.Time
}

// New builds a Driver in the idle phase.
func New(vehicle sim.Vehicle, recorder Recorder, opts Options, logger *slog.Logger) *Driver {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		vehicle:  vehicle,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
}

// Phase returns the driver's current stage.
func (d *Driver) Phase() Phase {
	return d.phase
}

// Run drives the vehicle: DriveTicks controls at the configured throttle,
// sampling telemetry after each one, then a single full brake held for
// BrakeDuration. The first failed control aborts the maneuver; no further
// controls are sent.
func (d *Driver) Run() (*core.Summary, error) {
	d.phase = PhaseDriving
	d.start = d.opts.Now()

	for tick := 0; tick < d.opts.DriveTicks; tick++ {
		if err := d.tick(tick); err != nil {
			return nil, err
		}
		d.opts.Sleep(d.opts.TickInterval)
	}

	d.phase = PhaseBraking
	d.logger.Info("braking", "hold", d.opts.BrakeDuration)
	if err := d.vehicle.ApplyControl(sim.VehicleControl{Brake: 1.0}); err != nil {
		return nil, fmt.Errorf("apply brake: %w", err)
	}
	d.opts.Sleep(d.opts.BrakeDuration)

	d.phase = PhaseDone
	return &core.Summary{
		Ticks:       d.opts.DriveTicks,
		DistanceM:   d.track.Length(),
		MaxSpeedKmh: d.maxSpeed,
		Duration:    d.opts.Now().Sub(d.start),
	}, nil
}

// tick sends one throttle control and samples the vehicle's state. Sampling
// failures after a successful control are fatal too: a run with telemetry
// holes is not worth keeping.
func (d *Driver) tick(tick int) error {
	control := sim.VehicleControl{Throttle: d.opts.Throttle}
	if err := d.vehicle.ApplyControl(control); err != nil {
		return fmt.Errorf("apply control at tick %d: %w", tick, err)
	}

	loc, err := d.vehicle.Location()
	if err != nil {
		return fmt.Errorf("read location at tick %d: %w", tick, err)
	}
	vel, err := d.vehicle.Velocity()
	if err != nil {
		return fmt.Errorf("read velocity at tick %d: %w", tick, err)
	}

	speed := geom.SpeedKmh(vel)
	simTime := float64(tick) * d.opts.TickInterval.Seconds()

	d.track.Append(loc)
	if speed > d.maxSpeed {
		d.maxSpeed = speed
	}
	d.recorder.Enqueue(core.Sample{
		Tick:     tick,
		SimTime:  simTime,
		Time:     d.opts.Now(),
		Location: loc,
		Velocity: vel,
		SpeedKmh: speed,
		Control:  control,
	})

	d.logger.Info(fmt.Sprintf("Time %.1fs - Position: (%.2f, %.2f, %.2f) Speed: %.1f km/h",
		simTime, loc.X, loc.Y, loc.Z, speed))
	return nil
}

// DistanceM returns the planar length of the driven path so far.
func (d *Driver) DistanceM() float64 {
	return d.track.Length()
}
