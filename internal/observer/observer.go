// Package observer places the spectator camera behind the ego vehicle.
package observer

import (
	"fmt"
	"log/slog"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Offsets describe the chase-camera placement relative to the vehicle.
type Offsets struct {
	// Back is the horizontal distance behind the vehicle, in meters. The
	// offset is purely horizontal regardless of the vehicle's pitch.
	Back float32
	// Up is the vertical lift above the vehicle, in meters.
	Up float32
	// Pitch is the fixed downward camera tilt, in degrees.
	Pitch float32
}

// ChaseTransform computes the spectator pose for a vehicle pose: Back meters
// behind it along the horizontal projection of its heading, Up meters above,
// tilted down by Pitch and sharing the vehicle's yaw and roll.
func ChaseTransform(vehicle geom.Transform, off Offsets) geom.Transform {
	forward := vehicle.ForwardVector()
	horizontal := geom.Vector3{X: forward.X, Y: forward.Y}

	loc := vehicle.Location.Shift(horizontal.Scale(-off.Back))
	loc = loc.Shift(geom.Vector3{Z: off.Up})

	return geom.Transform{
		Location: loc,
		Rotation: geom.Rotation{
			Pitch: off.Pitch,
			Yaw:   vehicle.Rotation.Yaw,
			Roll:  vehicle.Rotation.Roll,
		},
	}
}

// Place moves the world's spectator behind the vehicle. The placement is
// done once; the camera does not follow the vehicle afterwards.
func Place(world sim.World, vehicle sim.Actor, off Offsets, logger *slog.Logger) error {
	spectator, err := world.Spectator()
	if err != nil {
		return fmt.Errorf("query spectator: %w", err)
	}
	pose, err := vehicle.Transform()
	if err != nil {
		return fmt.Errorf("query vehicle transform: %w", err)
	}

	target := ChaseTransform(pose, off)
	if err := spectator.SetTransform(target); err != nil {
		return fmt.Errorf("move spectator: %w", err)
	}
	logger.Debug("spectator placed",
		"x", target.Location.X,
		"y", target.Location.Y,
		"z", target.Location.Z,
		"pitch", target.Rotation.Pitch,
		"yaw", target.Rotation.Yaw,
	)
	return nil
}
