package simtest

import (
	"sync"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Actor is a fake generic actor with a settable pose.
type Actor struct {
	ActorID   uint32
	ActorKind sim.ActorKind

	mu           sync.Mutex
	Pose         geom.Transform
	PoseErr      error
	SetPoseCalls []geom.Transform
}

var _ sim.Actor = (*Actor)(nil)

func (a *Actor) ID() uint32 {
	return a.ActorID
}

func (a *Actor) Kind() sim.ActorKind {
	return a.ActorKind
}

func (a *Actor) Transform() (geom.Transform, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.PoseErr != nil {
		return geom.Transform{}, a.PoseErr
	}
	return a.Pose, nil
}

func (a *Actor) Location() (geom.Location, error) {
	t, err := a.Transform()
	return t.Location, err
}

func (a *Actor) SetTransform(t geom.Transform) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.PoseErr != nil {
		return a.PoseErr
	}
	a.Pose = t
	a.SetPoseCalls = append(a.SetPoseCalls, t)
	return nil
}

// Vehicle is a fake vehicle with recorded controls and scripted velocity.
type Vehicle struct {
	Actor

	cmu      sync.Mutex
	Controls []sim.VehicleControl
	ApplyErr error

	// VelocityFn, when set, scripts the velocity per read. Otherwise Vel is
	// returned.
	VelocityFn func(read int) geom.Vector3
	Vel        geom.Vector3
	VelErr     error
	velReads   int
}

var _ sim.Vehicle = (*Vehicle)(nil)

func (v *Vehicle) ApplyControl(c sim.VehicleControl) error {
	v.cmu.Lock()
	defer v.cmu.Unlock()
	if v.ApplyErr != nil {
		return v.ApplyErr
	}
	v.Controls = append(v.Controls, c)
	return nil
}

func (v *Vehicle) Velocity() (geom.Vector3, error) {
	v.cmu.Lock()
	defer v.cmu.Unlock()
	if v.VelErr != nil {
		return geom.Vector3{}, v.VelErr
	}
	v.velReads++
	if v.VelocityFn != nil {
		return v.VelocityFn(v.velReads), nil
	}
	return v.Vel, nil
}

// AppliedControls returns a copy of the controls applied so far.
func (v *Vehicle) AppliedControls() []sim.VehicleControl {
	v.cmu.Lock()
	defer v.cmu.Unlock()
	out := make([]sim.VehicleControl, len(v.Controls))
	copy(out, v.Controls)
	return out
}
