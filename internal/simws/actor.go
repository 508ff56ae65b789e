package simws

import (
	"encoding/json"
	"fmt"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
	"github.com/simdrive/driveclient/pkg/wire"
)

// newActor wraps an ActorInfo in the handle matching its capability kind, so
// sim.AsVehicle narrowing works on spawn results. Handles are cached per
// session; looking up a known actor returns the existing handle.
func newActor(c *Client, info wire.ActorInfo) sim.Actor {
	if cached, ok := c.actors.Get(info.ActorID); ok {
		return cached
	}

	a := actor{c: c, id: info.ActorID, kind: info.Kind}
	var handle sim.Actor
	if info.Kind == sim.KindVehicle {
		handle = &vehicle{actor: a}
	} else {
		handle = &a
	}
	c.actors.Add(handle)
	return handle
}

// actor is the RPC-backed generic actor handle.
type actor struct {
	c    *Client
	id   uint32
	kind sim.ActorKind
}

var _ sim.Actor = (*actor)(nil)

func (a *actor) ID() uint32 {
	return a.id
}

func (a *actor) Kind() sim.ActorKind {
	return a.kind
}

func (a *actor) Transform() (geom.Transform, error) {
	raw, err := a.c.conn.call(wire.MethodGetTransform, wire.ActorRef{ActorID: a.id})
	if err != nil {
		return geom.Transform{}, err
	}
	var payload wire.TransformPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return geom.Transform{}, fmt.Errorf("decode transform: %w", err)
	}
	return payload.Transform, nil
}

func (a *actor) Location() (geom.Location, error) {
	raw, err := a.c.conn.call(wire.MethodGetLocation, wire.ActorRef{ActorID: a.id})
	if err != nil {
		return geom.Location{}, err
	}
	var payload wire.LocationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return geom.Location{}, fmt.Errorf("decode location: %w", err)
	}
	return payload.Location, nil
}

func (a *actor) SetTransform(t geom.Transform) error {
	_, err := a.c.conn.call(wire.MethodSetTransform, wire.TransformPayload{
		ActorID:   a.id,
		Transform: t,
	})
	return err
}

// vehicle adds the vehicle capability to an actor handle.
type vehicle struct {
	actor
}

var _ sim.Vehicle = (*vehicle)(nil)

func (v *vehicle) ApplyControl(c sim.VehicleControl) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid control: %w", err)
	}
	_, err := v.c.conn.call(wire.MethodApplyControl, wire.ControlRequest{
		ActorID: v.id,
		Control: c,
	})
	return err
}

func (v *vehicle) Velocity() (geom.Vector3, error) {
	raw, err := v.c.conn.call(wire.MethodGetVelocity, wire.ActorRef{ActorID: v.id})
	if err != nil {
		return geom.Vector3{}, err
	}
	var payload wire.VelocityPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return geom.Vector3{}, fmt.Errorf("decode velocity: %w", err)
	}
	return payload.Velocity, nil
}
