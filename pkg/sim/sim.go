// Package sim defines the capability view of the driving-simulation client
// SDK consumed by the scenario runner: session, world, blueprint, actor and
// vehicle handles. Implementations live elsewhere (internal/simws for the
// wire transport, internal/simtest for the in-memory fake).
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/simdrive/driveclient/internal/geom"
)

var (
	// ErrNotVehicle is returned when narrowing an actor handle to a vehicle
	// capability it does not carry.
	ErrNotVehicle = errors.New("actor is not a vehicle")

	// ErrBlueprintNotFound is returned by exact blueprint lookups.
	ErrBlueprintNotFound = errors.New("blueprint not found")
)

// ActorKind tags the capability variant of a spawned actor.
type ActorKind string

const (
	KindVehicle   ActorKind = "vehicle"
	KindWalker    ActorKind = "walker"
	KindSensor    ActorKind = "sensor"
	KindSpectator ActorKind = "spectator"
	KindOther     ActorKind = "other"
)

// Client is an open session to a simulation server.
type Client interface {
	// SetTimeout bounds the handshake and every subsequent blocking call.
	// Must be called before the first world query.
	SetTimeout(d time.Duration)
	World() (World, error)
	// Close severs the session at the transport layer. It never issues
	// server-side destroys; actors spawned during the session are left to
	// server garbage collection.
	Close() error
}

// World is a handle to the loaded simulation world.
type World interface {
	Map() (Map, error)
	BlueprintLibrary() (BlueprintLibrary, error)
	Spectator() (Actor, error)
	SpawnActor(bp Blueprint, at geom.Transform) (Actor, error)
}

// Map exposes the loaded map's metadata and recommended spawn transforms.
type Map interface {
	Name() string
	RecommendedSpawnPoints() ([]geom.Transform, error)
}

// Blueprint identifies an actor class by its dotted id,
// e.g. "vehicle.tesla.model3".
type Blueprint interface {
	ID() string
}

// BlueprintLibrary looks up actor blueprints.
type BlueprintLibrary interface {
	// Find returns the blueprint with the exact id, or ErrBlueprintNotFound.
	Find(id string) (Blueprint, error)
	// Filter returns all blueprints whose id matches the wildcard pattern,
	// e.g. "vehicle.*". An empty result is not an error.
	Filter(pattern string) ([]Blueprint, error)
}

// Actor is a generic handle to a server-side entity.
type Actor interface {
	ID() uint32
	Kind() ActorKind
	Transform() (geom.Transform, error)
	Location() (geom.Location, error)
	SetTransform(t geom.Transform) error
}

// Vehicle is the vehicle capability of an actor.
type Vehicle interface {
	Actor
	ApplyControl(c VehicleControl) error
	Velocity() (geom.Vector3, error)
}

// AsVehicle narrows a generic actor handle to its vehicle capability.
// It fails loudly when the actor is not a vehicle rather than
// reinterpreting the handle.
func AsVehicle(a Actor) (Vehicle, error) {
	if a == nil {
		return nil, fmt.Errorf("narrow nil actor: %w", ErrNotVehicle)
	}
	if a.Kind() != KindVehicle {
		return nil, fmt.Errorf("narrow actor %d of kind %q: %w", a.ID(), a.Kind(), ErrNotVehicle)
	}
	v, ok := a.(Vehicle)
	if !ok {
		return nil, fmt.Errorf("actor %d lacks vehicle operations: %w", a.ID(), ErrNotVehicle)
	}
	return v, nil
}
