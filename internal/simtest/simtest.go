// Package simtest provides an in-memory fake of the pkg/sim capability view
// for tests: scripted kinematics, recorded calls, and injectable failures.
package simtest

import (
	"strings"
	"sync"
	"time"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Client is a fake sim.Client.
type Client struct {
	Fake *World

	mu         sync.Mutex
	timeout    time.Duration
	closed     bool
	WorldErr   error
}

var _ sim.Client = (*Client)(nil)

// NewClient builds a client over a world with one map, one spawn point, a
// spectator, and the default vehicle blueprints.
func NewClient() *Client {
	return &Client{Fake: NewWorld()}
}

func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Timeout reports the last SetTimeout value.
func (c *Client) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

func (c *Client) World() (sim.World, error) {
	if c.WorldErr != nil {
		return nil, c.WorldErr
	}
	return c.Fake, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// World is a fake sim.World with scripted contents.
type World struct {
	MapName      string
	MapErr       error
	SpawnPoints  []geom.Transform
	SpawnPtsErr  error
	BlueprintIDs []string
	SpectatorA   *Actor
	SpawnErr     error
	SpawnKind    sim.ActorKind
	// SpawnVelErr is copied onto spawned vehicles so their velocity reads fail.
	SpawnVelErr error

	mu      sync.Mutex
	nextID  uint32
	Spawned []sim.Actor
}

var _ sim.World = (*World)(nil)

// NewWorld builds the default test world.
func NewWorld() *World {
	return &World{
		MapName:      "Town01",
		SpawnPoints:  []geom.Transform{{}},
		BlueprintIDs: []string{"vehicle.tesla.model3", "vehicle.audi.tt", "walker.pedestrian.0001"},
		SpectatorA:   &Actor{ActorID: 1, ActorKind: sim.KindSpectator},
		SpawnKind:    sim.KindVehicle,
		nextID:       100,
	}
}

func (w *World) Map() (sim.Map, error) {
	if w.MapErr != nil {
		return nil, w.MapErr
	}
	return &Map{w: w}, nil
}

func (w *World) BlueprintLibrary() (sim.BlueprintLibrary, error) {
	return &Library{w: w}, nil
}

func (w *World) Spectator() (sim.Actor, error) {
	return w.SpectatorA, nil
}

func (w *World) SpawnActor(bp sim.Blueprint, at geom.Transform) (sim.Actor, error) {
	if w.SpawnErr != nil {
		return nil, w.SpawnErr
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++

	var spawned sim.Actor
	if w.SpawnKind == sim.KindVehicle {
		spawned = &Vehicle{
			Actor: Actor{
				ActorID:   w.nextID,
				ActorKind: sim.KindVehicle,
				Pose:      at,
			},
			VelErr: w.SpawnVelErr,
		}
	} else {
		spawned = &Actor{ActorID: w.nextID, ActorKind: w.SpawnKind, Pose: at}
	}
	w.Spawned = append(w.Spawned, spawned)
	return spawned, nil
}

// Map is a fake sim.Map.
type Map struct {
	w *World
}

var _ sim.Map = (*Map)(nil)

func (m *Map) Name() string {
	return m.w.MapName
}

func (m *Map) RecommendedSpawnPoints() ([]geom.Transform, error) {
	if m.w.SpawnPtsErr != nil {
		return nil, m.w.SpawnPtsErr
	}
	return m.w.SpawnPoints, nil
}

// Library is a fake sim.BlueprintLibrary over the world's blueprint ids.
type Library struct {
	w *World
}

var _ sim.BlueprintLibrary = (*Library)(nil)

func (l *Library) Find(id string) (sim.Blueprint, error) {
	for _, have := range l.w.BlueprintIDs {
		if have == id {
			return Blueprint(id), nil
		}
	}
	return nil, sim.ErrBlueprintNotFound
}

func (l *Library) Filter(pattern string) ([]sim.Blueprint, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var out []sim.Blueprint
	for _, have := range l.w.BlueprintIDs {
		if strings.HasPrefix(have, prefix) {
			out = append(out, Blueprint(have))
		}
	}
	return out, nil
}

// Blueprint is a fake sim.Blueprint.
type Blueprint string

var _ sim.Blueprint = Blueprint("")

func (b Blueprint) ID() string {
	return string(b)
}
