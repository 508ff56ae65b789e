package simws

import (
	"encoding/json"
	"fmt"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
	"github.com/simdrive/driveclient/pkg/wire"
)

// world is the RPC-backed sim.World handle.
type world struct {
	c  *Client
	id uint64
}

var _ sim.World = (*world)(nil)

func (w *world) Map() (sim.Map, error) {
	raw, err := w.c.conn.call(wire.MethodGetMap, nil)
	if err != nil {
		return nil, err
	}
	var info wire.MapInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode map info: %w", err)
	}
	return &mapHandle{c: w.c, name: info.Name}, nil
}

func (w *world) BlueprintLibrary() (sim.BlueprintLibrary, error) {
	return &library{c: w.c}, nil
}

func (w *world) Spectator() (sim.Actor, error) {
	raw, err := w.c.conn.call(wire.MethodGetSpectator, nil)
	if err != nil {
		return nil, err
	}
	var info wire.ActorInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode spectator info: %w", err)
	}
	return newActor(w.c, info), nil
}

func (w *world) SpawnActor(bp sim.Blueprint, at geom.Transform) (sim.Actor, error) {
	raw, err := w.c.conn.call(wire.MethodSpawnActor, wire.SpawnRequest{
		BlueprintID: bp.ID(),
		Transform:   at,
	})
	if err != nil {
		return nil, err
	}
	var info wire.ActorInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode spawned actor info: %w", err)
	}
	return newActor(w.c, info), nil
}

// mapHandle is the RPC-backed sim.Map handle.
type mapHandle struct {
	c    *Client
	name string
}

var _ sim.Map = (*mapHandle)(nil)

func (m *mapHandle) Name() string {
	return m.name
}

func (m *mapHandle) RecommendedSpawnPoints() ([]geom.Transform, error) {
	raw, err := m.c.conn.call(wire.MethodGetSpawnPoints, nil)
	if err != nil {
		return nil, err
	}
	var payload wire.SpawnPointsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode spawn points: %w", err)
	}
	return payload.SpawnPoints, nil
}

// library is the RPC-backed sim.BlueprintLibrary handle.
type library struct {
	c *Client
}

var _ sim.BlueprintLibrary = (*library)(nil)

func (l *library) Find(id string) (sim.Blueprint, error) {
	raw, err := l.c.conn.call(wire.MethodFindBlueprint, wire.BlueprintQuery{ID: id})
	if err != nil {
		return nil, err
	}
	var payload wire.BlueprintsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode blueprints: %w", err)
	}
	if len(payload.IDs) == 0 {
		return nil, fmt.Errorf("%q: %w", id, sim.ErrBlueprintNotFound)
	}
	return blueprint{id: payload.IDs[0]}, nil
}

func (l *library) Filter(pattern string) ([]sim.Blueprint, error) {
	raw, err := l.c.conn.call(wire.MethodFilterBlueprints, wire.BlueprintQuery{Pattern: pattern})
	if err != nil {
		return nil, err
	}
	var payload wire.BlueprintsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode blueprints: %w", err)
	}
	bps := make([]sim.Blueprint, 0, len(payload.IDs))
	for _, id := range payload.IDs {
		bps = append(bps, blueprint{id: id})
	}
	return bps, nil
}

// blueprint is a server-resolved blueprint id.
type blueprint struct {
	id string
}

var _ sim.Blueprint = blueprint{}

func (b blueprint) ID() string {
	return b.id
}
