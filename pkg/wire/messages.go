// Package wire defines the JSON messages exchanged with the simulation
// server. Every message travels inside an Envelope; requests carry a
// correlation id that the server echoes on the matching response.
package wire

import (
	"encoding/json"

	"github.com/simdrive/driveclient/internal/geom"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Method name constants for request envelopes.
const (
	MethodGetWorld         = "get_world"
	MethodGetMap           = "get_map"
	MethodGetSpawnPoints   = "get_spawn_points"
	MethodFindBlueprint    = "find_blueprint"
	MethodFilterBlueprints = "filter_blueprints"
	MethodGetSpectator     = "get_spectator"
	MethodSpawnActor       = "spawn_actor"
	MethodGetTransform     = "get_transform"
	MethodGetLocation      = "get_location"
	MethodSetTransform     = "set_transform"
	MethodGetVelocity      = "get_velocity"
	MethodApplyControl     = "apply_control"
)

// Response type constants.
const (
	TypeResult = "result"
	TypeError  = "error"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	ID      uint64          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload carries a server-side failure description.
type ErrorPayload struct {
	Message string `json:"message"`
}

// WorldInfo describes the loaded world.
type WorldInfo struct {
	WorldID uint64 `json:"world_id"`
}

// MapInfo describes the loaded map.
type MapInfo struct {
	Name string `json:"name"`
}

// SpawnPointsPayload lists the map's recommended spawn transforms.
type SpawnPointsPayload struct {
	SpawnPoints []geom.Transform `json:"spawn_points"`
}

// BlueprintQuery requests an exact or wildcard blueprint lookup.
type BlueprintQuery struct {
	ID      string `json:"id,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// BlueprintsPayload lists matching blueprint ids.
type BlueprintsPayload struct {
	IDs []string `json:"ids"`
}

// SpawnRequest asks the server to spawn an actor from a blueprint.
type SpawnRequest struct {
	BlueprintID string         `json:"blueprint_id"`
	Transform   geom.Transform `json:"transform"`
}

// ActorInfo identifies a server-side actor and its capability kind.
type ActorInfo struct {
	ActorID uint32        `json:"actor_id"`
	Kind    sim.ActorKind `json:"kind"`
}

// ActorRef addresses an existing actor in a request.
type ActorRef struct {
	ActorID uint32 `json:"actor_id"`
}

// TransformPayload carries an actor transform read or write.
type TransformPayload struct {
	ActorID   uint32         `json:"actor_id"`
	Transform geom.Transform `json:"transform"`
}

// LocationPayload carries an actor location read.
type LocationPayload struct {
	ActorID  uint32        `json:"actor_id"`
	Location geom.Location `json:"location"`
}

// VelocityPayload carries an actor velocity read, in m/s.
type VelocityPayload struct {
	ActorID  uint32       `json:"actor_id"`
	Velocity geom.Vector3 `json:"velocity"`
}

// ControlRequest applies a control triple to a vehicle actor.
type ControlRequest struct {
	ActorID uint32             `json:"actor_id"`
	Control sim.VehicleControl `json:"control"`
}
