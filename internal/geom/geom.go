// Package geom holds the client-side view of the simulator's geometric
// primitives. Units follow the server: meters for locations, degrees for
// rotations, m/s for velocities.
package geom

import "math"

// Location is a point in the server world frame, in meters.
type Location struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Rotation is an orientation in degrees.
type Rotation struct {
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
	Roll  float32 `json:"roll"`
}

// Vector3 is a free 3-vector. Velocities are expressed in m/s.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Add returns v + other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Transform pairs a location with an orientation.
type Transform struct {
	Location Location `json:"location"`
	Rotation Rotation `json:"rotation"`
}

// ForwardVector returns the unit vector along the transform's local +X axis
// in world coordinates, derived from yaw and pitch.
func (t Transform) ForwardVector() Vector3 {
	pitch := degToRad(t.Rotation.Pitch)
	yaw := degToRad(t.Rotation.Yaw)
	cp := math.Cos(pitch)
	return Vector3{
		X: float32(cp * math.Cos(yaw)),
		Y: float32(cp * math.Sin(yaw)),
		Z: float32(math.Sin(pitch)),
	}
}

// Shift returns a copy of l translated by v.
func (l Location) Shift(v Vector3) Location {
	return Location{l.X + v.X, l.Y + v.Y, l.Z + v.Z}
}

// SpeedKmh converts a velocity in m/s to scalar speed in km/h.
func SpeedKmh(velocity Vector3) float32 {
	return velocity.Length() * 3.6
}

func degToRad(deg float32) float64 {
	return float64(deg) * math.Pi / 180.0
}
