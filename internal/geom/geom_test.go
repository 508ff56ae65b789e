package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardVector(t *testing.T) {
	tests := []struct {
		name string
		rot  Rotation
		want Vector3
	}{
		{name: "identity faces +X", rot: Rotation{}, want: Vector3{X: 1}},
		{name: "yaw 90 faces +Y", rot: Rotation{Yaw: 90}, want: Vector3{Y: 1}},
		{name: "yaw 180 faces -X", rot: Rotation{Yaw: 180}, want: Vector3{X: -1}},
		{name: "pitch 90 faces up", rot: Rotation{Pitch: 90}, want: Vector3{Z: 1}},
		{
			name: "pitch 45 tilts the heading",
			rot:  Rotation{Pitch: 45},
			want: Vector3{X: float32(math.Sqrt2 / 2), Z: float32(math.Sqrt2 / 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform{Rotation: tt.rot}.ForwardVector()
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
			assert.InDelta(t, 1, got.Length(), 1e-6, "forward vector must be unit length")
		})
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: -2, Z: 1}

	assert.Equal(t, Vector3{X: 5, Y: 0, Z: 4}, a.Add(b))
	assert.Equal(t, Vector3{X: -3, Y: 4, Z: 2}, a.Sub(b))
	assert.Equal(t, Vector3{X: 2, Y: 4, Z: 6}, a.Scale(2))
}

func TestVectorLength(t *testing.T) {
	assert.InDelta(t, 5, Vector3{X: 3, Y: 4}.Length(), 1e-6)
	assert.InDelta(t, 0, Vector3{}.Length(), 1e-9)
}

func TestLocationShift(t *testing.T) {
	loc := Location{X: 10, Y: 20, Z: 1}
	got := loc.Shift(Vector3{X: -7, Z: 3})
	assert.Equal(t, Location{X: 3, Y: 20, Z: 4}, got)
}

func TestSpeedKmh(t *testing.T) {
	// 5 m/s = 18 km/h
	assert.InDelta(t, 18, SpeedKmh(Vector3{X: 3, Y: 4}), 1e-4)
	assert.InDelta(t, 0, SpeedKmh(Vector3{}), 1e-9)
	// Vertical motion counts too.
	assert.InDelta(t, 3.6, SpeedKmh(Vector3{Z: 1}), 1e-4)
}
