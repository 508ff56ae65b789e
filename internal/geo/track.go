package geo

import (
	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/simdrive/driveclient/internal/geom"
)

// Track accumulates the vehicle's driven path in the world frame.
type Track struct {
	coords []float64 // flat XY sequence
}

// Append adds a sampled location to the track.
func (t *Track) Append(loc geom.Location) {
	t.coords = append(t.coords, float64(loc.X), float64(loc.Y))
}

// Points returns the number of appended locations.
func (t *Track) Points() int {
	return len(t.coords) / 2
}

// LineString builds the driven path as a geometry.
func (t *Track) LineString() (sf.LineString, error) {
	if t.Points() < 2 {
		return sf.LineString{}, ErrDegenerateTrack
	}
	seq := sf.NewSequence(t.coords, sf.DimXY)
	return sf.NewLineString(seq), nil
}

// Length returns the planar length of the driven path in meters.
// A track with fewer than 2 points has length 0.
func (t *Track) Length() float64 {
	ls, err := t.LineString()
	if err != nil {
		return 0
	}
	return ls.Length()
}
