// Package geo projects telemetry positions from the simulator's local
// metric frame into real-world coordinate systems for export. The loaded map
// carries a geodetic datum (the lat/lon of the world origin); positions are
// offset from that origin in EPSG:3857 meters.
package geo

import (
	"errors"

	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/simdrive/driveclient/internal/geom"
)

// ErrDegenerateTrack is returned when a track has too few points to form a line.
var ErrDegenerateTrack = errors.New("track needs at least 2 points")

// Projector converts world-frame locations to projected coordinates.
// The zero value projects against a datum at lat/lon (0, 0).
type Projector struct {
	originX float64 // EPSG:3857 easting of the world origin
	originY float64 // EPSG:3857 northing of the world origin
}

// NewProjector builds a projector for a map whose world origin sits at the
// given geodetic coordinates.
func NewProjector(originLat, originLon float64) Projector {
	epsg := wgs84.EPSG()
	toMercator := epsg.Transform(4326, 3857)
	x, y, _ := toMercator(originLon, originLat, 0)
	return Projector{originX: x, originY: y}
}

// ToWebMercator returns the EPSG:3857 point for a world-frame location.
// World-frame meters are treated as mercator meters at the datum, which is
// accurate enough at the scale of a single map.
func (p Projector) ToWebMercator(loc geom.Location) sf.Point {
	return sf.NewPoint(sf.Coordinates{
		XY:   sf.XY{X: p.originX + float64(loc.X), Y: p.originY + float64(loc.Y)},
		Z:    float64(loc.Z),
		Type: sf.DimXYZ,
	})
}

// ToLonLat returns the EPSG:4326 longitude and latitude for a world-frame
// location.
func (p Projector) ToLonLat(loc geom.Location) (lon, lat float64) {
	epsg := wgs84.EPSG()
	toGeodetic := epsg.Transform(3857, 4326)
	lon, lat, _ = toGeodetic(p.originX+float64(loc.X), p.originY+float64(loc.Y), 0)
	return lon, lat
}
