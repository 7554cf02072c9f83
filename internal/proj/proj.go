// Package proj converts geographic coordinates to a local metric plane.
//
// The projection is an equirectangular approximation anchored at a fixed
// origin: good to well under a percent of error for areas a few kilometers
// across, which is the working range of this tool. It is not a general map
// projection.
package proj

import (
	"math"

	"github.com/paulmach/orb"
)

// MetersPerDegreeLat is the approximate north-south length of one degree of
// latitude, treated as constant.
const MetersPerDegreeLat = 111320.0

// MetersPerDegreeLon returns the east-west length of one degree of longitude
// at the given latitude.
func MetersPerDegreeLon(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*math.Pi/180.0)
}

// Local projects lon/lat pairs to meters relative to a fixed origin.
type Local struct {
	OriginLon float64
	OriginLat float64
}

// NewLocal creates a projection anchored at the given origin point
// (longitude, latitude).
func NewLocal(origin orb.Point) Local {
	return Local{OriginLon: origin.Lon(), OriginLat: origin.Lat()}
}

// ToXY converts a geographic coordinate to local meters. The longitude scale
// is evaluated at the midpoint latitude between the point and the origin to
// keep distortion low across the working area.
func (p Local) ToXY(lon, lat float64) (x, y float64) {
	midLat := (lat + p.OriginLat) * 0.5
	x = (lon - p.OriginLon) * MetersPerDegreeLon(midLat)
	y = (lat - p.OriginLat) * MetersPerDegreeLat
	return x, y
}

// Point projects an orb.Point (lon, lat) to local metric coordinates.
func (p Local) Point(pt orb.Point) orb.Point {
	x, y := p.ToXY(pt.Lon(), pt.Lat())
	return orb.Point{x, y}
}

// LineString projects every vertex of a line string, returning a new one.
func (p Local) LineString(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		out[i] = p.Point(pt)
	}
	return out
}
