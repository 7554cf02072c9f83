package overpass

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Kind identifies a feature kind fetched with its own query.
type Kind string

const (
	KindBuildings Kind = "buildings"
	KindRoads     Kind = "roads"
	KindGreens    Kind = "greens"
)

// Kinds lists the feature kinds in fetch order.
var Kinds = []Kind{KindBuildings, KindRoads, KindGreens}

// Polygonal reports whether features of this kind carry polygon geometry
// (closed outlines) as opposed to polyline centerlines.
func (k Kind) Polygonal() bool {
	return k != KindRoads
}

// Feature is one vector feature returned by the query service: an ordered
// lon/lat vertex sequence plus free-form tags.
type Feature struct {
	ID       int64
	Kind     Kind
	Tags     osm.Tags
	Geometry orb.LineString // ordered (lon, lat) vertices
}

// Bound returns the geographic bounding box of the feature's geometry.
func (f *Feature) Bound() orb.Bound {
	return f.Geometry.Bound()
}

// FeatureSet groups the fetched features by kind.
type FeatureSet struct {
	Buildings []Feature
	Roads     []Feature
	Greens    []Feature
}

// Len returns the total number of features across all kinds.
func (s *FeatureSet) Len() int {
	return len(s.Buildings) + len(s.Roads) + len(s.Greens)
}

// response mirrors the JSON shape of an Overpass "out geom" reply.
type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type     string     `json:"type"`
	ID       int64      `json:"id"`
	Tags     osm.Tags   `json:"tags,omitempty"`
	Geometry []geomNode `json:"geometry,omitempty"`
}

type geomNode struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// feature converts a raw element to a Feature, or returns false if the
// element carries no inline geometry.
func (e *element) feature(kind Kind) (Feature, bool) {
	if len(e.Geometry) == 0 {
		return Feature{}, false
	}
	geom := make(orb.LineString, len(e.Geometry))
	for i, g := range e.Geometry {
		geom[i] = orb.Point{g.Lon, g.Lat}
	}
	return Feature{
		ID:       e.ID,
		Kind:     kind,
		Tags:     e.Tags,
		Geometry: geom,
	}, true
}
