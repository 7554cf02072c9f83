// Package sample converts raw vector features into labeled metric-space
// point clouds: polygon interiors become vertical volumes, road centerlines
// become thin surface ribbons, and a sparse ground lattice guarantees
// terrain coverage across the whole bounding box.
package sample

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/events"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/overpass"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
	"github.com/wegman-software/voxcity-go/internal/proj"
	"github.com/wegman-software/voxcity-go/internal/sources"
)

// Road points are emitted at two fixed heights to form a thin surface ribbon
// rather than a solid volume.
const roadTopZ = 0.5

// Terrain lattice spacing is never finer than this, regardless of step.
const minTerrainSpacing = 10.0

// InvalidGeometryError means a feature has fewer vertices than its kind
// requires (3 for polygons, 2 for polylines). Such features are skipped.
type InvalidGeometryError struct {
	Kind     overpass.Kind
	Vertices int
}

func (e *InvalidGeometryError) Error() string {
	min := 2
	if e.Kind.Polygonal() {
		min = 3
	}
	return fmt.Sprintf("invalid %s geometry: %d vertices (need at least %d)",
		e.Kind, e.Vertices, min)
}

// Params controls sampling density.
type Params struct {
	// XYStep is the horizontal lattice step in meters.
	XYStep float64
	// ZStep is the vertical replication step in meters. It also sets the
	// terrain lattice spacing (clamped to at least 10 m).
	ZStep float64
}

// DefaultParams derives sampling steps from the voxel size: the lattice is
// twice as fine as the grid so footprint cells see several points, and
// vertical bands match the grid layers.
func DefaultParams(voxelSize float64) Params {
	return Params{
		XYStep: voxelSize * 0.5,
		ZStep:  voxelSize,
	}
}

// Sampler converts features to labeled points for one bounding box. The
// projection origin is fixed at the box's minimum corner.
type Sampler struct {
	bbox    config.BBox
	proj    proj.Local
	tables  *sources.Config
	params  Params
	sink    events.Sink
	log     *zap.Logger
	skipped int
}

// New creates a sampler for the bounding box.
func New(bbox config.BBox, tables *sources.Config, params Params) *Sampler {
	return &Sampler{
		bbox:   bbox,
		proj:   proj.NewLocal(orb.Point{bbox.MinLon, bbox.MinLat}),
		tables: tables,
		params: params,
		sink:   events.Nop{},
		log:    logger.Get(),
	}
}

// WithSink sets the progress event sink.
func (s *Sampler) WithSink(sink events.Sink) *Sampler {
	if sink != nil {
		s.sink = sink
	}
	return s
}

// Skipped returns the number of features dropped for invalid geometry during
// the last Sample call.
func (s *Sampler) Skipped() int {
	return s.skipped
}

// Sample converts a feature set into a labeled point cloud. Features whose
// bounds do not intersect the bounding box are culled up front; features with
// too few vertices are skipped. The terrain lattice is always emitted, so the
// result is non-empty even for an empty feature set.
func (s *Sampler) Sample(set *overpass.FeatureSet) *pointcloud.Cloud {
	s.skipped = 0
	cloud := pointcloud.New(1024)

	buildings := cullToBound(set.Buildings, s.bbox)
	roads := cullToBound(set.Roads, s.bbox)
	greens := cullToBound(set.Greens, s.bbox)
	total := len(buildings) + len(roads) + len(greens)
	done := 0

	for i := range buildings {
		s.samplePolygon(&buildings[i], category.Building, s.buildingHeight(buildings[i].Tags), cloud)
		done++
		s.sink.SamplingProgress(done, total)
	}
	for i := range roads {
		s.sampleRoad(&roads[i], cloud)
		done++
		s.sink.SamplingProgress(done, total)
	}
	for i := range greens {
		s.samplePolygon(&greens[i], category.Vegetation, s.tables.Defaults.CanopyHeight, cloud)
		done++
		s.sink.SamplingProgress(done, total)
	}

	s.sampleTerrain(cloud)

	if s.skipped > 0 {
		s.log.Debug("Skipped features with invalid geometry", zap.Int("count", s.skipped))
	}
	return cloud
}

// samplePolygon emits interior lattice points replicated vertically up to the
// feature height.
func (s *Sampler) samplePolygon(f *overpass.Feature, label category.Category, height float64, cloud *pointcloud.Cloud) {
	if len(f.Geometry) < 3 {
		s.skip(&InvalidGeometryError{Kind: f.Kind, Vertices: len(f.Geometry)}, f.ID)
		return
	}

	poly := closeRing(s.proj.LineString(f.Geometry))
	base := polygonLattice(poly, s.params.XYStep)
	if len(base) == 0 {
		return
	}
	zs := zBands(height, s.params.ZStep)
	for _, p := range base {
		for _, z := range zs {
			cloud.Append(r3.Vec{X: p[0], Y: p[1], Z: z}, label)
		}
	}
}

// sampleRoad emits perpendicular stripe points along the centerline at the
// two fixed ribbon heights.
func (s *Sampler) sampleRoad(f *overpass.Feature, cloud *pointcloud.Cloud) {
	if len(f.Geometry) < 2 {
		s.skip(&InvalidGeometryError{Kind: f.Kind, Vertices: len(f.Geometry)}, f.ID)
		return
	}

	line := s.proj.LineString(f.Geometry)
	width := s.roadWidth(f.Tags)
	for _, p := range polylineStripes(line, s.params.XYStep, width) {
		cloud.Append(r3.Vec{X: p[0], Y: p[1], Z: 0}, category.Road)
		if s.params.ZStep >= roadTopZ {
			cloud.Append(r3.Vec{X: p[0], Y: p[1], Z: roadTopZ}, category.Road)
		}
	}
}

// sampleTerrain emits a sparse regular ground lattice spanning the full
// bounding box at z = 0, so the grid always has ground-plane coverage even
// over areas with no vector features.
func (s *Sampler) sampleTerrain(cloud *pointcloud.Cloud) {
	midLat := (s.bbox.MinLat + s.bbox.MaxLat) * 0.5
	widthM := (s.bbox.MaxLon - s.bbox.MinLon) * proj.MetersPerDegreeLon(midLat)
	heightM := (s.bbox.MaxLat - s.bbox.MinLat) * proj.MetersPerDegreeLat

	spacing := math.Max(s.params.ZStep, minTerrainSpacing)
	nx := int(widthM/spacing) + 1
	ny := int(heightM/spacing) + 1

	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			lon := s.bbox.MinLon + frac(ix, nx)*(s.bbox.MaxLon-s.bbox.MinLon)
			lat := s.bbox.MinLat + frac(iy, ny)*(s.bbox.MaxLat-s.bbox.MinLat)
			x, y := s.proj.ToXY(lon, lat)
			cloud.Append(r3.Vec{X: x, Y: y, Z: 0}, category.Terrain)
		}
	}
}

// frac maps lattice index i of n to [0, 1].
func frac(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func (s *Sampler) skip(err *InvalidGeometryError, id int64) {
	s.skipped++
	s.log.Debug("Skipping feature", zap.Int64("id", id), zap.Error(err))
}

func (s *Sampler) warnTag(err error) {
	s.log.Warn("Malformed tag value, using fallback", zap.Error(err))
}
