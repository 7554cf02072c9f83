package voxel

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
)

// ErrEmptyCloud means there are no points to derive grid bounds from.
var ErrEmptyCloud = errors.New("empty point cloud")

// Count maps every point to a voxel and accumulates occupancy counts per
// cell. Bounds may be nil, in which case they are computed from the data.
func Count(cloud *pointcloud.Cloud, size r3.Vec, bounds *Bounds) (*CountGrid, error) {
	if len(cloud.Points) != len(cloud.Labels) {
		return nil, &ShapeMismatchError{Points: len(cloud.Points), Labels: len(cloud.Labels)}
	}

	b, err := resolveBounds(cloud, bounds)
	if err != nil {
		return nil, err
	}

	nx := axisCells(b.Min.X, b.Max.X, size.X)
	ny := axisCells(b.Min.Y, b.Max.Y, size.Y)
	nz := axisCells(b.Min.Z, b.Max.Z, size.Z)

	grid := &CountGrid{
		Counts: make([]int32, nx*ny*nz),
		NX:     nx, NY: ny, NZ: nz,
		Origin: b.Min,
		Size:   size,
	}

	for _, p := range cloud.Points {
		ix := cellIndex(p.X, b.Min.X, size.X, nx)
		iy := cellIndex(p.Y, b.Min.Y, size.Y, ny)
		iz := cellIndex(p.Z, b.Min.Z, size.Z, nz)
		grid.Counts[grid.Index(ix, iy, iz)]++
	}
	return grid, nil
}

// footprintCell accumulates per-column statistics during 2D aggregation: how
// often each label was seen and the highest z observed.
type footprintCell struct {
	counts   [category.Count]int32
	maxZ     float64
	occupied bool
}

// dominant returns the most frequent label; ties resolve to the lowest
// category id.
func (c *footprintCell) dominant() category.Category {
	best := category.Terrain
	for cat := category.Category(1); cat < category.Count; cat++ {
		if c.counts[cat] > c.counts[best] {
			best = cat
		}
	}
	return best
}

// Solid builds a category-labeled solid grid: points are aggregated into a
// 2D footprint (dominant label and max z per column), the lowest layer is
// initialized to terrain, and each occupied column is extruded upward with
// its dominant category.
func Solid(cloud *pointcloud.Cloud, size r3.Vec) (*Grid, error) {
	if len(cloud.Points) != len(cloud.Labels) {
		return nil, &ShapeMismatchError{Points: len(cloud.Points), Labels: len(cloud.Labels)}
	}

	b, err := resolveBounds(cloud, nil)
	if err != nil {
		return nil, err
	}

	nx := axisCells(b.Min.X, b.Max.X, size.X)
	ny := axisCells(b.Min.Y, b.Max.Y, size.Y)

	// 2D footprint aggregation over a dense accumulator array. Columns are
	// revisited by many points, so this pass dominates runtime; linearized
	// indexing keeps it cheap.
	cells := make([]footprintCell, nx*ny)
	for i, p := range cloud.Points {
		ix := cellIndex(p.X, b.Min.X, size.X, nx)
		iy := cellIndex(p.Y, b.Min.Y, size.Y, ny)
		cell := &cells[ix*ny+iy]
		label := cloud.Labels[i]
		if label.Valid() {
			cell.counts[label]++
		}
		if !cell.occupied || p.Z > cell.maxZ {
			cell.maxZ = p.Z
		}
		cell.occupied = true
	}

	nz := axisCells(b.Min.Z, b.Max.Z, size.Z)
	grid := NewGrid(nx, ny, nz, b.Min, size)

	// Continuous ground plane: the lowest layer defaults to terrain even
	// where no terrain point was sampled.
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			grid.Set(ix, iy, 0, int8(category.Terrain))
		}
	}

	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			cell := &cells[ix*ny+iy]
			if !cell.occupied {
				continue
			}
			layers := int(math.Ceil((cell.maxZ - b.Min.Z) / size.Z))
			if layers < 1 {
				layers = 1
			}
			if layers > nz {
				layers = nz
			}
			dom := int8(cell.dominant())
			for iz := 0; iz < layers; iz++ {
				grid.Set(ix, iy, iz, dom)
			}
		}
	}

	return grid, nil
}

// resolveBounds picks explicit bounds or computes them from the cloud, then
// clamps zero extents so even degenerate input yields a one-voxel axis.
func resolveBounds(cloud *pointcloud.Cloud, bounds *Bounds) (Bounds, error) {
	var b Bounds
	if bounds != nil {
		b = *bounds
	} else {
		min, max, ok := cloud.Bounds()
		if !ok {
			return Bounds{}, ErrEmptyCloud
		}
		b = Bounds{Min: min, Max: max}
	}
	return b, nil
}
