// Package voxel aggregates labeled point clouds into regular 3D grids:
// either per-cell occupancy counts, or category-labeled solid grids built by
// 2D footprint aggregation and vertical extrusion.
package voxel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
)

// Empty marks a grid cell holding no category (void space).
const Empty int8 = -1

// ShapeMismatchError means voxelization inputs have inconsistent lengths.
// This is a precondition violation and fails before any aggregation work.
type ShapeMismatchError struct {
	Points int
	Labels int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %d points vs %d labels", e.Points, e.Labels)
}

// Bounds is an axis-aligned metric-space box.
type Bounds struct {
	Min, Max r3.Vec
}

// Grid is a dense categorical voxel grid. Cells hold Empty or a category id;
// cell (ix, iy, iz) covers the metric cube starting at
// Origin + (ix, iy, iz) * Size.
type Grid struct {
	Cells      []int8
	NX, NY, NZ int
	Origin     r3.Vec
	Size       r3.Vec
}

// NewGrid allocates a grid of the given shape with all cells Empty.
func NewGrid(nx, ny, nz int, origin, size r3.Vec) *Grid {
	cells := make([]int8, nx*ny*nz)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{Cells: cells, NX: nx, NY: ny, NZ: nz, Origin: origin, Size: size}
}

// Index linearizes a cell coordinate.
func (g *Grid) Index(ix, iy, iz int) int {
	return (ix*g.NY+iy)*g.NZ + iz
}

// InBounds reports whether the cell coordinate is inside the grid.
func (g *Grid) InBounds(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.NX && iy >= 0 && iy < g.NY && iz >= 0 && iz < g.NZ
}

// At returns the cell value, or Empty for out-of-grid coordinates.
func (g *Grid) At(ix, iy, iz int) int8 {
	if !g.InBounds(ix, iy, iz) {
		return Empty
	}
	return g.Cells[g.Index(ix, iy, iz)]
}

// Set stores a cell value.
func (g *Grid) Set(ix, iy, iz int, v int8) {
	g.Cells[g.Index(ix, iy, iz)] = v
}

// Center returns the metric-space center of a cell.
func (g *Grid) Center(ix, iy, iz int) r3.Vec {
	return r3.Vec{
		X: g.Origin.X + (float64(ix)+0.5)*g.Size.X,
		Y: g.Origin.Y + (float64(iy)+0.5)*g.Size.Y,
		Z: g.Origin.Z + (float64(iz)+0.5)*g.Size.Z,
	}
}

// Categories returns the per-category cell counts, ignoring Empty cells.
func (g *Grid) Categories() map[category.Category]int {
	counts := make(map[category.Category]int, category.Count)
	for _, c := range g.Cells {
		if c != Empty {
			counts[category.Category(c)]++
		}
	}
	return counts
}

// CountGrid is a dense occupancy-count grid. Category information is
// discarded; this is a pure density field.
type CountGrid struct {
	Counts     []int32
	NX, NY, NZ int
	Origin     r3.Vec
	Size       r3.Vec
}

// Index linearizes a cell coordinate.
func (g *CountGrid) Index(ix, iy, iz int) int {
	return (ix*g.NY+iy)*g.NZ + iz
}

// At returns the count for a cell, or 0 for out-of-grid coordinates.
func (g *CountGrid) At(ix, iy, iz int) int32 {
	if ix < 0 || ix >= g.NX || iy < 0 || iy >= g.NY || iz < 0 || iz >= g.NZ {
		return 0
	}
	return g.Counts[g.Index(ix, iy, iz)]
}

// Center returns the metric-space center of a cell.
func (g *CountGrid) Center(ix, iy, iz int) r3.Vec {
	return r3.Vec{
		X: g.Origin.X + (float64(ix)+0.5)*g.Size.X,
		Y: g.Origin.Y + (float64(iy)+0.5)*g.Size.Y,
		Z: g.Origin.Z + (float64(iz)+0.5)*g.Size.Z,
	}
}

// axisCells converts an extent to a cell count: ceil(extent/size), clamped to
// at least one cell so degenerate bounds still produce a valid grid.
func axisCells(min, max, size float64) int {
	n := int(math.Ceil((max - min) / size))
	if n < 1 {
		n = 1
	}
	return n
}

// cellIndex maps a coordinate to a cell index clipped to [0, n).
func cellIndex(v, origin, size float64, n int) int {
	i := int(math.Floor((v - origin) / size))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}
