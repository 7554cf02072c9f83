package voxel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
)

func vec(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

func TestAxisCells(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		size     float64
		want     int
	}{
		{"exact multiple", 0, 10, 2, 5},
		{"partial voxel rounds up", 0, 10.5, 2, 6},
		{"degenerate extent clamps to one", 3, 3, 2, 1},
		{"sub-voxel extent", 0, 0.5, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := axisCells(tt.min, tt.max, tt.size); got != tt.want {
				t.Errorf("axisCells(%f, %f, %f) = %d, want %d", tt.min, tt.max, tt.size, got, tt.want)
			}
		})
	}
}

func TestCellIndex(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want int
	}{
		{"interior", 3.1, 1},
		{"cell boundary", 2.0, 1},
		{"below origin clips to zero", -5, 0},
		{"max coordinate clips to last", 10, 4},
		{"beyond max clips to last", 99, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellIndex(tt.v, 0, 2, 5); got != tt.want {
				t.Errorf("cellIndex(%f) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestCountAggregation(t *testing.T) {
	cloud := pointcloud.New(4)
	cloud.Append(vec(0.5, 0.5, 0.5), category.Terrain)
	cloud.Append(vec(0.9, 0.1, 0.3), category.Terrain)
	cloud.Append(vec(3.5, 0.5, 0.5), category.Building)

	grid, err := Count(cloud, vec(2, 2, 2), &Bounds{Min: vec(0, 0, 0), Max: vec(4, 2, 2)})
	require.NoError(t, err)

	require.Equal(t, 2, grid.NX)
	require.Equal(t, 1, grid.NY)
	require.Equal(t, 1, grid.NZ)
	require.Equal(t, int32(2), grid.At(0, 0, 0))
	require.Equal(t, int32(1), grid.At(1, 0, 0))

	// Out-of-grid reads are zero, not a panic.
	require.Equal(t, int32(0), grid.At(5, 0, 0))
	require.Equal(t, int32(0), grid.At(-1, 0, 0))
}

func TestCountDerivedBounds(t *testing.T) {
	cloud := pointcloud.New(2)
	cloud.Append(vec(10, 10, 0), category.Terrain)
	cloud.Append(vec(14, 13, 9), category.Building)

	grid, err := Count(cloud, vec(2, 2, 2), nil)
	require.NoError(t, err)

	require.Equal(t, vec(10, 10, 0), grid.Origin)
	require.Equal(t, 2, grid.NX)
	require.Equal(t, 2, grid.NY)
	require.Equal(t, 5, grid.NZ)

	var total int32
	for _, c := range grid.Counts {
		total += c
	}
	require.Equal(t, int32(2), total)
}

func TestCountEmptyCloud(t *testing.T) {
	_, err := Count(pointcloud.New(0), vec(2, 2, 2), nil)
	require.ErrorIs(t, err, ErrEmptyCloud)
}

func TestCountShapeMismatch(t *testing.T) {
	cloud := &pointcloud.Cloud{
		Points: []r3.Vec{vec(0, 0, 0)},
		Labels: nil,
	}
	_, err := Count(cloud, vec(2, 2, 2), nil)

	var mismatch *ShapeMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 1, mismatch.Points)
	require.Equal(t, 0, mismatch.Labels)
}

func TestDominantLabel(t *testing.T) {
	tests := []struct {
		name   string
		counts [category.Count]int32
		want   category.Category
	}{
		{"clear majority", [category.Count]int32{1, 5, 2, 0}, category.Building},
		{"tie resolves to lowest id", [category.Count]int32{3, 3, 0, 0}, category.Terrain},
		{"vegetation wins", [category.Count]int32{0, 0, 1, 4}, category.Vegetation},
		{"all zero", [category.Count]int32{}, category.Terrain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := footprintCell{counts: tt.counts}
			if got := c.dominant(); got != tt.want {
				t.Errorf("dominant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolidExtrusion(t *testing.T) {
	// One building column 9 m tall next to flat terrain, 2 m voxels.
	cloud := pointcloud.New(16)
	for _, z := range []float64{0, 2, 4, 6, 8} {
		cloud.Append(vec(0.5, 0.5, z), category.Building)
	}
	cloud.Append(vec(0.5, 0.5, 9), category.Building) // pins max z
	cloud.Append(vec(4.5, 0.5, 0), category.Terrain)
	cloud.Append(vec(0.5, 4.5, 0), category.Terrain)
	cloud.Append(vec(4.5, 4.5, 0), category.Terrain)

	grid, err := Solid(cloud, vec(2, 2, 2))
	require.NoError(t, err)

	require.Equal(t, 2, grid.NX)
	require.Equal(t, 2, grid.NY)
	require.Equal(t, 5, grid.NZ)

	// Building column fills ceil(9/2) = 5 layers.
	for iz := 0; iz < 5; iz++ {
		require.Equal(t, int8(category.Building), grid.At(0, 0, iz), "building layer %d", iz)
	}

	// Terrain columns occupy exactly the base layer.
	require.Equal(t, int8(category.Terrain), grid.At(1, 0, 0))
	require.Equal(t, Empty, grid.At(1, 0, 1))
	require.Equal(t, int8(category.Terrain), grid.At(0, 1, 0))
	require.Equal(t, int8(category.Terrain), grid.At(1, 1, 0))
}

func TestSolidGroundPlaneCoversUnoccupiedColumns(t *testing.T) {
	// Two far corners leave interior columns without any sample point.
	cloud := pointcloud.New(2)
	cloud.Append(vec(1, 1, 0), category.Terrain)
	cloud.Append(vec(9, 9, 0), category.Terrain)

	grid, err := Solid(cloud, vec(2, 2, 2))
	require.NoError(t, err)

	require.Equal(t, 4, grid.NX)
	require.Equal(t, 4, grid.NY)
	require.Equal(t, 1, grid.NZ)

	for ix := 0; ix < grid.NX; ix++ {
		for iy := 0; iy < grid.NY; iy++ {
			require.Equal(t, int8(category.Terrain), grid.At(ix, iy, 0), "column (%d,%d)", ix, iy)
		}
	}
}

func TestSolidGroundLevelColumn(t *testing.T) {
	// A road column whose highest point is at z = 0 still fills one layer.
	cloud := pointcloud.New(4)
	cloud.Append(vec(1, 1, 0), category.Road)
	cloud.Append(vec(1, 1, 0.5), category.Road)
	cloud.Append(vec(1, 1, 0), category.Road)
	cloud.Append(vec(9, 9, 9), category.Building)

	grid, err := Solid(cloud, vec(2, 2, 2))
	require.NoError(t, err)

	require.Equal(t, int8(category.Road), grid.At(0, 0, 0))
	require.Equal(t, Empty, grid.At(0, 0, 1))
}

func TestSolidEmptyCloud(t *testing.T) {
	_, err := Solid(pointcloud.New(0), vec(2, 2, 2))
	require.ErrorIs(t, err, ErrEmptyCloud)
}

func TestGridCenterRoundTrip(t *testing.T) {
	g := NewGrid(4, 4, 4, vec(10, 20, 0), vec(2, 2, 2))

	for ix := 0; ix < 4; ix++ {
		for iy := 0; iy < 4; iy++ {
			for iz := 0; iz < 4; iz++ {
				c := g.Center(ix, iy, iz)
				jx := cellIndex(c.X, g.Origin.X, g.Size.X, g.NX)
				jy := cellIndex(c.Y, g.Origin.Y, g.Size.Y, g.NY)
				jz := cellIndex(c.Z, g.Origin.Z, g.Size.Z, g.NZ)
				if jx != ix || jy != iy || jz != iz {
					t.Fatalf("center of (%d,%d,%d) maps back to (%d,%d,%d)", ix, iy, iz, jx, jy, jz)
				}
			}
		}
	}

	// Center lies half a voxel from the cell corner.
	c := g.Center(0, 0, 0)
	require.InDelta(t, 11.0, c.X, 1e-12)
	require.InDelta(t, 21.0, c.Y, 1e-12)
	require.InDelta(t, 1.0, c.Z, 1e-12)
}

func TestGridAtOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2, 2, vec(0, 0, 0), vec(1, 1, 1))
	require.Equal(t, Empty, g.At(-1, 0, 0))
	require.Equal(t, Empty, g.At(0, 2, 0))
	require.Equal(t, Empty, g.At(0, 0, 99))
}

func TestGridCategories(t *testing.T) {
	g := NewGrid(2, 1, 1, vec(0, 0, 0), vec(1, 1, 1))
	g.Set(0, 0, 0, int8(category.Building))

	counts := g.Categories()
	require.Equal(t, 1, counts[category.Building])
	require.Equal(t, 0, counts[category.Terrain])
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"X", AxisX, false},
		{"y", AxisY, false},
		{" z ", AxisZ, false},
		{"w", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAxis(%q) expected error", tt.in)
			}
			continue
		}
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	cloud := pointcloud.New(3)
	cloud.Append(vec(0.5, 0.5, 0.5), category.Terrain)
	cloud.Append(vec(0.5, 0.5, 2.5), category.Terrain)
	cloud.Append(vec(2.5, 0.5, 0.5), category.Terrain)

	grid, err := Count(cloud, vec(2, 2, 2), &Bounds{Min: vec(0, 0, 0), Max: vec(4, 2, 4)})
	require.NoError(t, err)

	zSlice := grid.Slice(AxisZ, 0)
	require.Len(t, zSlice, grid.NX)
	require.Equal(t, int32(1), zSlice[0][0])
	require.Equal(t, int32(1), zSlice[1][0])

	xSlice := grid.Slice(AxisX, 0)
	require.Len(t, xSlice, grid.NY)
	require.Equal(t, int32(1), xSlice[0][0])
	require.Equal(t, int32(1), xSlice[0][1])

	// Out-of-range indexes clamp instead of panicking.
	require.Len(t, grid.Slice(AxisZ, -5), grid.NX)
	require.Len(t, grid.Slice(AxisY, 99), grid.NX)
}

func TestSolidLayersNeverExceedGrid(t *testing.T) {
	// A point exactly on the upper z bound must not extrude past nz.
	cloud := pointcloud.New(2)
	cloud.Append(vec(0, 0, 0), category.Terrain)
	cloud.Append(vec(3, 3, 10), category.Building)

	grid, err := Solid(cloud, vec(2, 2, 2))
	require.NoError(t, err)

	topLayers := int(math.Ceil(10.0 / 2.0))
	require.Equal(t, topLayers, grid.NZ)
	for iz := 0; iz < grid.NZ; iz++ {
		require.Equal(t, int8(category.Building), grid.At(grid.NX-1, grid.NY-1, iz))
	}
}
