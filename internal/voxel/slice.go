package voxel

import (
	"fmt"
	"strings"
)

// Axis names a grid axis for slicing.
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
)

// ParseAxis parses an axis name, case-insensitively.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	default:
		return "", fmt.Errorf("axis must be one of X, Y, Z, got %q", s)
	}
}

// Slice extracts a 2D slice of occupancy counts along an axis. The index is
// clamped to the valid range. Rows follow the first remaining axis.
func (g *CountGrid) Slice(axis Axis, idx int) [][]int32 {
	clampIdx := func(n int) int {
		if idx < 0 {
			return 0
		}
		if idx >= n {
			return n - 1
		}
		return idx
	}

	switch axis {
	case AxisX:
		i := clampIdx(g.NX)
		out := make([][]int32, g.NY)
		for iy := 0; iy < g.NY; iy++ {
			row := make([]int32, g.NZ)
			for iz := 0; iz < g.NZ; iz++ {
				row[iz] = g.At(i, iy, iz)
			}
			out[iy] = row
		}
		return out
	case AxisY:
		i := clampIdx(g.NY)
		out := make([][]int32, g.NX)
		for ix := 0; ix < g.NX; ix++ {
			row := make([]int32, g.NZ)
			for iz := 0; iz < g.NZ; iz++ {
				row[iz] = g.At(ix, i, iz)
			}
			out[ix] = row
		}
		return out
	default:
		i := clampIdx(g.NZ)
		out := make([][]int32, g.NX)
		for ix := 0; ix < g.NX; ix++ {
			row := make([]int32, g.NY)
			for iy := 0; iy < g.NY; iy++ {
				row[iy] = g.At(ix, iy, i)
			}
			out[ix] = row
		}
		return out
	}
}
