// Package mesh extracts renderable surface meshes from categorical voxel
// grids. Only faces adjacent to empty space (or the grid boundary) are
// emitted, so mesh size scales with exposed area rather than volume.
package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
	"github.com/wegman-software/voxcity-go/internal/voxel"
)

// Mesh is one category's surface: a vertex list and triangle indices into
// it. Each face contributes its own four vertices — no deduplication across
// adjacent faces — which keeps extraction simple and gives flat per-face
// shading.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int32
}

// direction describes one of the six face directions: the neighbor offset
// and the quad corner offsets (unit cube corners, scaled by half the voxel
// size around the cell center). Corner order gives counter-clockwise winding
// viewed from outside, so normals face outward.
type direction struct {
	dx, dy, dz int
	corners    [4][3]float64
}

var directions = [6]direction{
	{1, 0, 0, [4][3]float64{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},      // +x
	{-1, 0, 0, [4][3]float64{{-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}}}, // -x
	{0, 1, 0, [4][3]float64{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},      // +y
	{0, -1, 0, [4][3]float64{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}}, // -y
	{0, 0, 1, [4][3]float64{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},      // +z
	{0, 0, -1, [4][3]float64{{-1, 1, -1}, {1, 1, -1}, {1, -1, -1}, {-1, -1, -1}}}, // -z
}

// topFace indexes the +z entry in directions.
const topFace = 4

// Extract converts a categorical solid grid into one mesh per non-empty
// category present in the grid. A voxel face is emitted if and only if the
// neighboring cell in that direction is empty; out-of-grid neighbors count
// as empty, so boundary faces are always emitted. Terrain is special-cased:
// only the lowest layer's top faces are considered, which keeps the ground
// plane from meshing as a solid block.
func Extract(g *voxel.Grid) map[category.Category]*Mesh {
	meshes := make(map[category.Category]*Mesh)

	for ix := 0; ix < g.NX; ix++ {
		for iy := 0; iy < g.NY; iy++ {
			for iz := 0; iz < g.NZ; iz++ {
				cell := g.At(ix, iy, iz)
				if cell == voxel.Empty {
					continue
				}
				cat := category.Category(cell)

				if cat == category.Terrain {
					if iz != 0 {
						continue
					}
					if g.At(ix, iy, 1) == voxel.Empty {
						m := meshFor(meshes, cat)
						m.addFace(g, ix, iy, iz, directions[topFace])
					}
					continue
				}

				for _, d := range directions {
					if g.At(ix+d.dx, iy+d.dy, iz+d.dz) == voxel.Empty {
						m := meshFor(meshes, cat)
						m.addFace(g, ix, iy, iz, d)
					}
				}
			}
		}
	}

	return meshes
}

func meshFor(meshes map[category.Category]*Mesh, cat category.Category) *Mesh {
	m, ok := meshes[cat]
	if !ok {
		m = &Mesh{}
		meshes[cat] = m
	}
	return m
}

// addFace emits one quad (two triangles sharing a diagonal) for a voxel face.
func (m *Mesh) addFace(g *voxel.Grid, ix, iy, iz int, d direction) {
	c := g.Center(ix, iy, iz)
	hx, hy, hz := g.Size.X/2, g.Size.Y/2, g.Size.Z/2

	base := int32(len(m.Vertices))
	for _, corner := range d.corners {
		m.Vertices = append(m.Vertices, r3.Vec{
			X: c.X + corner[0]*hx,
			Y: c.Y + corner[1]*hy,
			Z: c.Z + corner[2]*hz,
		})
	}
	m.Triangles = append(m.Triangles,
		[3]int32{base, base + 1, base + 2},
		[3]int32{base, base + 2, base + 3},
	)
}
