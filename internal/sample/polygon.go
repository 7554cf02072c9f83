package sample

import (
	"github.com/paulmach/orb"
)

// pipEpsilon guards the even-odd ray test against division by zero at
// horizontal polygon edges.
const pipEpsilon = 1e-12

// closeRing appends the first vertex when the outline is not already closed.
func closeRing(poly orb.LineString) orb.LineString {
	if len(poly) >= 2 && poly[0] != poly[len(poly)-1] {
		poly = append(poly, poly[0])
	}
	return poly
}

// pointInPolygon runs an even-odd ray-casting test against a polygon in
// metric coordinates. The horizontal ray is epsilon-perturbed so edges
// parallel to it never divide by zero.
func pointInPolygon(x, y float64, poly orb.LineString) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi+pipEpsilon)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// polygonLattice generates the interior sample points of a metric-space
// polygon on a regular XY lattice, keeping only lattice points inside the
// outline.
func polygonLattice(poly orb.LineString, step float64) []orb.Point {
	if len(poly) < 3 {
		return nil
	}
	bound := poly.Bound()

	var pts []orb.Point
	for x := bound.Min[0]; x <= bound.Max[0]; x += step {
		for y := bound.Min[1]; y <= bound.Max[1]; y += step {
			if pointInPolygon(x, y, poly) {
				pts = append(pts, orb.Point{x, y})
			}
		}
	}
	return pts
}

// zBands returns the vertical replication values 0, step, 2*step, ... up to
// max(step, height) inclusive of the top band. The floor applies to every
// polygon kind: a volume shorter than one band (a squat building or a low
// canopy) still fills its first grid layer instead of vanishing.
func zBands(height, step float64) []float64 {
	top := height
	if top < step {
		top = step
	}
	var zs []float64
	for z := 0.0; z <= top+1e-6; z += step {
		zs = append(zs, z)
	}
	return zs
}
