package sample

import (
	"math"

	"github.com/paulmach/orb"
)

// polylineStripes marches a metric-space polyline at the lattice step and
// emits points across a perpendicular stripe on both sides of the
// centerline. The stripe half-width is max(width/2, step) so even the
// narrowest road is at least one lattice step wide.
func polylineStripes(line orb.LineString, step, width float64) []orb.Point {
	if len(line) < 2 {
		return nil
	}

	half := width * 0.5
	if half < step {
		half = step
	}
	var offsets []float64
	for o := -half; o <= half+1e-6; o += step {
		offsets = append(offsets, o)
	}

	var pts []orb.Point
	for i := 0; i+1 < len(line); i++ {
		x0, y0 := line[i][0], line[i][1]
		x1, y1 := line[i+1][0], line[i+1][1]
		dx, dy := x1-x0, y1-y0
		segLen := math.Hypot(dx, dy)
		if segLen < 1e-6 {
			continue
		}
		ux, uy := dx/segLen, dy/segLen
		px, py := -uy, ux // perpendicular unit

		for s := 0.0; s <= segLen; s += step {
			cx, cy := x0+ux*s, y0+uy*s
			for _, o := range offsets {
				pts = append(pts, orb.Point{cx + px*o, cy + py*o})
			}
		}
	}
	return pts
}
