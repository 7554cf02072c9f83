package sample

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/overpass"
)

// rtreeMinBranch and rtreeMaxBranch follow the usual R-tree fill guidance.
const (
	rtreeMinBranch = 8
	rtreeMaxBranch = 16
)

// spatialFeature adapts a feature to the rtreego.Spatial interface.
type spatialFeature struct {
	index int
	rect  rtreego.Rect
}

func (s spatialFeature) Bounds() rtreego.Rect {
	return s.rect
}

// featureRect converts a feature's geographic bound to an R-tree rectangle,
// padding degenerate extents so single-segment axis-aligned features still
// index cleanly.
func featureRect(f *overpass.Feature) (rtreego.Rect, bool) {
	b := f.Bound()
	lengths := []float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = 1e-9
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// cullToBound drops features whose bounds do not intersect the query bbox.
// Overpass returns every way that merely crosses the box, so for large result
// sets the R-tree avoids a full geometric scan per feature kind. Input order
// is preserved because it determines point memory order downstream.
func cullToBound(feats []overpass.Feature, bbox config.BBox) []overpass.Feature {
	if len(feats) == 0 {
		return nil
	}

	tree := rtreego.NewTree(2, rtreeMinBranch, rtreeMaxBranch)
	for i := range feats {
		rect, ok := featureRect(&feats[i])
		if !ok {
			continue
		}
		tree.Insert(spatialFeature{index: i, rect: rect})
	}

	query, err := rtreego.NewRect(
		rtreego.Point{bbox.MinLon, bbox.MinLat},
		[]float64{bbox.MaxLon - bbox.MinLon, bbox.MaxLat - bbox.MinLat},
	)
	if err != nil {
		return feats
	}

	hits := tree.SearchIntersect(query)
	keep := make([]int, 0, len(hits))
	for _, h := range hits {
		keep = append(keep, h.(spatialFeature).index)
	}
	sort.Ints(keep)

	out := make([]overpass.Feature, 0, len(keep))
	for _, i := range keep {
		out = append(out, feats[i])
	}
	return out
}
