// Package pointcloud holds labeled metric-space point clouds and their
// interchange formats (Parquet, CSV).
package pointcloud

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
)

// Cloud is an unordered labeled point cloud in local metric coordinates.
// Points and Labels are parallel arrays; the interchange formats store
// coordinates as 32-bit floats and labels as 8-bit unsigned ids.
type Cloud struct {
	Points []r3.Vec
	Labels []category.Category
}

// New returns an empty cloud with capacity for n points.
func New(n int) *Cloud {
	return &Cloud{
		Points: make([]r3.Vec, 0, n),
		Labels: make([]category.Category, 0, n),
	}
}

// Append adds one labeled point.
func (c *Cloud) Append(p r3.Vec, label category.Category) {
	c.Points = append(c.Points, p)
	c.Labels = append(c.Labels, label)
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return len(c.Points)
}

// Bounds returns the axis-aligned bounds of the cloud. ok is false for an
// empty cloud.
func (c *Cloud) Bounds() (min, max r3.Vec, ok bool) {
	if len(c.Points) == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	min, max = c.Points[0], c.Points[0]
	for _, p := range c.Points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return min, max, true
}

// CountByLabel returns the number of points per category.
func (c *Cloud) CountByLabel() map[category.Category]int {
	counts := make(map[category.Category]int, category.Count)
	for _, l := range c.Labels {
		counts[l]++
	}
	return counts
}
