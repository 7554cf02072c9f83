// Package category defines the closed set of voxel category ids and the
// display palette used by mesh consumers.
package category

import "fmt"

// Category identifies what a sampled point or voxel represents. The numeric
// ordering is part of the contract: dominant-label ties in footprint
// aggregation resolve to the lowest id, and renderers draw categories in
// ascending order.
type Category uint8

const (
	Terrain Category = iota
	Building
	Road
	Vegetation
)

// All lists every category in id order.
var All = []Category{Terrain, Building, Road, Vegetation}

// Count is the number of defined categories.
const Count = 4

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c < Count
}

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case Terrain:
		return "terrain"
	case Building:
		return "buildings"
	case Road:
		return "roads"
	case Vegetation:
		return "vegetation"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// RGB is an 8-bit-per-channel display color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// palette maps category ids to display colors. Tan for terrain, light gray
// for buildings, asphalt gray for roads, green for vegetation.
var palette = [Count]RGB{
	Terrain:    {0xd4, 0xa5, 0x74},
	Building:   {0xbd, 0xbd, 0xbd},
	Road:       {0x4a, 0x4a, 0x4a},
	Vegetation: {0x2e, 0x7d, 0x32},
}

// Color returns the display color for the category. Unknown ids map to the
// terrain color.
func (c Category) Color() RGB {
	if !c.Valid() {
		return palette[Terrain]
	}
	return palette[c]
}
