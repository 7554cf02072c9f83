package sample

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

// MalformedTagError means a height/width/levels tag value could not be parsed
// as a number. The sampler falls back to the next-priority source instead of
// failing.
type MalformedTagError struct {
	Key   string
	Value string
}

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag %s=%q: not a number", e.Key, e.Value)
}

// parseMeters parses a numeric tag value, stripping a trailing unit suffix
// like "12 m".
func parseMeters(key, val string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "m"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &MalformedTagError{Key: key, Value: val}
	}
	return v, nil
}

// buildingHeight derives a building height from tags. Explicit height tags
// take precedence, then levels converted at metersPerLevel, then the default.
func (s *Sampler) buildingHeight(tags osm.Tags) float64 {
	for _, key := range []string{"height", "building:height"} {
		if val := tags.Find(key); val != "" {
			h, err := parseMeters(key, val)
			if err == nil {
				return h
			}
			s.warnTag(err)
		}
	}
	for _, key := range []string{"building:levels", "levels"} {
		if val := tags.Find(key); val != "" {
			levels, err := parseMeters(key, val)
			if err == nil {
				return levels * s.tables.Defaults.MetersPerLevel
			}
			s.warnTag(err)
		}
	}
	return s.tables.Defaults.BuildingHeight
}

// roadWidth derives a road width from tags: explicit width tag first, then
// the per-class default table.
func (s *Sampler) roadWidth(tags osm.Tags) float64 {
	if val := tags.Find("width"); val != "" {
		w, err := parseMeters("width", val)
		if err == nil {
			return w
		}
		s.warnTag(err)
	}
	return s.tables.RoadWidth(tags.Find("highway"))
}
