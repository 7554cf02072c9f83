// Package sources holds the static data-source tables used by the fetcher
// and sampler: Overpass mirrors, per-kind query templates, the highway
// default-width table, and sampling defaults. The compiled-in defaults can be
// replaced wholesale or in part from a YAML file, so alternate data sources
// or unit systems never require touching core logic.
package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of externalized tables.
type Config struct {
	// Mirrors is the ordered list of Overpass endpoints. The fetcher tries
	// them in order and the first successful response wins.
	Mirrors []string `yaml:"mirrors,omitempty"`

	// Queries maps a feature kind to its Overpass query body. The literal
	// "{{bbox}}" is substituted with the formatted bounding box.
	Queries Queries `yaml:"queries,omitempty"`

	// RoadWidths maps a highway class to its assumed width in meters when
	// the feature carries no explicit width tag.
	RoadWidths map[string]float64 `yaml:"road_widths,omitempty"`

	// Defaults are the sampler fallback values.
	Defaults Defaults `yaml:"defaults,omitempty"`
}

// Queries holds one Overpass query body per feature kind.
type Queries struct {
	Buildings string `yaml:"buildings,omitempty"`
	Roads     string `yaml:"roads,omitempty"`
	Greens    string `yaml:"greens,omitempty"`
}

// Defaults holds sampler fallback values.
type Defaults struct {
	BuildingHeight float64 `yaml:"building_height,omitempty"` // meters, when no height/levels tag parses
	CanopyHeight   float64 `yaml:"canopy_height,omitempty"`   // meters, vegetation volume height
	MetersPerLevel float64 `yaml:"meters_per_level,omitempty"`
	RoadWidth      float64 `yaml:"road_width,omitempty"` // meters, unknown highway class
}

// DefaultConfig returns the compiled-in tables.
func DefaultConfig() *Config {
	return &Config{
		Mirrors: []string{
			"https://overpass.kumi.systems/api/interpreter",
			"https://overpass-api.de/api/interpreter",
			"https://overpass.openstreetmap.ru/api/interpreter",
		},
		Queries: Queries{
			Buildings: `way["building"]{{bbox}};out geom;`,
			Roads:     `way["highway"]{{bbox}};out geom;`,
			Greens: `way["landuse"="forest"]{{bbox}};` +
				`way["natural"="wood"]{{bbox}};` +
				`way["leisure"="park"]{{bbox}};` +
				`out geom;`,
		},
		RoadWidths: map[string]float64{
			"motorway":    20.0,
			"trunk":       18.0,
			"primary":     14.0,
			"secondary":   12.0,
			"tertiary":    10.0,
			"residential": 8.0,
			"service":     6.0,
			"footway":     3.0,
			"path":        2.0,
			"cycleway":    3.0,
		},
		Defaults: Defaults{
			BuildingHeight: 10.0,
			CanopyHeight:   12.0,
			MetersPerLevel: 3.0,
			RoadWidth:      8.0,
		},
	}
}

// Load reads a YAML file and overlays it on the compiled-in defaults. Empty
// fields in the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the tables are usable.
func (c *Config) Validate() error {
	if len(c.Mirrors) == 0 {
		return fmt.Errorf("at least one mirror is required")
	}
	if c.Queries.Buildings == "" || c.Queries.Roads == "" || c.Queries.Greens == "" {
		return fmt.Errorf("all three feature-kind queries are required")
	}
	for class, w := range c.RoadWidths {
		if w <= 0 {
			return fmt.Errorf("road width for %q must be positive, got %f", class, w)
		}
	}
	return nil
}

// RoadWidth returns the default width for a highway class, falling back to
// the generic road width for unknown classes.
func (c *Config) RoadWidth(class string) float64 {
	if w, ok := c.RoadWidths[class]; ok {
		return w
	}
	return c.Defaults.RoadWidth
}
