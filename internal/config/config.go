// Package config holds the runtime configuration for the voxelization
// pipeline.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BBox is a geographic bounding box in WGS84 degrees.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// ParseBBox parses a bbox string in format "minlon,minlat,maxlon,maxlat".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox must have 4 values: minlon,minlat,maxlon,maxlat")
	}

	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("invalid bbox coordinate %q: %w", p, err)
		}
		coords[i] = v
	}

	bbox := BBox{
		MinLon: coords[0],
		MinLat: coords[1],
		MaxLon: coords[2],
		MaxLat: coords[3],
	}
	if err := bbox.Validate(); err != nil {
		return BBox{}, err
	}
	return bbox, nil
}

// Validate checks the min < max invariant on both axes.
func (b BBox) Validate() error {
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("minlon (%f) must be < maxlon (%f)", b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("minlat (%f) must be < maxlat (%f)", b.MinLat, b.MaxLat)
	}
	return nil
}

// Contains checks if a point is within the bounding box.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// OverpassString formats the box the way Overpass bbox filters expect:
// "(minlat,minlon,maxlat,maxlon)".
func (b BBox) OverpassString() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Config holds the global configuration for a pipeline run.
type Config struct {
	// Output settings
	OutputDir string

	// Grid settings
	VoxelSize float64 // voxel edge length in meters (all axes)

	// Fetch settings
	SourcesFile  string        // optional YAML overriding mirrors/queries/tables
	FetchTimeout time.Duration // per-mirror attempt timeout

	// Output toggles
	WriteCloud bool // also dump the sampled point cloud as Parquet

	// Logging and metrics
	Verbose         bool
	LogFile         string
	MetricsInterval time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "./voxcity_out",
		VoxelSize:       2.0,
		FetchTimeout:    90 * time.Second,
		MetricsInterval: 30 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.VoxelSize <= 0 {
		return fmt.Errorf("voxel size must be positive, got %f", c.VoxelSize)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
