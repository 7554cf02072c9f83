package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Mirrors, 3)
	require.Contains(t, cfg.Queries.Buildings, "{{bbox}}")
	require.Contains(t, cfg.Queries.Roads, "{{bbox}}")
	require.Contains(t, cfg.Queries.Greens, "{{bbox}}")
}

func TestRoadWidth(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		class string
		want  float64
	}{
		{"motorway", 20.0},
		{"trunk", 18.0},
		{"primary", 14.0},
		{"secondary", 12.0},
		{"tertiary", 10.0},
		{"residential", 8.0},
		{"service", 6.0},
		{"footway", 3.0},
		{"path", 2.0},
		{"cycleway", 3.0},
		{"bridleway", 8.0}, // unknown class falls back to the default
		{"", 8.0},
	}

	for _, tt := range tests {
		if got := cfg.RoadWidth(tt.class); got != tt.want {
			t.Errorf("RoadWidth(%q) = %f, want %f", tt.class, got, tt.want)
		}
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	yaml := `
mirrors:
  - https://overpass.example.com/api/interpreter
road_widths:
  motorway: 25.0
defaults:
  building_height: 12.0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden fields.
	require.Equal(t, []string{"https://overpass.example.com/api/interpreter"}, cfg.Mirrors)
	require.Equal(t, 25.0, cfg.RoadWidth("motorway"))
	require.Equal(t, 12.0, cfg.Defaults.BuildingHeight)

	// Untouched fields keep defaults.
	require.NotEmpty(t, cfg.Queries.Buildings)
	require.Equal(t, 3.0, cfg.Defaults.MetersPerLevel)
}

func TestLoadRejectsBadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	yaml := `
road_widths:
  motorway: -5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
