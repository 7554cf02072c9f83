package pointcloud

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
)

func testCloud() *Cloud {
	c := New(4)
	c.Append(r3.Vec{X: 1, Y: 2, Z: 0}, category.Terrain)
	c.Append(r3.Vec{X: 10.5, Y: -3.25, Z: 9}, category.Building)
	c.Append(r3.Vec{X: 0, Y: 0, Z: 0.5}, category.Road)
	c.Append(r3.Vec{X: -4, Y: 7, Z: 12}, category.Vegetation)
	return c
}

func TestCloudBounds(t *testing.T) {
	c := testCloud()
	min, max, ok := c.Bounds()
	require.True(t, ok)

	require.Equal(t, r3.Vec{X: -4, Y: -3.25, Z: 0}, min)
	require.Equal(t, r3.Vec{X: 10.5, Y: 7, Z: 12}, max)

	_, _, ok = New(0).Bounds()
	require.False(t, ok)
}

func TestCloudCountByLabel(t *testing.T) {
	c := testCloud()
	c.Append(r3.Vec{X: 1, Y: 1, Z: 0}, category.Road)

	counts := c.CountByLabel()
	require.Equal(t, 1, counts[category.Terrain])
	require.Equal(t, 1, counts[category.Building])
	require.Equal(t, 2, counts[category.Road])
	require.Equal(t, 1, counts[category.Vegetation])
}

func TestParquetRoundTrip(t *testing.T) {
	orig := testCloud()
	path := filepath.Join(t.TempDir(), "points.parquet")

	require.NoError(t, WriteParquet(path, orig))

	got, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, orig.Len(), got.Len())

	// Coordinates survive the float32 narrowing exactly for these values.
	if diff := cmp.Diff(orig.Points, got.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orig.Labels, got.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestReadParquetMissingFile(t *testing.T) {
	_, err := ReadParquet(context.Background(), filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantLen    int
		wantLabels []category.Category
		wantErr    bool
	}{
		{
			name:       "with header",
			content:    "x,y,z,label\n1,2,0,0\n3,4,9,1\n",
			wantLen:    2,
			wantLabels: []category.Category{category.Terrain, category.Building},
		},
		{
			name:       "without header",
			content:    "1,2,0,2\n3,4,9,3\n",
			wantLen:    2,
			wantLabels: []category.Category{category.Road, category.Vegetation},
		},
		{
			name:       "label column optional",
			content:    "1,2,0\n3,4,9\n",
			wantLen:    2,
			wantLabels: []category.Category{category.Terrain, category.Terrain},
		},
		{
			name:       "bad rows skipped",
			content:    "1,2,0,0\nnot,a,row,0\n5,6\n3,4,9,1\n",
			wantLen:    2,
			wantLabels: []category.Category{category.Terrain, category.Building},
		},
		{
			name:    "header only",
			content: "x,y,z\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "points.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cloud, err := ReadCSV(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantLen, cloud.Len())
			require.Equal(t, tt.wantLabels, cloud.Labels)
		})
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "points.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,2,0,0\n"), 0644))

	cloud, err := Load(context.Background(), csvPath)
	require.NoError(t, err)
	require.Equal(t, 1, cloud.Len())

	pqPath := filepath.Join(dir, "points.parquet")
	require.NoError(t, WriteParquet(pqPath, testCloud()))
	cloud, err = Load(context.Background(), pqPath)
	require.NoError(t, err)
	require.Equal(t, 4, cloud.Len())

	_, err = Load(context.Background(), filepath.Join(dir, "points.laz"))
	require.Error(t, err)
}
