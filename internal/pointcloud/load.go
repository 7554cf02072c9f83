package pointcloud

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a cloud from a file, dispatching on the extension
// (.parquet or .csv).
func Load(ctx context.Context, path string) (*Cloud, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ReadParquet(ctx, path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported point cloud format %q (want .parquet or .csv)", filepath.Ext(path))
	}
}
