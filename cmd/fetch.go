package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/events"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/overpass"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
	"github.com/wegman-software/voxcity-go/internal/sample"
)

var (
	fetchBBox string
	fetchOut  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and sample OSM features into a Parquet point cloud",
	Long: `Fetch building, road, and vegetation features for a bounding box and
sample them into a labeled point cloud, stored as Parquet
(x, y, z float32 columns plus a uint8 label column).`,
	Run: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchBBox, "bbox", "", "Bounding box as minlon,minlat,maxlon,maxlat (required)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "points.parquet", "Output Parquet path")
	fetchCmd.MarkFlagRequired("bbox")
}

func runFetch(cmd *cobra.Command, args []string) {
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}
	bbox, err := config.ParseBBox(fetchBBox)
	if err != nil {
		exitWithError("invalid bounding box", err)
	}
	tables, err := loadSources()
	if err != nil {
		exitWithError("failed to load sources", err)
	}

	sink := events.Log{Logger: log}
	client := overpass.NewClient(tables, cfg.FetchTimeout).WithSink(sink)

	set, err := client.FetchAll(context.Background(), bbox)
	if err != nil {
		exitWithError("fetch failed", err)
	}

	sampler := sample.New(bbox, tables, sample.DefaultParams(cfg.VoxelSize)).WithSink(sink)
	cloud := sampler.Sample(set)

	if err := pointcloud.WriteParquet(fetchOut, cloud); err != nil {
		exitWithError("point cloud export failed", err)
	}

	log.Info("Wrote point cloud",
		zap.String("path", fetchOut),
		zap.Int("points", cloud.Len()),
		zap.Int("features", set.Len()),
		zap.Int("skipped_features", sampler.Skipped()),
	)
}
