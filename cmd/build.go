package cmd

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/events"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/mesh"
	"github.com/wegman-software/voxcity-go/internal/metrics"
	"github.com/wegman-software/voxcity-go/internal/pipeline"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
)

var buildBBox string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full pipeline: fetch, sample, voxelize, mesh",
	Long: `Fetch OSM features for a bounding box, sample them into a labeled point
cloud, build a categorical voxel grid, and write one OBJ surface mesh per
category to the output directory.`,
	Run: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildBBox, "bbox", "", "Bounding box as minlon,minlat,maxlon,maxlat (required)")
	buildCmd.Flags().BoolVar(&cfg.WriteCloud, "write-cloud", false, "Also write the sampled point cloud as Parquet")
	buildCmd.MarkFlagRequired("bbox")
}

func runBuild(cmd *cobra.Command, args []string) {
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}
	bbox, err := config.ParseBBox(buildBBox)
	if err != nil {
		exitWithError("invalid bounding box", err)
	}
	tables, err := loadSources()
	if err != nil {
		exitWithError("failed to load sources", err)
	}

	log.Info("Starting build",
		zap.String("bbox", buildBBox),
		zap.Float64("voxel_size", cfg.VoxelSize),
		zap.String("output", cfg.OutputDir),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background system metrics while the pipeline runs.
	go metrics.NewCollector(cfg.MetricsInterval, log).Start(ctx)

	start := time.Now()
	sink := events.Log{Logger: log}
	result, err := pipeline.New(cfg, tables, nil, sink).Run(ctx, bbox)
	if err != nil {
		exitWithError("pipeline failed", err)
	}

	paths, err := mesh.ExportOBJ(cfg.OutputDir, result.Meshes)
	if err != nil {
		exitWithError("mesh export failed", err)
	}

	if cfg.WriteCloud {
		cloudPath := filepath.Join(cfg.OutputDir, "points.parquet")
		if err := pointcloud.WriteParquet(cloudPath, result.Cloud); err != nil {
			exitWithError("point cloud export failed", err)
		}
		log.Info("Wrote point cloud", zap.String("path", cloudPath), zap.Int("points", result.Cloud.Len()))
	}

	log.Info("Build complete",
		zap.Duration("duration", time.Since(start).Round(time.Second)),
		zap.Strings("meshes", paths),
	)
}
