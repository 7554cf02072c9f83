package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spf13/cobra"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
	"github.com/wegman-software/voxcity-go/internal/voxel"
)

var (
	sliceAxis string
	sliceIdx  int
	showSlice bool
)

var voxelizeCmd = &cobra.Command{
	Use:   "voxelize <points.(parquet|csv)>",
	Short: "Build an occupancy-count grid from a stored point cloud",
	Long: `Load a labeled point cloud from Parquet or CSV, aggregate it into a
dense occupancy-count voxel grid, and print grid statistics. Optionally
print a 2D slice of the counts along one axis.`,
	Args: cobra.ExactArgs(1),
	Run:  runVoxelize,
}

func init() {
	rootCmd.AddCommand(voxelizeCmd)

	voxelizeCmd.Flags().BoolVar(&showSlice, "slice", false, "Print a 2D slice of the count grid")
	voxelizeCmd.Flags().StringVar(&sliceAxis, "axis", "Z", "Slice axis: X, Y, or Z")
	voxelizeCmd.Flags().IntVar(&sliceIdx, "index", 0, "Slice index (clamped to grid)")
}

func runVoxelize(cmd *cobra.Command, args []string) {
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	cloud, err := pointcloud.Load(context.Background(), args[0])
	if err != nil {
		exitWithError("failed to load point cloud", err)
	}

	size := r3.Vec{X: cfg.VoxelSize, Y: cfg.VoxelSize, Z: cfg.VoxelSize}
	grid, err := voxel.Count(cloud, size, nil)
	if err != nil {
		exitWithError("voxelization failed", err)
	}

	occupied := 0
	var maxCount int32
	for _, c := range grid.Counts {
		if c > 0 {
			occupied++
		}
		if c > maxCount {
			maxCount = c
		}
	}

	log.Info("Count grid built",
		zap.Int("points", cloud.Len()),
		zap.Int("nx", grid.NX),
		zap.Int("ny", grid.NY),
		zap.Int("nz", grid.NZ),
		zap.Int("occupied_cells", occupied),
		zap.Int32("max_count", maxCount),
	)

	if showSlice {
		axis, err := voxel.ParseAxis(sliceAxis)
		if err != nil {
			exitWithError("invalid slice axis", err)
		}
		for _, row := range grid.Slice(axis, sliceIdx) {
			line := ""
			for _, c := range row {
				line += fmt.Sprintf("%4d", c)
			}
			fmt.Println(line)
		}
	}
}
