package cmd

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/sources"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "voxcity-go",
	Short: "Convert OpenStreetMap features into 3D voxel city models",
	Long: `voxcity-go turns raw OpenStreetMap vector features into categorical 3D
voxel grids and renderable surface meshes.

Pipeline:
  - Fetch building, road, and vegetation features via Overpass (with
    ordered mirror fallback)
  - Sample features into a labeled metric-space point cloud
  - Aggregate the cloud into a category-labeled solid voxel grid
  - Extract exposed-face surface meshes per category (OBJ output)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Verbose = verbose
		cfg.LogFile = logFile
		cfg.MetricsInterval = metricsInterval

		if logFile != "" {
			logger.InitWithFile(verbose, logFile)
		} else {
			logger.Init(verbose)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "Directory for output files")
	rootCmd.PersistentFlags().Float64Var(&cfg.VoxelSize, "voxel-size", cfg.VoxelSize, "Voxel edge length in meters")
	rootCmd.PersistentFlags().StringVar(&cfg.SourcesFile, "sources", "", "YAML file overriding mirrors/queries/width tables")
	rootCmd.PersistentFlags().DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Per-mirror query timeout")

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for system metrics logging (e.g., 10s, 1m)")
}

// loadSources returns the data-source tables, from file when --sources is
// set.
func loadSources() (*sources.Config, error) {
	if cfg.SourcesFile == "" {
		return sources.DefaultConfig(), nil
	}
	return sources.Load(cfg.SourcesFile)
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
