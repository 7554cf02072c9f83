// Package pipeline runs the full feature-to-mesh conversion: fetch raw
// vector features, sample them into a labeled point cloud, aggregate the
// cloud into a categorical voxel grid, and extract per-category surface
// meshes. Stages run sequentially; each consumes an immutable input and
// produces a new immutable output, so a failed stage never yields a partial
// grid or mesh.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/events"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/mesh"
	"github.com/wegman-software/voxcity-go/internal/overpass"
	"github.com/wegman-software/voxcity-go/internal/pointcloud"
	"github.com/wegman-software/voxcity-go/internal/sample"
	"github.com/wegman-software/voxcity-go/internal/sources"
	"github.com/wegman-software/voxcity-go/internal/voxel"
)

// Fetcher supplies raw features for a bounding box. *overpass.Client is the
// production implementation; tests substitute their own.
type Fetcher interface {
	FetchAll(ctx context.Context, bbox config.BBox) (*overpass.FeatureSet, error)
}

// Result carries the artifacts of a full run. Grid is the durable artifact;
// Meshes are the final consumer-facing output.
type Result struct {
	Cloud  *pointcloud.Cloud
	Grid   *voxel.Grid
	Meshes map[category.Category]*mesh.Mesh
}

// Pipeline wires the four stages together.
type Pipeline struct {
	cfg     *config.Config
	tables  *sources.Config
	fetcher Fetcher
	sink    events.Sink
	log     *zap.Logger
}

// New creates a pipeline. A nil fetcher gets the default Overpass client.
func New(cfg *config.Config, tables *sources.Config, fetcher Fetcher, sink events.Sink) *Pipeline {
	if sink == nil {
		sink = events.Nop{}
	}
	if fetcher == nil {
		fetcher = overpass.NewClient(tables, cfg.FetchTimeout).WithSink(sink)
	}
	return &Pipeline{
		cfg:     cfg,
		tables:  tables,
		fetcher: fetcher,
		sink:    sink,
		log:     logger.Get(),
	}
}

// Run executes fetch, sample, voxelize, and mesh extraction for one bounding
// box.
func (p *Pipeline) Run(ctx context.Context, bbox config.BBox) (*Result, error) {
	start := time.Now()

	p.sink.StageStarted("fetch")
	set, err := p.fetcher.FetchAll(ctx, bbox)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	p.log.Info("Fetched features",
		zap.Int("buildings", len(set.Buildings)),
		zap.Int("roads", len(set.Roads)),
		zap.Int("greens", len(set.Greens)),
	)

	p.sink.StageStarted("sample")
	sampler := sample.New(bbox, p.tables, sample.DefaultParams(p.cfg.VoxelSize)).WithSink(p.sink)
	cloud := sampler.Sample(set)
	p.log.Info("Sampled point cloud",
		zap.Int("points", cloud.Len()),
		zap.Int("skipped_features", sampler.Skipped()),
	)

	p.sink.StageStarted("voxelize")
	size := r3.Vec{X: p.cfg.VoxelSize, Y: p.cfg.VoxelSize, Z: p.cfg.VoxelSize}
	grid, err := voxel.Solid(cloud, size)
	if err != nil {
		return nil, fmt.Errorf("voxelization failed: %w", err)
	}
	p.log.Info("Built voxel grid",
		zap.Int("nx", grid.NX),
		zap.Int("ny", grid.NY),
		zap.Int("nz", grid.NZ),
	)

	p.sink.StageStarted("mesh")
	meshes := mesh.Extract(grid)
	triangles := 0
	for _, m := range meshes {
		triangles += len(m.Triangles)
	}
	p.log.Info("Extracted meshes",
		zap.Int("categories", len(meshes)),
		zap.Int("triangles", triangles),
		zap.Duration("total", time.Since(start).Round(time.Millisecond)),
	)

	return &Result{Cloud: cloud, Grid: grid, Meshes: meshes}, nil
}
