// Package events defines the progress side channel for the pipeline. Sinks
// receive a small fixed set of stage-transition events; they are purely
// informational and must never affect control flow.
package events

import "go.uber.org/zap"

// Sink receives pipeline progress events.
type Sink interface {
	// StageStarted fires when a pipeline stage (fetch, sample, voxelize,
	// mesh) begins.
	StageStarted(stage string)
	// KindStarted fires before fetching one feature kind (buildings,
	// roads, greens).
	KindStarted(kind string)
	// KindFetched fires after a feature kind has been fetched, with the
	// number of elements returned.
	KindFetched(kind string, count int)
	// SamplingProgress fires periodically while sampling, with the number
	// of features processed so far out of the total.
	SamplingProgress(done, total int)
}

// Nop is a Sink that discards all events.
type Nop struct{}

func (Nop) StageStarted(string)       {}
func (Nop) KindStarted(string)        {}
func (Nop) KindFetched(string, int)   {}
func (Nop) SamplingProgress(int, int) {}

// Log is a Sink that forwards events to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) StageStarted(stage string) {
	l.Logger.Info("Stage started", zap.String("stage", stage))
}

func (l Log) KindStarted(kind string) {
	l.Logger.Info("Fetching features", zap.String("kind", kind))
}

func (l Log) KindFetched(kind string, count int) {
	l.Logger.Info("Fetched features", zap.String("kind", kind), zap.Int("count", count))
}

func (l Log) SamplingProgress(done, total int) {
	l.Logger.Debug("Sampling features", zap.Int("done", done), zap.Int("total", total))
}
