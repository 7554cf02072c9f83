// Package metrics periodically samples and logs system resource usage while
// a long pipeline run is in flight.
package metrics

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// Snapshot holds one sample of system metrics.
type Snapshot struct {
	CPUPercent        float64 // system-wide CPU usage (0-100%)
	ProcessCPUPercent float64 // this process, can exceed 100% on multi-core
	ProcessMemoryMB   float64
	MemoryUsedGB      float64
	MemoryTotalGB     float64
	MemoryPercent     float64
	Timestamp         time.Time
}

// Collector periodically collects and logs system metrics.
type Collector struct {
	interval time.Duration
	logger   *zap.Logger
	proc     *process.Process

	mu   sync.RWMutex
	last *Snapshot
}

// NewCollector creates a collector logging at the given interval (at least
// one second).
func NewCollector(interval time.Duration, logger *zap.Logger) *Collector {
	if interval < time.Second {
		interval = 30 * time.Second
	}

	proc, _ := process.NewProcess(int32(os.Getpid()))

	return &Collector{
		interval: interval,
		logger:   logger,
		proc:     proc,
	}
}

// Start begins periodic collection and returns when the context is
// cancelled.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("Metrics collection stopped")
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

// Last returns the most recent snapshot, or nil before the first sample.
func (c *Collector) Last() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Collector) collect() {
	snap := &Snapshot{Timestamp: time.Now()}

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		snap.CPUPercent = cpuPercent[0]
	}

	if c.proc != nil {
		if procCPU, err := c.proc.Percent(0); err == nil {
			snap.ProcessCPUPercent = procCPU
		}
		if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
			snap.ProcessMemoryMB = float64(memInfo.RSS) / (1024 * 1024)
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemoryUsedGB = float64(vm.Used) / (1024 * 1024 * 1024)
		snap.MemoryTotalGB = float64(vm.Total) / (1024 * 1024 * 1024)
		snap.MemoryPercent = vm.UsedPercent
	}

	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	c.logger.Debug("System metrics",
		zap.Float64("cpu_pct", snap.CPUPercent),
		zap.Float64("proc_cpu_pct", snap.ProcessCPUPercent),
		zap.Float64("proc_mem_mb", snap.ProcessMemoryMB),
		zap.Float64("mem_used_gb", snap.MemoryUsedGB),
		zap.Float64("mem_pct", snap.MemoryPercent),
	)
}
