package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Snapshot is one logged sample of frame rate and memory statistics.
type Snapshot struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	logger         *zap.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Snapshot
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second and the logger to a no-op.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         zap.NewNop(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	s := Snapshot{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := s.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.logger.Info("frame stats",
		zap.Float64("fps", s.FPS),
		zap.Float64("heap_mb", s.HeapMB),
		zap.Float64("alloc_rate_mb_s", s.AllocRateMB),
		zap.Uint32("gc", s.GCCount),
		zap.Uint64("gc_last_us", s.LastPauseUs),
		zap.Uint64("gc_max_us", s.MaxPauseUs),
		zap.Float64("sys_mb", s.SysMB),
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged sample.
func (p *Profiler) Last() Snapshot {
	return p.last
}
