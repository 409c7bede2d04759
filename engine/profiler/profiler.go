// Package profiler reports frame rate and memory statistics for the render loop.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one report window of frame and memory statistics.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64

	// Frames is the number of ticks in the window.
	Frames int

	// SlowestTick is the longest tick duration recorded via Observe in the window.
	SlowestTick time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	slowest        time.Duration

	now    func() time.Time
	report func(s Stats)
	last   Stats
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and reports go to the standard logger.
//
// Parameters:
//   - options: variadic ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		report:         logStats,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Observe records the duration of one tick so the report can name the slowest.
//
// Parameters:
//   - d: the tick duration
func (p *Profiler) Observe(d time.Duration) {
	if d > p.slowest {
		p.slowest = d
	}
}

// Tick should be called once per frame to track frame timing.
// Reports statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		Frames:      p.frameCount,
		SlowestTick: p.slowest,
	}

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.report(s)
	p.last = s

	p.frameCount = 0
	p.slowest = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report. Zero before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}

func logStats(s Stats) {
	log.Printf("[Profiler] FPS: %.2f | Slowest: %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.SlowestTick, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}
