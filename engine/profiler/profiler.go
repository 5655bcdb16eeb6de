package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats is one reporting interval's worth of measurements.
type Stats struct {
	FPS            float64
	Updates        int
	SkippedUpdates int
	Picks          int
	Hovered        int
	HeapMB         float64
	AllocRateMB    float64
	GCCount        uint32
	SysMB          float64
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged. Defaults to one second.
//
// Parameters:
//   - d: the reporting interval (ignored if not positive)
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger routes output to l instead of the standard logger.
func WithLogger(l *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logf = l.Printf
	}
}

// Profiler tracks frame rate, scene update and pick counts and memory statistics.
// Outputs stats to the log at a configurable interval. Updates and ticks come from the render
// goroutine, picks from the engine tick goroutine.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	updateCount    int
	skippedCount   int
	pickCount      int
	hovered        int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now  func() time.Time
	logf func(format string, args ...any)
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		hovered:        -1,
		updateInterval: time.Second,
		now:            time.Now,
		logf:           log.Printf,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordUpdate counts one scene update.
//
// Parameters:
//   - skipped: whether the update was skipped for a degenerate viewport
//   - hovered: the hovered star index, or -1
func (p *Profiler) RecordUpdate(skipped bool, hovered int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateCount++
	if skipped {
		p.skippedCount++
	}
	p.hovered = hovered
}

// RecordPick counts one hover pick.
func (p *Profiler) RecordPick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pickCount++
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, scene updates and skips, picks, the hovered star, heap usage,
// allocation rate, GC count and total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	s := Stats{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		Updates:        p.updateCount,
		SkippedUpdates: p.skippedCount,
		Picks:          p.pickCount,
		Hovered:        p.hovered,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        p.memStats.NumGC,
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
	}

	p.logf("[Profiler] FPS: %.2f | Updates: %d (skipped: %d) | Picks: %d | Hovered: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
		s.FPS, s.Updates, s.SkippedUpdates, s.Picks, s.Hovered, s.HeapMB, s.AllocRateMB, s.GCCount, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.updateCount = 0
	p.skippedCount = 0
	p.pickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats logged by the most recent reporting Tick.
//
// Returns:
//   - Stats: the last reported stats, zero before the first report
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
