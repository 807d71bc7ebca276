package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Stats is one reporting interval's summary.
type Stats struct {
	TickRate    float64
	WritesPerS  float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks tick rate, sample throughput and memory statistics.
// Stats are logged through common.Logger at a configurable interval.
// Not safe for concurrent use; call Tick from the tick loop.
type Profiler struct {
	tickCount      int
	writeCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now func() time.Time
}

// NewProfiler creates a new Profiler reporting every interval.
// Non-positive intervals default to 1 second.
//
// Parameters:
//   - interval: how often stats are logged
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per engine tick with the number of channel samples
// written. Logs statistics when the update interval has elapsed.
//
// Parameters:
//   - writes: samples written this tick
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(writes int) bool {
	p.tickCount++
	p.writeCount += writes
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	secs := elapsed.Seconds()
	s := Stats{
		TickRate:    float64(p.tickCount) / secs,
		WritesPerS:  float64(p.writeCount) / secs,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / secs,
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("profiler",
		"tps", s.TickRate,
		"writes_per_s", s.WritesPerS,
		"heap_mb", s.HeapMB,
		"alloc_mb_per_s", s.AllocRateMB,
		"gc", s.NumGC,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB)

	p.last = s
	p.tickCount = 0
	p.writeCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged Stats.
func (p *Profiler) Last() Stats {
	return p.last
}
