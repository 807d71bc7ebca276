package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
)

// engine implements the Engine interface.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration // dynamic tick rate updates

	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	postTickCallback func(deltaTime float32, writes int)

	scenes map[int]scene.Scene
	ticks  atomic.Uint64
}

// Engine drives scene animation at a fixed tick rate. Each tick calls the tick
// callback, updates every active scene in ascending key order, then calls the
// post-tick callback with the number of samples written.
type Engine interface {
	// EnableProfiler enables tick rate and memory statistics in the log.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// Takes effect immediately when the engine is running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the current tick interval.
	TickRate() time.Duration

	// SetTickCallback registers the function called at the start of each tick,
	// before scenes update. Use it to apply playback commands.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetPostTickCallback registers the function called after scenes updated.
	// Use it to publish poses.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds and the samples written
	SetPostTickCallback(callback func(deltaTime float32, writes int))

	// AddScene registers a scene at the given key. Scenes update in ascending key order.
	//
	// Parameters:
	//   - key: the update order key
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given key.
	//
	// Parameters:
	//   - key: the key of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given key, or nil.
	//
	// Parameters:
	//   - key: the key of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by update order.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Tick runs one tick immediately, outside the ticker.
	//
	// Parameters:
	//   - deltaTime: passed to the callbacks, in seconds
	//
	// Returns:
	//   - int: samples written by all active scenes
	Tick(deltaTime float32) int

	// Ticks returns how many ticks have run.
	Ticks() uint64

	// Run starts the tick loop and blocks until ctx is done or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit
	Run(ctx context.Context) error

	// Quit stops the tick loop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Run(ctx context.Context) error {
	if e.running.Swap(true) {
		common.Logger().Warn("engine: Run called while already running")
		return nil
	}
	defer e.running.Store(false)

	e.mu.RLock()
	rate := e.engineTickRate
	e.mu.RUnlock()
	common.Logger().Info("engine: running", "tick_rate", rate, "scenes", len(e.Scenes()))

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.Tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

func (e *engine) Tick(dt float32) int {
	e.mu.RLock()
	tickCb, postCb := e.tickCallback, e.postTickCallback
	e.mu.RUnlock()

	if tickCb != nil {
		tickCb(dt)
	}

	writes := 0
	for _, s := range e.activeScenes() {
		writes += s.Update()
	}
	e.ticks.Add(1)

	if postCb != nil {
		postCb(dt, writes)
	}
	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick(writes)
	}
	return writes
}

// activeScenes returns the active scenes in ascending key order.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.RLock()
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	e.mu.RUnlock()
	return active
}

func (e *engine) Ticks() uint64 {
	return e.ticks.Load()
}

// Quit closes the quit channel once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()

	if e.running.Load() {
		// replace any pending update that the loop has not consumed yet
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	}
}

func (e *engine) TickRate() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.engineTickRate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetPostTickCallback(callback func(deltaTime float32, writes int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.postTickCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
