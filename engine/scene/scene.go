package scene

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// Scene owns a registry of GameObjects and advances their animation clips once per
// frame. Objects are updated in parallel on a persistent worker pool while each
// object's clips run sequentially on one worker, so no clip is ever updated
// concurrently. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is updated by the engine.
	Active() bool

	// SetActive sets whether this scene is updated by the engine.
	SetActive(active bool)

	// Count returns the number of GameObjects in the scene.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject. Objects without an ID are assigned the next free one.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// FindByName returns the first GameObject, in ID order, with the given name.
	// Returns nil if none matches.
	//
	// Parameters:
	//   - name: the object name
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	FindByName(name string) game_object.GameObject

	// ResolveTarget looks up an animation target by object name. It lets clip
	// loaders bind channels to objects in this scene.
	//
	// Parameters:
	//   - name: the object name
	//
	// Returns:
	//   - animation.Target: the matching object
	//   - bool: false if no object has that name
	ResolveTarget(name string) (animation.Target, bool)

	// Remove removes a GameObject by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns the registered GameObjects sorted by ID.
	//
	// Returns:
	//   - []game_object.GameObject: a snapshot of the registry
	Objects() []game_object.GameObject

	// Update advances the clips of every enabled object once and blocks until all
	// of them finished.
	//
	// Returns:
	//   - int: the number of channel samples written
	Update() int

	// Release stops the scene's worker pool. Later Update calls run inline.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// computePool runs one task per animated object each frame. Workers persist
	// across frames; a WaitGroup provides the per-frame barrier.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	released       atomic.Bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		registry:       make(map[uint64]game_object.GameObject),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	common.Logger().Info("scene: created", "scene", name, "workers", s.computeWorkers, "objects", len(s.registry))
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.registry[id] = obj
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) FindByName(name string) game_object.GameObject {
	for _, obj := range s.Objects() {
		if obj.Name() == name {
			return obj
		}
	}
	return nil
}

func (s *scene) ResolveTarget(name string) (animation.Target, bool) {
	obj := s.FindByName(name)
	if obj == nil {
		return nil, false
	}
	return obj, true
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	objs := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		objs = append(objs, obj)
	}
	s.mu.RUnlock()

	slices.SortFunc(objs, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return objs
}

func (s *scene) Update() int {
	var writes atomic.Int64

	if s.released.Load() {
		for _, obj := range s.Objects() {
			writes.Add(int64(obj.UpdateAnimations()))
		}
		return int(writes.Load())
	}

	// Submit each animated object's clips to the compute pool. Workers are reused
	// across frames. A WaitGroup provides the per-frame barrier since pool.Wait()
	// also waits for unrelated queued work.
	var wg sync.WaitGroup
	taskID := 0
	for _, obj := range s.Objects() {
		if !obj.Enabled() || len(obj.Animations()) == 0 {
			continue
		}

		wg.Add(1)
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID:      id,
			Payload: obj.ID(),
			Do: func() (any, error) {
				defer wg.Done()
				writes.Add(int64(obj.UpdateAnimations()))
				return nil, nil
			},
		})
	}
	wg.Wait()
	return int(writes.Load())
}

func (s *scene) Release() {
	if s.released.Swap(true) {
		return
	}
	s.computePool.Stop()
	common.Logger().Info("scene: released", "scene", s.Name())
}
