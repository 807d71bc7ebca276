package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// Property names a game object field observable through OnPropertyChanged.
type Property string

const (
	PropertyPosition Property = "position"
	PropertyRotation Property = "rotation"
	PropertyScale    Property = "scale"
	PropertyWeights  Property = "weights"
)

// PropertyListener is called synchronously after a property of obj was set.
type PropertyListener func(obj GameObject, p Property)

type gameObject struct {
	mu *sync.RWMutex

	id      uint64
	name    string
	enabled atomic.Bool

	position [3]float32
	rotation [4]float32 // quaternion x, y, z, w
	scale    [3]float32
	weights  []float32
	hasMorph bool // fixed at construction

	animations []animation.Clip
	listeners  map[Property][]PropertyListener
}

// GameObject is a scene entity with a transform, optional morph weights and the
// animation clips that drive them. It implements animation.Target, so channels can
// write into it directly. Setters are safe for concurrent use.
type GameObject interface {
	animation.Target
	animation.TransformComponent
	animation.MorphComponent

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID, 0 until assigned
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the name animation channels use to address this object.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether the object's animations are updated.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object's animations are updated.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the local translation.
	//
	// Returns:
	//   - [3]float32: the translation
	Position() [3]float32

	// Rotation returns the local rotation.
	//
	// Returns:
	//   - [4]float32: a quaternion in (x, y, z, w) order
	Rotation() [4]float32

	// Scale returns the local scale.
	//
	// Returns:
	//   - [3]float32: the per-axis scale
	Scale() [3]float32

	// Weights returns a copy of the morph target weights, or nil if the object has no morph targets.
	//
	// Returns:
	//   - []float32: the weights
	Weights() []float32

	// Matrix composes the local model matrix from position, rotation and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the column-major TRS matrix
	Matrix() mgl32.Mat4

	// Animations returns the clips attached to this object.
	//
	// Returns:
	//   - []animation.Clip: the attached clips, in attachment order
	Animations() []animation.Clip

	// AddAnimation attaches a clip and records this object as its owner.
	//
	// Parameters:
	//   - clip: the clip to attach
	AddAnimation(clip animation.Clip)

	// UpdateAnimations advances every attached clip once, in attachment order.
	// Disabled objects do nothing.
	//
	// Returns:
	//   - int: the number of channel samples written
	UpdateAnimations() int

	// OnPropertyChanged registers l to be called after p is set.
	//
	// Parameters:
	//   - p: the observed property
	//   - l: the listener
	OnPropertyChanged(p Property, l PropertyListener)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled at the origin with identity rotation and unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:        &sync.RWMutex{},
		rotation:  common.QuatIdentity,
		scale:     [3]float32{1, 1, 1},
		listeners: make(map[Property][]PropertyListener),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Transform() animation.TransformComponent {
	return g
}

func (g *gameObject) Morph() animation.MorphComponent {
	if !g.hasMorph {
		return nil
	}
	return g
}

func (g *gameObject) Position() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Rotation() [4]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) Scale() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) Weights() []float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.CloneFloats(g.weights)
}

func (g *gameObject) Matrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.ModelMatrix(g.position, g.rotation, g.scale)
}

func (g *gameObject) SetPosition(p [3]float32) {
	g.mu.Lock()
	g.position = p
	g.mu.Unlock()
	g.notify(PropertyPosition)
}

func (g *gameObject) SetRotation(q [4]float32) {
	g.mu.Lock()
	g.rotation = q
	g.mu.Unlock()
	g.notify(PropertyRotation)
}

func (g *gameObject) SetScale(s [3]float32) {
	g.mu.Lock()
	g.scale = s
	g.mu.Unlock()
	g.notify(PropertyScale)
}

func (g *gameObject) SetWeights(w []float32) {
	g.mu.Lock()
	g.weights = append(g.weights[:0], w...)
	g.mu.Unlock()
	g.notify(PropertyWeights)
}

func (g *gameObject) Animations() []animation.Clip {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]animation.Clip(nil), g.animations...)
}

func (g *gameObject) AddAnimation(clip animation.Clip) {
	if clip == nil {
		return
	}
	clip.Init(g)
	g.mu.Lock()
	g.animations = append(g.animations, clip)
	g.mu.Unlock()
}

func (g *gameObject) UpdateAnimations() int {
	if !g.Enabled() {
		return 0
	}
	writes := 0
	for _, clip := range g.Animations() {
		clip.Update()
		writes += clip.LastWrites()
	}
	return writes
}

func (g *gameObject) OnPropertyChanged(p Property, l PropertyListener) {
	if l == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners[p] = append(g.listeners[p], l)
}

// notify runs p's listeners outside the lock so they may read the object.
func (g *gameObject) notify(p Property) {
	g.mu.RLock()
	ls := g.listeners[p]
	g.mu.RUnlock()
	for _, l := range ls {
		l(g, p)
	}
}
