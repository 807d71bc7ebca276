package animation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

type clip struct {
	name     string
	channels []Channel
	entity   Target

	enabled  bool
	playing  bool
	loop     bool
	autoplay bool
	time     float32
	duration float32
	lastTick time.Time

	clock          Clock
	durationPolicy DurationPolicy
	weightsPolicy  WeightsPolicy

	listeners [fieldCount][]ChangeListener
	merging   bool

	// scratch buffers reused every tick
	currentVector   []float32
	currentRotation [4]float32
	lastWrites      int
}

// Clip plays a fixed set of channels against their targets. A clip advances its
// own playhead from a Clock each time Update is called and is not safe for
// concurrent use; drive it from one goroutine.
type Clip interface {
	// Name returns the clip's label.
	Name() string

	// Init records the entity that owns this clip.
	//
	// Parameters:
	//   - entity: the owning entity
	Init(entity Target)

	// Entity returns the owning entity recorded by Init, or nil.
	Entity() Target

	// Channels returns the clip's channels. The slice must not be modified.
	Channels() []Channel

	// Duration returns the clip length in seconds as derived by the duration policy.
	Duration() float32

	// Time returns the current playhead in seconds, within [0, Duration()].
	Time() float32

	// Enabled reports whether Update does any work.
	Enabled() bool

	// Playing reports whether the playhead advances.
	Playing() bool

	// Loop reports whether playback wraps at the end instead of stopping.
	Loop() bool

	// Autoplay reports whether the clip was configured to start on its own.
	Autoplay() bool

	// Set merges cfg into the clip's playback state and notifies listeners of every
	// field whose value changed, in declaration order. Setting Playing or Autoplay
	// to true restarts playback from time 0 and resynchronizes the clock.
	// Calls made from inside a listener are ignored.
	//
	// Parameters:
	//   - cfg: the fields to change
	Set(cfg ClipConfig)

	// OnChanged registers l to be called after field changes.
	//
	// Parameters:
	//   - field: the observed field
	//   - l: the listener
	OnChanged(field Field, l ChangeListener)

	// Update advances the playhead by the wall-clock time elapsed since the previous
	// update and writes every channel's sample to its target. It is a no-op while
	// the clip is disabled, stopped, or has no channels.
	Update()

	// CurrentVectorSample returns the most recent non-rotation sample. The slice is
	// overwritten by the next Update; copy it to keep it.
	CurrentVectorSample() []float32

	// CurrentRotationSample returns the most recent rotation sample in (x, y, z, w) order.
	CurrentRotationSample() [4]float32

	// LastWrites returns how many channel samples the previous Update wrote.
	LastWrites() int
}

var _ Clip = &clip{}

// NewClip creates a clip over channels configured with the given options.
// A clip is enabled, stopped and non-looping unless options say otherwise;
// WithAutoplay(true) starts playback immediately.
//
// Parameters:
//   - channels: the channel set, fixed for the clip's lifetime
//   - options: functional options to configure the clip
//
// Returns:
//   - Clip: the newly created clip
func NewClip(channels []Channel, options ...ClipBuilderOption) Clip {
	c := &clip{
		channels: channels,
		enabled:  true,
		clock:    SystemClock,
	}
	for _, option := range options {
		option(c)
	}

	maxArity := 3
	for _, ch := range c.channels {
		maxArity = max(maxArity, ch.Arity())
	}
	c.currentVector = make([]float32, maxArity)
	c.currentRotation = common.QuatIdentity
	c.duration = c.computeDuration()
	c.lastTick = c.clock.Now()

	if c.autoplay {
		c.Set(ClipConfig{Autoplay: Bool(true)})
	}
	return c
}

func (c *clip) computeDuration() float32 {
	if len(c.channels) == 0 {
		return 0
	}
	first := c.channels[0].Duration()
	longest := first
	for _, ch := range c.channels[1:] {
		longest = max(longest, ch.Duration())
	}
	if longest != first {
		common.Logger().Warn("animation: channel durations differ",
			"clip", c.name, "first", first, "longest", longest, "policy", c.durationPolicy)
	}
	if c.durationPolicy == DurationFirstChannel {
		return first
	}
	return longest
}

func (c *clip) Name() string {
	return c.name
}

func (c *clip) Init(entity Target) {
	c.entity = entity
}

func (c *clip) Entity() Target {
	return c.entity
}

func (c *clip) Channels() []Channel {
	return c.channels
}

func (c *clip) Duration() float32 {
	return c.duration
}

func (c *clip) Time() float32 {
	return c.time
}

func (c *clip) Enabled() bool {
	return c.enabled
}

func (c *clip) Playing() bool {
	return c.playing
}

func (c *clip) Loop() bool {
	return c.loop
}

func (c *clip) Autoplay() bool {
	return c.autoplay
}

func (c *clip) CurrentVectorSample() []float32 {
	return c.currentVector
}

func (c *clip) CurrentRotationSample() [4]float32 {
	return c.currentRotation
}

func (c *clip) LastWrites() int {
	return c.lastWrites
}

func (c *clip) OnChanged(field Field, l ChangeListener) {
	if field < 0 || field >= fieldCount || l == nil {
		return
	}
	c.listeners[field] = append(c.listeners[field], l)
}

func (c *clip) Set(cfg ClipConfig) {
	if c.merging {
		common.Logger().Warn("animation: ignoring re-entrant Set from a change listener", "clip", c.name)
		return
	}
	c.merging = true
	defer func() { c.merging = false }()

	var changed [fieldCount]bool
	prevTime := c.time

	if cfg.Enabled != nil && *cfg.Enabled != c.enabled {
		c.enabled = *cfg.Enabled
		changed[FieldEnabled] = true
		if c.enabled {
			// time spent disabled is not played back
			c.lastTick = c.clock.Now()
		}
	}
	if cfg.Loop != nil && *cfg.Loop != c.loop {
		c.loop = *cfg.Loop
		changed[FieldLoop] = true
	}
	if cfg.Autoplay != nil && *cfg.Autoplay != c.autoplay {
		c.autoplay = *cfg.Autoplay
		changed[FieldAutoplay] = true
	}
	if cfg.Playing != nil && *cfg.Playing != c.playing {
		c.playing = *cfg.Playing
		changed[FieldPlaying] = true
	}

	if (cfg.Autoplay != nil && *cfg.Autoplay) || (cfg.Playing != nil && *cfg.Playing) {
		if !c.playing {
			c.playing = true
			changed[FieldPlaying] = true
		}
		c.time = 0
		c.lastTick = c.clock.Now()
		common.Logger().Debug("animation: playback started", "clip", c.name)
	}

	if cfg.Time != nil {
		c.time = common.Clamp(*cfg.Time, 0, c.duration)
	}
	changed[FieldTime] = c.time != prevTime

	for f := range fieldCount {
		if !changed[f] {
			continue
		}
		for _, l := range c.listeners[f] {
			l(c, f)
		}
	}
}

func (c *clip) Update() {
	c.lastWrites = 0
	if !c.playing || !c.enabled || len(c.channels) == 0 {
		return
	}

	now := c.clock.Now()
	delta := max(float32(now.Sub(c.lastTick).Seconds()), 0)
	c.lastTick = now
	c.time += delta

	if c.time > c.duration {
		if c.loop {
			c.time = common.Mod(c.time, c.duration)
		} else {
			c.time = 0
			c.Set(ClipConfig{Playing: Bool(false)})
			common.Logger().Debug("animation: playback finished", "clip", c.name)
		}
	}

	for _, ch := range c.channels {
		if c.apply(ch) {
			c.lastWrites++
		}
	}
}

// apply samples ch at the current time and writes the result to its target.
func (c *clip) apply(ch Channel) bool {
	target := ch.Target()
	if target == nil {
		return false
	}

	switch ch.Path() {
	case PathRotation:
		tc := target.Transform()
		if tc == nil {
			return false
		}
		if _, ok := ch.Sample(c.time, c.currentRotation[:]); !ok {
			return false
		}
		tc.SetRotation(c.currentRotation)

	case PathTranslation, PathScale:
		tc := target.Transform()
		if tc == nil {
			return false
		}
		out := c.currentVector[:3]
		if _, ok := ch.Sample(c.time, out); !ok {
			return false
		}
		v := [3]float32{out[0], out[1], out[2]}
		if ch.Path() == PathTranslation {
			tc.SetPosition(v)
		} else {
			tc.SetScale(v)
		}

	case PathWeights:
		mc := target.Morph()
		if mc == nil {
			return false
		}
		out := c.currentVector[:ch.Arity()]
		b, ok := ch.Sample(c.time, out)
		if !ok {
			return false
		}
		if c.weightsPolicy == WeightsNextKeyframe {
			copy(out, ch.Value(b.Next))
		}
		mc.SetWeights(out)

	default:
		return false
	}
	return true
}
