package animation

import "fmt"

// Field names a mutable clip property observable through OnChanged.
type Field int

const (
	FieldEnabled Field = iota
	FieldLoop
	FieldAutoplay
	FieldPlaying
	FieldTime

	fieldCount
)

// String returns the lower-case field name.
func (f Field) String() string {
	switch f {
	case FieldEnabled:
		return "enabled"
	case FieldLoop:
		return "loop"
	case FieldAutoplay:
		return "autoplay"
	case FieldPlaying:
		return "playing"
	case FieldTime:
		return "time"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ClipConfig is a partial update applied by Clip.Set. Nil fields are left untouched.
type ClipConfig struct {
	Enabled  *bool
	Loop     *bool
	Autoplay *bool
	Playing  *bool

	// Time seeks the playhead, clamped to [0, duration]. It is applied after the
	// playback restart triggered by Autoplay or Playing.
	Time *float32
}

// Bool returns a pointer to v, for building a ClipConfig inline.
func Bool(v bool) *bool {
	return &v
}

// Float32 returns a pointer to v, for building a ClipConfig inline.
func Float32(v float32) *float32 {
	return &v
}

// ChangeListener is notified synchronously after a field of c changed.
// Listeners may read the clip but must not call Set on it.
type ChangeListener func(c Clip, field Field)

// DurationPolicy decides how a clip derives its duration from its channels.
type DurationPolicy int

const (
	// DurationLongestChannel uses the largest last timestamp across all channels.
	DurationLongestChannel DurationPolicy = iota

	// DurationFirstChannel uses the first channel's last timestamp.
	DurationFirstChannel
)

// WeightsPolicy decides what a weights channel writes into the morph component.
type WeightsPolicy int

const (
	// WeightsInterpolated writes the channel's interpolated sample, like every other path.
	WeightsInterpolated WeightsPolicy = iota

	// WeightsNextKeyframe writes the raw value of the bracket's next keyframe.
	WeightsNextKeyframe
)
