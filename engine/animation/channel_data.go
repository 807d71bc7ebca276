package animation

import (
	"fmt"
	"math"
)

// ChannelData is the already-parsed keyframe track an importer hands to NewChannel.
type ChannelData struct {
	// Name is an optional label used in logs and errors.
	Name string

	// Path selects the target property and sample arity.
	Path Path

	// Interpolation selects the curve evaluated between keyframes.
	Interpolation Interpolation

	// Timestamps are keyframe times in seconds, non-decreasing, at least two.
	Timestamps []float32

	// Samples holds one value per timestamp, or for cubic splines three per
	// timestamp ordered (in-tangent, value, out-tangent).
	Samples [][]float32

	// Target is the entity the channel writes into. Not owned.
	Target Target
}

// Validate checks the data's shape against its path and interpolation mode.
//
// Returns:
//   - int: the per-sample arity
//   - error: an error wrapping ErrInvalidChannelData describing the first violation
func (d ChannelData) Validate() (int, error) {
	if !d.Path.valid() {
		return 0, fmt.Errorf("%w: unknown path %v", ErrInvalidChannelData, d.Path)
	}
	if !d.Interpolation.valid() {
		return 0, fmt.Errorf("%w: unknown interpolation %v", ErrInvalidChannelData, d.Interpolation)
	}
	if d.Target == nil {
		return 0, fmt.Errorf("%w: %s channel has no target", ErrInvalidChannelData, d.Path)
	}

	n := len(d.Timestamps)
	if n < 2 {
		return 0, fmt.Errorf("%w: need at least 2 timestamps, got %d", ErrInvalidChannelData, n)
	}
	for i, ts := range d.Timestamps {
		if math.IsNaN(float64(ts)) || math.IsInf(float64(ts), 0) || ts < 0 {
			return 0, fmt.Errorf("%w: timestamp %d is %v", ErrInvalidChannelData, i, ts)
		}
		if i > 0 && ts < d.Timestamps[i-1] {
			return 0, fmt.Errorf("%w: timestamps decrease at index %d (%v < %v)", ErrInvalidChannelData, i, ts, d.Timestamps[i-1])
		}
	}

	want := n * d.Interpolation.samplesPerKeyframe()
	if len(d.Samples) != want {
		return 0, fmt.Errorf("%w: %s %s channel with %d timestamps needs %d samples, got %d",
			ErrInvalidChannelData, d.Interpolation, d.Path, n, want, len(d.Samples))
	}

	arity := d.Path.FixedArity()
	if arity == 0 {
		arity = len(d.Samples[0])
		if arity == 0 {
			return 0, fmt.Errorf("%w: weights samples are empty", ErrInvalidChannelData)
		}
	}
	for i, s := range d.Samples {
		if len(s) != arity {
			return 0, fmt.Errorf("%w: sample %d has %d components, want %d", ErrInvalidChannelData, i, len(s), arity)
		}
	}
	return arity, nil
}

// NewChannels builds a channel for every entry in data, failing on the first invalid one.
//
// Parameters:
//   - data: the channel descriptions
//
// Returns:
//   - []Channel: the channels, in input order
//   - error: an error wrapping ErrInvalidChannelData naming the failing index
func NewChannels(data []ChannelData) ([]Channel, error) {
	channels := make([]Channel, 0, len(data))
	for i, d := range data {
		ch, err := NewChannel(d)
		if err != nil {
			return nil, fmt.Errorf("channel %d (%s): %w", i, d.Name, err)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
