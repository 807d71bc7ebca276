// Package tween bakes eased transitions into ordinary LINEAR keyframe channels,
// so procedural motion plays through the same clip machinery as imported tracks.
package tween

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/fogleman/ease"
)

// EaseFunc maps normalized progress in [0, 1] to eased progress.
type EaseFunc func(t float64) float64

var easings = map[string]EaseFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
}

// DefaultSteps is the number of intervals baked when a Spec leaves Steps unset.
const DefaultSteps = 16

// Spec describes one eased transition.
type Spec struct {
	// Path is the property being tweened.
	Path animation.Path

	// From and To are the endpoint values. Rotations are quaternions (x, y, z, w).
	From []float32
	To   []float32

	// Delay is the time in seconds before the transition starts.
	Delay float32

	// Duration is the transition length in seconds, must be positive.
	Duration float32

	// Steps is the number of baked intervals; DefaultSteps when zero.
	Steps int

	// Ease shapes the progress curve; ease.Linear when nil.
	Ease EaseFunc
}

// EaseByName resolves an easing function by name, ignoring case, dashes and underscores.
// An empty name resolves to linear.
//
// Parameters:
//   - name: e.g. "InOutQuad", "out-sine" or "linear"
//
// Returns:
//   - EaseFunc: the easing function
//   - error: an error naming the supported easings when name is unknown
func EaseByName(name string) (EaseFunc, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	if key == "" {
		key = "linear"
	}
	if fn, ok := easings[key]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("tween: unknown easing %q (supported: %s)", name, strings.Join(EaseNames(), ", "))
}

// EaseNames returns the supported easing names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easings))
	for k := range easings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Bake samples spec into a LINEAR channel description. The caller sets Target.
// Rotations are slerped between the endpoints and every other path is lerped;
// the easing decides where along that path each keyframe lands.
//
// Parameters:
//   - spec: the transition to bake
//
// Returns:
//   - animation.ChannelData: keyframes at Delay + i*Duration/Steps
//   - error: an error wrapping animation.ErrInvalidChannelData when spec is malformed
func Bake(spec Spec) (animation.ChannelData, error) {
	if spec.Duration <= 0 {
		return animation.ChannelData{}, fmt.Errorf("%w: tween duration must be positive, got %v", animation.ErrInvalidChannelData, spec.Duration)
	}
	if spec.Delay < 0 {
		return animation.ChannelData{}, fmt.Errorf("%w: tween delay must not be negative, got %v", animation.ErrInvalidChannelData, spec.Delay)
	}
	if len(spec.From) == 0 || len(spec.From) != len(spec.To) {
		return animation.ChannelData{}, fmt.Errorf("%w: tween endpoints have %d and %d components", animation.ErrInvalidChannelData, len(spec.From), len(spec.To))
	}
	if arity := spec.Path.FixedArity(); arity != 0 && len(spec.From) != arity {
		return animation.ChannelData{}, fmt.Errorf("%w: %s tween needs %d components, got %d", animation.ErrInvalidChannelData, spec.Path, arity, len(spec.From))
	}

	steps := common.Coalesce(spec.Steps, DefaultSteps)
	if steps < 1 {
		steps = 1
	}
	fn := spec.Ease
	if fn == nil {
		fn = ease.Linear
	}

	data := animation.ChannelData{
		Path:          spec.Path,
		Interpolation: animation.InterpolationLinear,
		Timestamps:    make([]float32, 0, steps+1),
		Samples:       make([][]float32, 0, steps+1),
	}
	from, to := common.QuatFromSlice(spec.From), common.QuatFromSlice(spec.To)
	if spec.Delay > 0 {
		// hold the start value while delayed instead of leaving the target untouched
		hold := common.CloneFloats(spec.From)
		if spec.Path == animation.PathRotation {
			q := common.NormalizeQuat(from)
			copy(hold, q[:])
		}
		data.Timestamps = append(data.Timestamps, 0)
		data.Samples = append(data.Samples, hold)
	}
	for i := 0; i <= steps; i++ {
		p := float32(i) / float32(steps)
		u := float32(fn(float64(p)))
		data.Timestamps = append(data.Timestamps, spec.Delay+p*spec.Duration)

		sample := make([]float32, len(spec.From))
		if spec.Path == animation.PathRotation {
			q := common.SlerpQuat(from, to, u)
			copy(sample, q[:])
		} else {
			common.LerpInto(sample, spec.From, spec.To, u)
		}
		data.Samples = append(data.Samples, sample)
	}
	return data, nil
}
