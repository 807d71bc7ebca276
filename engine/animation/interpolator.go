package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Interpolator evaluates a channel inside a located bracket.
type Interpolator interface {
	// Interpolate writes the channel's value at bracket b into out.
	//
	// Parameters:
	//   - ch: the channel being sampled
	//   - b: a bracket produced by Locate for ch's timestamps
	//   - out: destination with exactly ch.Arity() components
	Interpolate(ch Channel, b Bracket, out []float32)
}

type stepInterpolator struct{}

type linearInterpolator struct{}

type cubicSplineInterpolator struct{}

var (
	_ Interpolator = stepInterpolator{}
	_ Interpolator = linearInterpolator{}
	_ Interpolator = cubicSplineInterpolator{}
)

// InterpolatorFor returns the shared Interpolator for mode. Unknown modes fall back to linear.
//
// Parameters:
//   - mode: the interpolation mode
//
// Returns:
//   - Interpolator: a stateless interpolator, safe for concurrent use
func InterpolatorFor(mode Interpolation) Interpolator {
	switch mode {
	case InterpolationStep:
		return stepInterpolator{}
	case InterpolationCubicSpline:
		return cubicSplineInterpolator{}
	}
	return linearInterpolator{}
}

// Interpolate holds the previous keyframe over [t_prev, t_next); a query landing
// exactly on the next keyframe (U = 1) yields that keyframe.
func (stepInterpolator) Interpolate(ch Channel, b Bracket, out []float32) {
	if b.U >= 1 {
		copy(out, ch.Value(b.Next))
		return
	}
	copy(out, ch.Value(b.Prev))
}

func (linearInterpolator) Interpolate(ch Channel, b Bracket, out []float32) {
	prev, next := ch.Value(b.Prev), ch.Value(b.Next)
	if ch.Path() == PathRotation {
		q := common.SlerpQuat(common.QuatFromSlice(prev), common.QuatFromSlice(next), b.U)
		copy(out, q[:])
		return
	}
	common.LerpInto(out, prev, next, b.U)
}

func (cubicSplineInterpolator) Interpolate(ch Channel, b Bracket, out []float32) {
	dt := b.Dt()
	h00, h10, h01, h11 := common.HermiteBasis(b.U)

	common.ScaleInto(out, ch.Value(b.Prev), h00)
	common.AddScaled(out, ch.Value(b.Next), h01)

	// the first keyframe has no incoming interval and the last no outgoing one,
	// so their tangents contribute nothing
	if b.Prev > 0 {
		common.AddScaled(out, ch.OutTangent(b.Prev), h10*dt)
	}
	if b.Next < ch.KeyframeCount()-1 {
		common.AddScaled(out, ch.InTangent(b.Next), h11*dt)
	}

	if ch.Path() == PathRotation {
		q := common.NormalizeQuat(common.QuatFromSlice(out))
		copy(out, q[:])
	}
}
