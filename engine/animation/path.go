package animation

import (
	"fmt"
	"strings"
)

// Path identifies which target property a channel drives.
type Path int

const (
	// PathTranslation drives the target transform's position (vec3).
	PathTranslation Path = iota

	// PathRotation drives the target transform's rotation (quaternion x, y, z, w).
	PathRotation

	// PathScale drives the target transform's scale (vec3).
	PathScale

	// PathWeights drives the target morph component's weights (vec n).
	PathWeights
)

// String returns the glTF spelling of the path.
func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	case PathWeights:
		return "weights"
	}
	return fmt.Sprintf("Path(%d)", int(p))
}

// FixedArity returns the number of components per sample for the path, or 0 for
// PathWeights whose arity depends on the target's morph target count.
func (p Path) FixedArity() int {
	switch p {
	case PathTranslation, PathScale:
		return 3
	case PathRotation:
		return 4
	}
	return 0
}

func (p Path) valid() bool {
	return p >= PathTranslation && p <= PathWeights
}

// ParsePath converts a glTF channel target path into a Path.
//
// Parameters:
//   - s: one of "translation", "rotation", "scale" or "weights" (case-insensitive)
//
// Returns:
//   - Path: the parsed path
//   - error: ErrInvalidChannelData if the name is unknown
func ParsePath(s string) (Path, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "translation":
		return PathTranslation, nil
	case "rotation":
		return PathRotation, nil
	case "scale":
		return PathScale, nil
	case "weights":
		return PathWeights, nil
	}
	return 0, fmt.Errorf("%w: unknown path %q", ErrInvalidChannelData, s)
}

// Interpolation selects the curve used between keyframes.
// The zero value is InterpolationLinear, matching the glTF default.
type Interpolation int

const (
	// InterpolationLinear blends component-wise, or slerps rotations.
	InterpolationLinear Interpolation = iota

	// InterpolationStep holds the previous keyframe's value until the next keyframe.
	InterpolationStep

	// InterpolationCubicSpline evaluates a cubic Hermite curve from per-keyframe tangents.
	InterpolationCubicSpline
)

// String returns the glTF spelling of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "LINEAR"
	case InterpolationStep:
		return "STEP"
	case InterpolationCubicSpline:
		return "CUBICSPLINE"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// samplesPerKeyframe is 3 for cubic splines (in-tangent, value, out-tangent) and 1 otherwise.
func (i Interpolation) samplesPerKeyframe() int {
	if i == InterpolationCubicSpline {
		return 3
	}
	return 1
}

func (i Interpolation) valid() bool {
	return i >= InterpolationLinear && i <= InterpolationCubicSpline
}

// ParseInterpolation converts a glTF sampler interpolation name into an Interpolation.
// An empty name yields InterpolationLinear.
//
// Parameters:
//   - s: one of "STEP", "LINEAR", "CUBICSPLINE" (case-insensitive) or ""
//
// Returns:
//   - Interpolation: the parsed mode
//   - error: ErrInvalidChannelData if the name is unknown
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LINEAR":
		return InterpolationLinear, nil
	case "STEP":
		return InterpolationStep, nil
	case "CUBICSPLINE":
		return InterpolationCubicSpline, nil
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidChannelData, s)
}
