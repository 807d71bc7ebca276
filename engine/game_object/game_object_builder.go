package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name animation channels and clip files use to address the GameObject.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject's animations are updated.
//
// Parameters:
//   - enabled: true to update the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial translation of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation sets the initial rotation of the GameObject. The quaternion is normalized.
//
// Parameters:
//   - q: the rotation as (x, y, z, w)
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(q [4]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = common.NormalizeQuat(q)
	}
}

// WithMorphTargets gives the GameObject a morph component with n zeroed weights.
// Objects without one are skipped by weights channels.
//
// Parameters:
//   - n: the number of morph targets
//
// Returns:
//   - GameObjectBuilderOption: functional option to add the morph component
func WithMorphTargets(n int) GameObjectBuilderOption {
	return func(obj *gameObject) {
		if n <= 0 {
			return
		}
		obj.hasMorph = true
		obj.weights = make([]float32, n)
	}
}

// WithAnimation attaches a clip to the GameObject, as AddAnimation does.
//
// Parameters:
//   - clip: the clip to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the clip
func WithAnimation(clip animation.Clip) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.AddAnimation(clip)
	}
}
