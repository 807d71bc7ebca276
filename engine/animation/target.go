package animation

// TransformComponent receives the translation, rotation and scale written by a clip.
// Implementations must copy the values they keep.
type TransformComponent interface {
	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - p: the translation (x, y, z)
	SetPosition(p [3]float32)

	// SetRotation sets the local rotation.
	//
	// Parameters:
	//   - q: a unit quaternion in (x, y, z, w) order
	SetRotation(q [4]float32)

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the per-axis scale factors
	SetScale(s [3]float32)
}

// MorphComponent receives morph target weights written by a clip.
type MorphComponent interface {
	// SetWeights replaces the morph weights. The slice is owned by the caller and
	// is overwritten on the next update, so implementations must copy it.
	//
	// Parameters:
	//   - w: one weight per morph target
	SetWeights(w []float32)
}

// Target is the scene entity a channel writes into. A clip never creates or
// destroys targets; it only calls the component setters.
type Target interface {
	// Transform returns the entity's transform component, or nil if it has none.
	Transform() TransformComponent

	// Morph returns the entity's morph component, or nil if it has none.
	Morph() MorphComponent
}
