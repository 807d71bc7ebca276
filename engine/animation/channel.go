package animation

type channel struct {
	name          string
	path          Path
	interpolation Interpolation
	interpolator  Interpolator
	target        Target

	timestamps []float32
	values     []float32 // flat, stride arity; spline keyframes occupy three strides
	arity      int
}

// Channel is an immutable keyframe track driving one property path of one target.
// Its shape is validated once at construction and its interpolator is fixed.
type Channel interface {
	// Name returns the channel's label, possibly empty.
	Name() string

	// Path returns the property the channel drives.
	Path() Path

	// Interpolation returns the channel's interpolation mode.
	Interpolation() Interpolation

	// Target returns the entity the channel writes into.
	Target() Target

	// Timestamps returns the keyframe times. The slice must not be modified.
	Timestamps() []float32

	// KeyframeCount returns the number of keyframes.
	KeyframeCount() int

	// Arity returns the number of components per value.
	Arity() int

	// Duration returns the last keyframe time in seconds.
	Duration() float32

	// Value returns the value of keyframe i. The slice must not be modified.
	//
	// Parameters:
	//   - i: the keyframe index
	//
	// Returns:
	//   - []float32: the keyframe value, arity components
	Value(i int) []float32

	// InTangent returns the in-tangent of keyframe i for spline channels and nil otherwise.
	//
	// Parameters:
	//   - i: the keyframe index
	//
	// Returns:
	//   - []float32: the tangent, or nil
	InTangent(i int) []float32

	// OutTangent returns the out-tangent of keyframe i for spline channels and nil otherwise.
	//
	// Parameters:
	//   - i: the keyframe index
	//
	// Returns:
	//   - []float32: the tangent, or nil
	OutTangent(i int) []float32

	// Sample evaluates the channel at time t into out.
	// Nothing is written when t precedes the first keyframe.
	//
	// Parameters:
	//   - t: the query time in seconds
	//   - out: destination with at least Arity() components
	//
	// Returns:
	//   - Bracket: the interval used
	//   - bool: false when no bracket exists and out was left untouched
	Sample(t float32, out []float32) (Bracket, bool)
}

var _ Channel = &channel{}

// NewChannel validates data and builds an immutable Channel from it.
// Timestamps and samples are copied.
//
// Parameters:
//   - data: the channel description
//
// Returns:
//   - Channel: the new channel
//   - error: an error wrapping ErrInvalidChannelData when the data is malformed
func NewChannel(data ChannelData) (Channel, error) {
	arity, err := data.Validate()
	if err != nil {
		return nil, err
	}

	c := &channel{
		name:          data.Name,
		path:          data.Path,
		interpolation: data.Interpolation,
		interpolator:  InterpolatorFor(data.Interpolation),
		target:        data.Target,
		timestamps:    make([]float32, len(data.Timestamps)),
		values:        make([]float32, 0, len(data.Samples)*arity),
		arity:         arity,
	}
	copy(c.timestamps, data.Timestamps)
	for _, s := range data.Samples {
		c.values = append(c.values, s...)
	}
	return c, nil
}

func (c *channel) Name() string {
	return c.name
}

func (c *channel) Path() Path {
	return c.path
}

func (c *channel) Interpolation() Interpolation {
	return c.interpolation
}

func (c *channel) Target() Target {
	return c.target
}

func (c *channel) Timestamps() []float32 {
	return c.timestamps
}

func (c *channel) KeyframeCount() int {
	return len(c.timestamps)
}

func (c *channel) Arity() int {
	return c.arity
}

func (c *channel) Duration() float32 {
	return c.timestamps[len(c.timestamps)-1]
}

func (c *channel) Value(i int) []float32 {
	if c.interpolation == InterpolationCubicSpline {
		return c.stride(3*i + 1)
	}
	return c.stride(i)
}

func (c *channel) InTangent(i int) []float32 {
	if c.interpolation != InterpolationCubicSpline {
		return nil
	}
	return c.stride(3 * i)
}

func (c *channel) OutTangent(i int) []float32 {
	if c.interpolation != InterpolationCubicSpline {
		return nil
	}
	return c.stride(3*i + 2)
}

func (c *channel) Sample(t float32, out []float32) (Bracket, bool) {
	if len(out) < c.arity {
		return Bracket{}, false
	}
	b, ok := Locate(c.timestamps, t)
	if !ok {
		return b, false
	}
	c.interpolator.Interpolate(c, b, out[:c.arity])
	return b, true
}

// stride returns the s-th arity-sized window of values, or nil when out of range.
func (c *channel) stride(s int) []float32 {
	start := s * c.arity
	end := start + c.arity
	if s < 0 || end > len(c.values) {
		return nil
	}
	return c.values[start:end:end]
}
