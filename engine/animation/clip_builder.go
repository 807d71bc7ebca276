package animation

// ClipBuilderOption is a functional option for configuring a Clip during construction.
type ClipBuilderOption func(*clip)

// WithName sets the clip's label used in logs.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - ClipBuilderOption: functional option to set the name
func WithName(name string) ClipBuilderOption {
	return func(c *clip) {
		c.name = name
	}
}

// WithEnabled sets whether Update does any work. Clips are enabled by default.
//
// Parameters:
//   - enabled: false to make Update a no-op
//
// Returns:
//   - ClipBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) ClipBuilderOption {
	return func(c *clip) {
		c.enabled = enabled
	}
}

// WithLoop sets whether playback wraps at the end of the clip.
//
// Parameters:
//   - loop: true to wrap, false to stop at the end
//
// Returns:
//   - ClipBuilderOption: functional option to set looping
func WithLoop(loop bool) ClipBuilderOption {
	return func(c *clip) {
		c.loop = loop
	}
}

// WithAutoplay starts playback as soon as the clip is created.
//
// Parameters:
//   - autoplay: true to start playing immediately
//
// Returns:
//   - ClipBuilderOption: functional option to set autoplay
func WithAutoplay(autoplay bool) ClipBuilderOption {
	return func(c *clip) {
		c.autoplay = autoplay
	}
}

// WithClock replaces the wall clock used to measure elapsed time. Defaults to SystemClock.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - ClipBuilderOption: functional option to set the clock
func WithClock(clock Clock) ClipBuilderOption {
	return func(c *clip) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDurationPolicy selects how the clip duration is derived. Defaults to DurationLongestChannel.
//
// Parameters:
//   - policy: the duration policy
//
// Returns:
//   - ClipBuilderOption: functional option to set the duration policy
func WithDurationPolicy(policy DurationPolicy) ClipBuilderOption {
	return func(c *clip) {
		c.durationPolicy = policy
	}
}

// WithWeightsPolicy selects what weights channels write. Defaults to WeightsInterpolated.
//
// Parameters:
//   - policy: the weights policy
//
// Returns:
//   - ClipBuilderOption: functional option to set the weights policy
func WithWeightsPolicy(policy WeightsPolicy) ClipBuilderOption {
	return func(c *clip) {
		c.weightsPolicy = policy
	}
}

// WithListener registers a change listener before any autoplay notification is sent.
//
// Parameters:
//   - field: the observed field
//   - l: the listener
//
// Returns:
//   - ClipBuilderOption: functional option to register the listener
func WithListener(field Field, l ChangeListener) ClipBuilderOption {
	return func(c *clip) {
		c.OnChanged(field, l)
	}
}
