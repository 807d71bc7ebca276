package animation

import "errors"

var (
	// ErrInvalidChannelData reports channel data whose shape does not match its
	// declared path and interpolation mode. Returned errors wrap it with a reason.
	ErrInvalidChannelData = errors.New("animation: invalid channel data")

	// ErrNoChannels is returned when a clip is built from an empty channel set.
	ErrNoChannels = errors.New("animation: clip has no channels")
)
