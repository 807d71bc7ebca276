package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithCache enables or disables caching of parsed files.
//
// Parameters:
//   - enabled: whether parsed files are kept
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithCache(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.cacheEnabled = enabled
	}
}

// WithClipOptions sets options applied to every clip built by LoadClips, before
// the per-call options.
//
// Parameters:
//   - options: clip options such as animation.WithClock
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithClipOptions(options ...animation.ClipBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.clipOptions = append(l.clipOptions, options...)
	}
}
