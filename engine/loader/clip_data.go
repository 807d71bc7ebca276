package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// TargetResolver maps a channel's target name onto a live animation target.
type TargetResolver interface {
	// ResolveTarget looks up a target by name.
	//
	// Parameters:
	//   - name: the node or object name recorded in the clip file
	//
	// Returns:
	//   - animation.Target: the target
	//   - bool: false if nothing has that name
	ResolveTarget(name string) (animation.Target, bool)
}

// TargetResolverFunc adapts a function to TargetResolver.
type TargetResolverFunc func(name string) (animation.Target, bool)

func (f TargetResolverFunc) ResolveTarget(name string) (animation.Target, bool) {
	return f(name)
}

// ClipData is a clip read from a file with every channel bound to a target.
type ClipData struct {
	// Name is the clip's label.
	Name string

	// Loop and Autoplay are the playback flags recorded in the file.
	Loop     bool
	Autoplay bool

	// Channels are ready for animation.NewChannels.
	Channels []animation.ChannelData
}

// clipSource is a parsed clip whose channels still name their targets.
// Sources are cached and bound to a resolver on every load.
type clipSource struct {
	name     string
	loop     bool
	autoplay bool
	channels []channelSource
}

type channelSource struct {
	target string
	data   animation.ChannelData

	// defaults are the rest weights seeded into the target's morph component on bind.
	defaults []float32
}

// bind resolves every channel target and seeds default morph weights into it.
// Channels whose target cannot be resolved are dropped with a warning so a
// partially matching scene still animates.
func (src clipSource) bind(resolver TargetResolver) ClipData {
	out := ClipData{
		Name:     src.name,
		Loop:     src.loop,
		Autoplay: src.autoplay,
		Channels: make([]animation.ChannelData, 0, len(src.channels)),
	}
	for _, ch := range src.channels {
		var target animation.Target
		ok := false
		if resolver != nil {
			target, ok = resolver.ResolveTarget(ch.target)
		}
		if !ok {
			common.Logger().Warn("loader: skipping channel with unresolved target",
				"clip", src.name, "target", ch.target, "path", ch.data.Path)
			continue
		}
		if ch.defaults != nil {
			if mc := target.Morph(); mc != nil {
				mc.SetWeights(ch.defaults)
			}
		}
		data := ch.data
		data.Target = target
		out.Channels = append(out.Channels, data)
	}
	return out
}

// BuildClip validates data's channels and wraps them in a clip named after data.
// The file's loop and autoplay flags are applied before options, so options win.
//
// Parameters:
//   - data: a bound clip description
//   - options: extra clip options such as animation.WithClock
//
// Returns:
//   - animation.Clip: the clip
//   - error: animation.ErrNoChannels when nothing is left to play, or the channel validation error
func BuildClip(data ClipData, options ...animation.ClipBuilderOption) (animation.Clip, error) {
	if len(data.Channels) == 0 {
		return nil, fmt.Errorf("clip %q: %w", data.Name, animation.ErrNoChannels)
	}
	channels, err := animation.NewChannels(data.Channels)
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", data.Name, err)
	}

	opts := make([]animation.ClipBuilderOption, 0, len(options)+3)
	opts = append(opts,
		animation.WithName(data.Name),
		animation.WithLoop(data.Loop),
		animation.WithAutoplay(data.Autoplay),
	)
	opts = append(opts, options...)
	return animation.NewClip(channels, opts...), nil
}
