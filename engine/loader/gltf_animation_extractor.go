package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into clip sources.
// Channels target nodes by name, falling back to "node_<index>" for unnamed nodes.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - clipSource: the extracted clip
	//   - error: error if an accessor cannot be read or has the wrong shape
	ExtractAnimation(animIndex int) (clipSource, error)

	// ExtractAllAnimations extracts every animation in the document, in order.
	//
	// Returns:
	//   - []clipSource: all extracted clips
	//   - error: error if any extraction fails
	ExtractAllAnimations() ([]clipSource, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

// nodeTargetName is the name a channel uses to find its target node.
func nodeTargetName(doc *gltfDocument, index int) string {
	if index >= 0 && index < len(doc.Nodes) && doc.Nodes[index].Name != "" {
		return doc.Nodes[index].Name
	}
	return fmt.Sprintf("node_%d", index)
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (clipSource, error) {
	doc := e.parser.Document()
	if doc == nil {
		return clipSource{}, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return clipSource{}, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}
	src := clipSource{name: name}

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		if ch.Target.Node == nil {
			common.Logger().Debug("loader: skipping channel without a target node", "clip", name, "channel", i)
			continue
		}
		path, err := animation.ParsePath(ch.Target.Path)
		if err != nil {
			// extension paths such as KHR_animation_pointer are not animated here
			common.Logger().Debug("loader: skipping channel", "clip", name, "channel", i, "err", err)
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return clipSource{}, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		data, err := e.extractChannel(path, sampler)
		if err != nil {
			return clipSource{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		var defaults []float32
		if path == animation.PathWeights {
			if defaults, err = morphDefaults(doc, *ch.Target.Node, len(data.Samples[0])); err != nil {
				return clipSource{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}
		}
		target := nodeTargetName(doc, *ch.Target.Node)
		data.Name = fmt.Sprintf("%s.%s", target, path)
		src.channels = append(src.channels, channelSource{target: target, data: data, defaults: defaults})
	}
	return src, nil
}

// morphDefaults checks a weights channel's arity against the morph targets of the
// node's mesh and returns the node's default weights, falling back to the mesh's.
// Nodes without a mesh are not checked and have no defaults.
func morphDefaults(doc *gltfDocument, nodeIndex, arity int) ([]float32, error) {
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return nil, fmt.Errorf("%w: target node %d out of range", animation.ErrInvalidChannelData, nodeIndex)
	}
	node := &doc.Nodes[nodeIndex]
	if node.Mesh == nil {
		return nil, nil
	}
	if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: node %d references mesh %d out of range", animation.ErrInvalidChannelData, nodeIndex, *node.Mesh)
	}
	mesh := &doc.Meshes[*node.Mesh]

	if len(mesh.Primitives) > 0 {
		if targets := len(mesh.Primitives[0].Targets); targets > 0 && targets != arity {
			return nil, fmt.Errorf("%w: weights channel has %d values per keyframe, mesh %d has %d morph targets",
				animation.ErrInvalidChannelData, arity, *node.Mesh, targets)
		}
	}

	defaults := node.Weights
	if len(defaults) == 0 {
		defaults = mesh.Weights
	}
	if len(defaults) == 0 {
		return nil, nil
	}
	if len(defaults) != arity {
		return nil, fmt.Errorf("%w: %d default weights for a channel of %d",
			animation.ErrInvalidChannelData, len(defaults), arity)
	}
	return common.CloneFloats(defaults), nil
}

func (e *gltfAnimationExtractorImpl) extractChannel(path animation.Path, sampler *gltfAnimSampler) (animation.ChannelData, error) {
	interp, err := animation.ParseInterpolation(sampler.Interpolation)
	if err != nil {
		return animation.ChannelData{}, err
	}

	timestamps, components, err := e.parser.ReadFloatAccessor(sampler.Input)
	if err != nil {
		return animation.ChannelData{}, fmt.Errorf("failed to read timestamps: %w", err)
	}
	if components != 1 {
		return animation.ChannelData{}, fmt.Errorf("%w: input accessor is not SCALAR", animation.ErrInvalidChannelData)
	}

	values, components, err := e.parser.ReadFloatAccessor(sampler.Output)
	if err != nil {
		return animation.ChannelData{}, fmt.Errorf("failed to read %s values: %w", path, err)
	}

	perKey := 1
	if interp == animation.InterpolationCubicSpline {
		perKey = 3
	}
	sampleCount := len(timestamps) * perKey
	if sampleCount == 0 {
		return animation.ChannelData{}, fmt.Errorf("%w: sampler has no keyframes", animation.ErrInvalidChannelData)
	}

	// weights outputs are SCALAR accessors holding every morph target per keyframe
	arity := components
	if path == animation.PathWeights {
		if len(values)%sampleCount != 0 {
			return animation.ChannelData{}, fmt.Errorf("%w: %d weight values do not divide into %d samples",
				animation.ErrInvalidChannelData, len(values), sampleCount)
		}
		arity = len(values) / sampleCount
	} else if arity != path.FixedArity() {
		return animation.ChannelData{}, fmt.Errorf("%w: %s output has %d components, want %d",
			animation.ErrInvalidChannelData, path, arity, path.FixedArity())
	}
	if len(values) != sampleCount*arity {
		return animation.ChannelData{}, fmt.Errorf("%w: %d output values for %d samples of %d",
			animation.ErrInvalidChannelData, len(values), sampleCount, arity)
	}

	samples := make([][]float32, sampleCount)
	for j := range samples {
		samples[j] = values[j*arity : (j+1)*arity : (j+1)*arity]
	}

	return animation.ChannelData{
		Path:          path,
		Interpolation: interp,
		Timestamps:    timestamps,
		Samples:       samples,
	}, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations() ([]clipSource, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	clips := make([]clipSource, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}
	return clips, nil
}
