package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/tween"
	"gopkg.in/yaml.v2"
)

// yamlFile is either a single clip at the top level or a list under clips.
type yamlFile struct {
	yamlClip `yaml:",inline"`
	Clips    []yamlClip `yaml:"clips"`
}

type yamlClip struct {
	Name     string        `yaml:"name"`
	Loop     bool          `yaml:"loop"`
	Autoplay bool          `yaml:"autoplay"`
	Channels []yamlChannel `yaml:"channels"`
}

// yamlChannel holds either explicit keyframes or a tween to bake.
type yamlChannel struct {
	Target        string      `yaml:"target"`
	Path          string      `yaml:"path"`
	Interpolation string      `yaml:"interpolation"`
	Timestamps    []float32   `yaml:"timestamps"`
	Samples       [][]float32 `yaml:"samples"`
	Tween         *yamlTween  `yaml:"tween"`
}

type yamlTween struct {
	Ease     string    `yaml:"ease"`
	From     []float32 `yaml:"from"`
	To       []float32 `yaml:"to"`
	Delay    float32   `yaml:"delay"`
	Duration float32   `yaml:"duration"`
	Steps    int       `yaml:"steps"`
}

type yamlLoaderBackendImpl struct {
	// defaultName names an unnamed top-level clip.
	defaultName string
}

var _ loaderBackend = &yamlLoaderBackendImpl{}

func newYAMLLoaderBackend(defaultName string) loaderBackend {
	return &yamlLoaderBackendImpl{defaultName: defaultName}
}

func (b *yamlLoaderBackendImpl) Load(path string) ([]clipSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return decodeYAMLClips(f, name)
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader) ([]clipSource, error) {
	return decodeYAMLClips(r, b.defaultName)
}

// DecodeYAML reads clips from a YAML clip file and binds them with resolver.
//
// Parameters:
//   - r: the YAML document
//   - resolver: maps channel target names to objects
//
// Returns:
//   - []ClipData: the clips, in file order
//   - error: error if the document is malformed
func DecodeYAML(r io.Reader, resolver TargetResolver) ([]ClipData, error) {
	sources, err := decodeYAMLClips(r, "clip")
	if err != nil {
		return nil, err
	}
	return bindAll(sources, resolver), nil
}

func decodeYAMLClips(r io.Reader, defaultName string) ([]clipSource, error) {
	var file yamlFile
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse clip YAML: %w", err)
	}

	clips := file.Clips
	if len(file.Channels) > 0 {
		clips = append([]yamlClip{file.yamlClip}, clips...)
	}

	sources := make([]clipSource, 0, len(clips))
	for i, yc := range clips {
		name := yc.Name
		if name == "" {
			name = defaultName
			if len(clips) > 1 {
				name = fmt.Sprintf("%s_%d", defaultName, i)
			}
		}
		src := clipSource{name: name, loop: yc.Loop, autoplay: yc.Autoplay}
		for j, ych := range yc.Channels {
			data, err := ych.channelData()
			if err != nil {
				return nil, fmt.Errorf("clip %q channel %d: %w", name, j, err)
			}
			data.Name = fmt.Sprintf("%s.%s", ych.Target, data.Path)
			src.channels = append(src.channels, channelSource{target: ych.Target, data: data})
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (ych yamlChannel) channelData() (animation.ChannelData, error) {
	if ych.Target == "" {
		return animation.ChannelData{}, fmt.Errorf("%w: channel has no target", animation.ErrInvalidChannelData)
	}
	path, err := animation.ParsePath(ych.Path)
	if err != nil {
		return animation.ChannelData{}, err
	}

	if ych.Tween != nil {
		if len(ych.Timestamps) > 0 || len(ych.Samples) > 0 {
			return animation.ChannelData{}, fmt.Errorf("%w: channel has both keyframes and a tween", animation.ErrInvalidChannelData)
		}
		fn, err := tween.EaseByName(ych.Tween.Ease)
		if err != nil {
			return animation.ChannelData{}, err
		}
		return tween.Bake(tween.Spec{
			Path:     path,
			From:     ych.Tween.From,
			To:       ych.Tween.To,
			Delay:    ych.Tween.Delay,
			Duration: ych.Tween.Duration,
			Steps:    ych.Tween.Steps,
			Ease:     fn,
		})
	}

	interp, err := animation.ParseInterpolation(ych.Interpolation)
	if err != nil {
		return animation.ChannelData{}, err
	}
	return animation.ChannelData{
		Path:          path,
		Interpolation: interp,
		Timestamps:    ych.Timestamps,
		Samples:       ych.Samples,
	}, nil
}
