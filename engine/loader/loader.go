package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

type loader struct {
	mu sync.RWMutex

	cache        map[string][]clipSource
	cacheEnabled bool

	clipOptions []animation.ClipBuilderOption
}

// Loader reads animation clips from glTF, GLB and YAML clip files and binds
// their channels to targets. Parsed files are cached by path so one file can
// be bound to many objects without being read again.
// Thread-safe for concurrent access.
type Loader interface {
	// Load reads every clip in the file at path and binds it with resolver.
	// The format is chosen from the extension (.gltf, .glb, .yaml, .yml).
	// Channels whose target cannot be resolved are skipped.
	//
	// Parameters:
	//   - path: the clip file
	//   - resolver: maps target names to animation targets
	//
	// Returns:
	//   - []ClipData: the bound clips, in file order
	//   - error: error if the format is unsupported or parsing fails
	Load(path string, resolver TargetResolver) ([]ClipData, error)

	// LoadReader reads clips from r in the given format and caches them under name.
	// Relative glTF buffer URIs are resolved against the directory of name.
	//
	// Parameters:
	//   - name: the cache key and default clip name
	//   - r: the reader providing clip data
	//   - format: the data format
	//   - resolver: maps target names to animation targets
	//
	// Returns:
	//   - []ClipData: the bound clips
	//   - error: error if parsing fails
	LoadReader(name string, r io.Reader, format Format, resolver TargetResolver) ([]ClipData, error)

	// LoadClips loads path and builds a playable clip from every clip that kept
	// at least one channel. Clips left without channels are skipped with a warning.
	//
	// Parameters:
	//   - path: the clip file
	//   - resolver: maps target names to animation targets
	//   - options: clip options applied after the loader's defaults
	//
	// Returns:
	//   - []animation.Clip: the built clips
	//   - error: error if loading or channel validation fails
	LoadClips(path string, resolver TargetResolver, options ...animation.ClipBuilderOption) ([]animation.Clip, error)

	// Cached returns the cache keys of every parsed file.
	//
	// Returns:
	//   - []string: the cache keys, unordered
	Cached() []string

	// Evict drops a file from the cache.
	//
	// Parameters:
	//   - key: the path or reader name used when loading
	Evict(key string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
// Caching is enabled by default.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache:        make(map[string][]clipSource),
		cacheEnabled: true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string, resolver TargetResolver) ([]ClipData, error) {
	sources, err := l.sources(path, func() ([]clipSource, error) {
		backend, err := l.resolveBackend(path)
		if err != nil {
			return nil, err
		}
		return backend.Load(path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return bindAll(sources, resolver), nil
}

func (l *loader) LoadReader(name string, r io.Reader, format Format, resolver TargetResolver) ([]ClipData, error) {
	sources, err := l.sources(name, func() ([]clipSource, error) {
		var backend loaderBackend
		switch format {
		case FormatGLTF, FormatGLB:
			backend = newGLTFLoaderBackend(format == FormatGLB, filepath.Dir(name))
		case FormatYAML:
			base := filepath.Base(name)
			backend = newYAMLLoaderBackend(strings.TrimSuffix(base, filepath.Ext(base)))
		default:
			return nil, fmt.Errorf("unsupported clip format: %v", format)
		}
		return backend.LoadReader(r)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return bindAll(sources, resolver), nil
}

func (l *loader) LoadClips(path string, resolver TargetResolver, options ...animation.ClipBuilderOption) ([]animation.Clip, error) {
	datas, err := l.Load(path, resolver)
	if err != nil {
		return nil, err
	}

	opts := append(append([]animation.ClipBuilderOption{}, l.clipOptions...), options...)
	clips := make([]animation.Clip, 0, len(datas))
	for _, data := range datas {
		if len(data.Channels) == 0 {
			common.Logger().Warn("loader: clip has no bound channels", "path", path, "clip", data.Name)
			continue
		}
		clip, err := BuildClip(data, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		clips = append(clips, clip)
	}
	common.Logger().Info("loader: loaded clips", "path", path, "clips", len(clips))
	return clips, nil
}

func (l *loader) Cached() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.cache))
	for k := range l.cache {
		keys = append(keys, k)
	}
	return keys
}

func (l *loader) Evict(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, key)
}

// sources returns the cached sources for key, parsing them with parse on a miss.
func (l *loader) sources(key string, parse func() ([]clipSource, error)) ([]clipSource, error) {
	if l.cacheEnabled {
		l.mu.RLock()
		cached, ok := l.cache[key]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	parsed, err := parse()
	if err != nil {
		return nil, err
	}

	if l.cacheEnabled {
		l.mu.Lock()
		l.cache[key] = parsed
		l.mu.Unlock()
	}
	return parsed, nil
}

// resolveBackend selects a backend from the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML:
		return newYAMLLoaderBackend(""), nil
	default:
		return newGLTFLoaderBackend(format == FormatGLB, filepath.Dir(path)), nil
	}
}

func bindAll(sources []clipSource, resolver TargetResolver) []ClipData {
	out := make([]ClipData, len(sources))
	for i, src := range sources {
		out[i] = src.bind(resolver)
	}
	return out
}
