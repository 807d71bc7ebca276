package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a clip file format.
type Format int

const (
	// FormatGLTF is a glTF JSON document.
	FormatGLTF Format = iota

	// FormatGLB is a binary glTF container.
	FormatGLB

	// FormatYAML is a hand-authored clip file.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatGLTF:
		return "gltf"
	case FormatGLB:
		return "glb"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatForPath picks a format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the matching format
//   - error: error naming the extension when it is unsupported
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported clip format: %q", ext)
	}
}

// loaderBackend reads clip sources from files or streams.
// Concrete implementations handle format-specific details.
type loaderBackend interface {
	// Load reads every clip from the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []clipSource: the clips, in file order
	//   - error: error if loading fails
	Load(path string) ([]clipSource, error)

	// LoadReader reads every clip from r.
	//
	// Parameters:
	//   - r: the reader providing clip data
	//
	// Returns:
	//   - []clipSource: the clips, in file order
	//   - error: error if loading fails
	LoadReader(r io.Reader) ([]clipSource, error)
}
