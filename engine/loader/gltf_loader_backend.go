package loader

import (
	"io"
)

// gltfLoaderBackendImpl extracts animations from glTF and GLB documents.
// Each call uses a fresh parser so the backend is safe for concurrent use.
type gltfLoaderBackendImpl struct {
	glb bool

	// baseDir resolves external buffers for LoadReader.
	baseDir string
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend(glb bool, baseDir string) loaderBackend {
	return &gltfLoaderBackendImpl{glb: glb, baseDir: baseDir}
}

func (b *gltfLoaderBackendImpl) Load(path string) ([]clipSource, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	return newGLTFAnimationExtractor(parser).ExtractAllAnimations()
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader) ([]clipSource, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, b.glb, b.baseDir); err != nil {
		return nil, err
	}
	return newGLTFAnimationExtractor(parser).ExtractAllAnimations()
}
