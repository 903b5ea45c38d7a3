// Package loader imports mesh geometry from glTF 2.0 and GLB files so scene
// entities can reference it as shared mesh assets.
package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Irrgh/webgpu-engine/engine/mesh"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backendType LoaderBackendType

	meshCache map[string][]mesh.Mesh
}

// Loader imports and caches mesh geometry from model files. It abstracts the
// file format behind a backend type and returns immutable meshes ready to be
// attached to scene entities.
type Loader interface {
	// Load imports every mesh primitive from a model file and caches the
	// result by path. A second Load of the same path returns the cached
	// meshes without touching the filesystem.
	//
	// Parameters:
	//   - path: the file path to the model file (.gltf or .glb)
	//
	// Returns:
	//   - []mesh.Mesh: one mesh per primitive, in document order
	//   - error: error if the file cannot be read or parsed
	Load(path string) ([]mesh.Mesh, error)

	// LoadReader imports meshes from a reader stream and caches them by the
	// given name. Use this for embedded resources or network streams.
	//
	// Parameters:
	//   - name: the cache key for the loaded meshes
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - []mesh.Mesh: one mesh per primitive, in document order
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) ([]mesh.Mesh, error)

	// Get retrieves cached meshes by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - []mesh.Mesh: the cached meshes or nil
	Get(name string) []mesh.Mesh
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance for the specified backend type.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(backendType LoaderBackendType) Loader {
	return &loader{
		backendType: backendType,
		meshCache:   make(map[string][]mesh.Mesh),
	}
}

func (l *loader) Load(path string) ([]mesh.Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if err := l.checkExtension(path); err != nil {
		return nil, err
	}

	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	meshes, err := newGLTFMeshExtractor(parser).ExtractAllMeshes()
	if err != nil {
		return nil, fmt.Errorf("failed to extract meshes from %s: %w", path, err)
	}

	l.mu.Lock()
	l.meshCache[path] = meshes
	l.mu.Unlock()

	return meshes, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) ([]mesh.Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	meshes, err := newGLTFMeshExtractor(parser).ExtractAllMeshes()
	if err != nil {
		return nil, fmt.Errorf("failed to extract meshes from %q: %w", name, err)
	}

	l.mu.Lock()
	l.meshCache[name] = meshes
	l.mu.Unlock()

	return meshes, nil
}

func (l *loader) Get(name string) []mesh.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

// checkExtension validates the file extension against the configured backend.
// Currently only glTF/GLB is supported.
func (l *loader) checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("unsupported model format: %s", ext)
	}
}
