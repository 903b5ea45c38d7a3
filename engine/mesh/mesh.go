// Package mesh defines the immutable shared geometry asset referenced by
// scene entities. A mesh owns one interleaved vertex array and one index
// array; any number of entities may reference the same mesh, and the
// geometry pass uploads each distinct mesh exactly once per frame.
package mesh

import "fmt"

// FloatsPerVertex is the number of float32 components per interleaved vertex:
// position (3) + normal (3) + uv (2).
const FloatsPerVertex = 8

// VertexStride is the byte stride of one interleaved vertex as consumed by
// the geometry vertex stage.
const VertexStride = FloatsPerVertex * 4

// Mesh is an immutable vertex/index data set for one renderable shape.
// Implementations must not mutate the underlying arrays after construction.
type Mesh interface {
	// Name returns the mesh identifier used in labels and logs.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// VertexData returns the interleaved position/normal/uv vertex array.
	// The returned slice must not be modified.
	//
	// Returns:
	//   - []float32: the vertex array, FloatsPerVertex components per vertex
	VertexData() []float32

	// IndexData returns the 32-bit triangle index array.
	// The returned slice must not be modified.
	//
	// Returns:
	//   - []uint32: the index array
	IndexData() []uint32

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

// meshImpl is the implementation of the Mesh interface.
type meshImpl struct {
	name     string
	vertices []float32
	indices  []uint32
}

var _ Mesh = &meshImpl{}

// NewMesh creates a Mesh from interleaved vertex data and triangle indices.
//
// Parameters:
//   - name: the mesh identifier
//   - vertices: interleaved position/normal/uv data, FloatsPerVertex components per vertex
//   - indices: 32-bit triangle indices into the vertex array
//
// Returns:
//   - Mesh: the immutable mesh
//   - error: an error if the vertex array length is not a multiple of FloatsPerVertex
//     or an index is out of range
func NewMesh(name string, vertices []float32, indices []uint32) (Mesh, error) {
	if len(vertices)%FloatsPerVertex != 0 {
		return nil, fmt.Errorf("mesh %q: vertex array length %d is not a multiple of %d", name, len(vertices), FloatsPerVertex)
	}
	vertexCount := uint32(len(vertices) / FloatsPerVertex)
	for _, idx := range indices {
		if idx >= vertexCount {
			return nil, fmt.Errorf("mesh %q: index %d out of range for %d vertices", name, idx, vertexCount)
		}
	}
	return &meshImpl{name: name, vertices: vertices, indices: indices}, nil
}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) VertexData() []float32 {
	return m.vertices
}

func (m *meshImpl) IndexData() []uint32 {
	return m.indices
}

func (m *meshImpl) VertexCount() int {
	return len(m.vertices) / FloatsPerVertex
}

func (m *meshImpl) IndexCount() int {
	return len(m.indices)
}
