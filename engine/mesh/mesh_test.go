package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshValidation(t *testing.T) {
	_, err := NewMesh("ragged", []float32{1, 2, 3}, nil)
	assert.Error(t, err)

	vertices := make([]float32, 2*FloatsPerVertex)
	_, err = NewMesh("oob", vertices, []uint32{0, 1, 2})
	assert.Error(t, err)

	m, err := NewMesh("ok", vertices, []uint32{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, m.VertexCount())
	assert.Equal(t, 3, m.IndexCount())
}

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name        string
		mesh        Mesh
		vertexCount int
		indexCount  int
	}{
		{name: "triangle", mesh: NewTriangle(), vertexCount: 3, indexCount: 3},
		{name: "quad", mesh: NewQuad(), vertexCount: 4, indexCount: 6},
		{name: "cube", mesh: NewCube(), vertexCount: 24, indexCount: 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.mesh.Name())
			assert.Equal(t, tt.vertexCount, tt.mesh.VertexCount())
			assert.Equal(t, tt.indexCount, tt.mesh.IndexCount())
			assert.Len(t, tt.mesh.VertexData(), tt.vertexCount*FloatsPerVertex)
			for _, idx := range tt.mesh.IndexData() {
				assert.Less(t, int(idx), tt.vertexCount)
			}
		})
	}
}
