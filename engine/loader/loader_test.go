package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBufferData builds the binary buffer for a single CCW triangle in the
// xy-plane: 3 vec3 float positions followed by 3 uint16 indices.
func triangleBufferData(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	for _, p := range positions {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, p))
	}
	for _, idx := range []uint16{0, 1, 2} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, idx))
	}
	return buf.Bytes()
}

// triangleGLTF builds a minimal glTF JSON document with the triangle buffer
// embedded as a base64 data URI.
func triangleGLTF(t *testing.T) []byte {
	t.Helper()

	data := triangleBufferData(t)
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scene": 0,
		"scenes": [{"nodes": [0]}],
		"nodes": [{"mesh": 0}],
		"meshes": [{
			"name": "triangle",
			"primitives": [{
				"attributes": {"POSITION": 0},
				"indices": 1
			}]
		}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}]
	}`, base64.StdEncoding.EncodeToString(data), len(data))
	return []byte(doc)
}

// triangleGLB wraps the triangle document in the GLB container, carrying the
// buffer in the BIN chunk instead of a data URI.
func triangleGLB(t *testing.T) []byte {
	t.Helper()

	binChunk := triangleBufferData(t)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	jsonChunk := []byte(fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"meshes": [{
			"name": "triangle",
			"primitives": [{
				"attributes": {"POSITION": 0},
				"indices": 1
			}]
		}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": 42}]
	}`))
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}

	var buf bytes.Buffer
	total := uint32(12 + 8 + len(jsonChunk) + 8 + len(binChunk))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{
		Magic:   gltfGLBMagic,
		Version: gltfGLBVersion,
		Length:  total,
	}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(jsonChunk)),
		ChunkType:   gltfGLBChunkJSON,
	}))
	buf.Write(jsonChunk)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(binChunk)),
		ChunkType:   gltfGLBChunkBIN,
	}))
	buf.Write(binChunk)
	return buf.Bytes()
}

func TestLoadReaderParsesTriangle(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	meshes, err := l.LoadReader("triangle", bytes.NewReader(triangleGLTF(t)), false)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "triangle", m.Name())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, m.IndexData())

	// Second vertex: position (1,0,0) at floats 8..10.
	vd := m.VertexData()
	require.Len(t, vd, 3*mesh.FloatsPerVertex)
	assert.Equal(t, float32(1), vd[mesh.FloatsPerVertex])
	assert.Equal(t, float32(0), vd[mesh.FloatsPerVertex+1])
	assert.Equal(t, float32(0), vd[mesh.FloatsPerVertex+2])
}

func TestLoadReaderGeneratesNormals(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	meshes, err := l.LoadReader("triangle", bytes.NewReader(triangleGLTF(t)), false)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	// The CCW triangle in the xy-plane has face normal +z; the document has no
	// NORMAL attribute so every generated vertex normal must be (0, 0, 1).
	vd := meshes[0].VertexData()
	for v := 0; v < 3; v++ {
		base := v * mesh.FloatsPerVertex
		assert.InDelta(t, 0, vd[base+3], 1e-6)
		assert.InDelta(t, 0, vd[base+4], 1e-6)
		assert.InDelta(t, 1, vd[base+5], 1e-6)
	}
}

func TestLoadReaderParsesGLB(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	meshes, err := l.LoadReader("triangle.glb", bytes.NewReader(triangleGLB(t)), true)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, 3, meshes[0].VertexCount())
	assert.Equal(t, 3, meshes[0].IndexCount())
}

func TestLoadReaderCachesByName(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	first, err := l.LoadReader("triangle", bytes.NewReader(triangleGLTF(t)), false)
	require.NoError(t, err)

	// A second load with a garbage reader must hit the cache.
	second, err := l.LoadReader("triangle", bytes.NewReader([]byte("not gltf")), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first, l.Get("triangle"))
}

func TestGetUnknownNameReturnsNil(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	assert.Nil(t, l.Get("missing"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.gltf")
	require.NoError(t, os.WriteFile(path, triangleGLTF(t), 0o644))

	l := NewLoader(BackendTypeGLTF)
	meshes, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, 3, meshes[0].VertexCount())
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Load("model.obj")
	assert.ErrorContains(t, err, "unsupported model format")
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Load(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}

func TestLoadReaderRejectsWrongVersion(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.LoadReader("old", bytes.NewReader([]byte(`{"asset": {"version": "1.0"}}`)), false)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestGenerateNormalsDegenerateTriangle(t *testing.T) {
	// All three vertices coincide: the face normal has zero length and the
	// generated normal falls back to the up vector.
	positions := [][3]float32{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	normals := generateNormals(positions, []uint32{0, 1, 2})

	require.Len(t, normals, 3)
	for _, n := range normals {
		assert.Equal(t, [3]float32{0, 1, 0}, n)
	}
}

func TestGenerateNormalsUnitLength(t *testing.T) {
	positions := [][3]float32{
		{0, 0, 0},
		{2, 0, 0},
		{0, 3, 0},
		{0, 0, 4},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	normals := generateNormals(positions, indices)

	require.Len(t, normals, 4)
	for _, n := range normals {
		length := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		assert.InDelta(t, 1, length, 1e-5)
	}
}
