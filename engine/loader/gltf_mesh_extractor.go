package loader

import (
	"fmt"
	"math"

	"github.com/Irrgh/webgpu-engine/engine/mesh"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor defines the interface for extracting mesh data from a parsed
// glTF document. It converts raw glTF accessor data into engine-ready meshes with
// interleaved position/normal/uv vertices.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one Mesh per primitive (glTF meshes can have multiple primitives).
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []mesh.Mesh: one Mesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]mesh.Mesh, error)

	// ExtractAllMeshes extracts all meshes from the document.
	// Returns a flattened slice with one Mesh per primitive across all meshes.
	//
	// Returns:
	//   - []mesh.Mesh: all meshes (flattened, one per primitive)
	//   - error: error if extraction fails
	ExtractAllMeshes() ([]mesh.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]mesh.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	m := &doc.Meshes[meshIndex]
	var result []mesh.Mesh

	for primIdx := range m.Primitives {
		prim := &m.Primitives[primIdx]
		extracted, err := e.extractPrimitive(prim, m.Name, meshIndex, primIdx)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, extracted)
	}

	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]mesh.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var allMeshes []mesh.Mesh
	for i := range doc.Meshes {
		meshes, err := e.ExtractMesh(i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		allMeshes = append(allMeshes, meshes...)
	}

	return allMeshes, nil
}

// extractPrimitive extracts a single primitive as an interleaved Mesh.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, meshName string, meshIndex, primIndex int) (mesh.Mesh, error) {
	// Only triangle lists are supported (the glTF default mode).
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	vertexCount := len(positions)

	// Normals are optional; generated from the triangle geometry when absent.
	var normals [][3]float32
	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err = e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
	}

	// Texture coordinates are optional; default to (0, 0).
	var texCoords [][2]float32
	if texCoordAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		texCoords, err = e.parser.ReadVec2Accessor(texCoordAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		// Non-indexed geometry: generate sequential indices.
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if normals == nil && len(indices) >= 3 {
		normals = generateNormals(positions, indices)
	}

	vertices := make([]float32, 0, vertexCount*mesh.FloatsPerVertex)
	for i := 0; i < vertexCount; i++ {
		vertices = append(vertices, positions[i][0], positions[i][1], positions[i][2])
		if i < len(normals) {
			vertices = append(vertices, normals[i][0], normals[i][1], normals[i][2])
		} else {
			vertices = append(vertices, 0, 1, 0)
		}
		if i < len(texCoords) {
			vertices = append(vertices, texCoords[i][0], texCoords[i][1])
		} else {
			vertices = append(vertices, 0, 0)
		}
	}

	name := meshName
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}
	if primIndex > 0 {
		name = fmt.Sprintf("%s_prim%d", name, primIndex)
	}

	return mesh.NewMesh(name, vertices, indices)
}

// generateNormals computes smooth vertex normals from the triangle geometry when
// the glTF file does not provide a NORMAL attribute. For each triangle the face
// normal is the cross product of its two edges, accumulated (area-weighted) onto
// every vertex of the triangle and normalized at the end so shared vertices get
// smooth shading.
//
// Parameters:
//   - positions: the vertex positions
//   - indices: the triangle index buffer (must be a multiple of 3)
//
// Returns:
//   - [][3]float32: one unit normal per vertex
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	n := len(positions)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := positions[i0], positions[i1], positions[i2]

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		// Cross product: face normal (length proportional to triangle area)
		faceNormal := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx][0] += faceNormal[0]
			accum[idx][1] += faceNormal[1]
			accum[idx][2] += faceNormal[2]
		}
	}

	result := make([][3]float32, n)
	for i := 0; i < n; i++ {
		length := float32(math.Sqrt(float64(accum[i][0]*accum[i][0] + accum[i][1]*accum[i][1] + accum[i][2]*accum[i][2])))
		if length < 1e-6 {
			// Degenerate: default to up vector
			result[i] = [3]float32{0, 1, 0}
			continue
		}
		invLen := 1.0 / length
		result[i] = [3]float32{
			accum[i][0] * invLen,
			accum[i][1] * invLen,
			accum[i][2] * invLen,
		}
	}
	return result
}
