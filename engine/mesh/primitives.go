package mesh

// NewTriangle creates a single triangle in the XY plane facing +Z,
// spanning roughly a unit around the origin.
//
// Returns:
//   - Mesh: the triangle mesh
func NewTriangle() Mesh {
	vertices := []float32{
		// position          normal           uv
		-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 1.0,
		0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 1.0, 1.0,
		0.0, 0.5, 0.0, 0.0, 0.0, 1.0, 0.5, 0.0,
	}
	indices := []uint32{0, 1, 2}
	m, _ := NewMesh("triangle", vertices, indices)
	return m
}

// NewQuad creates a unit quad in the XZ plane facing +Y, centered at the origin.
//
// Returns:
//   - Mesh: the quad mesh
func NewQuad() Mesh {
	vertices := []float32{
		-0.5, 0.0, -0.5, 0.0, 1.0, 0.0, 0.0, 0.0,
		0.5, 0.0, -0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
		0.5, 0.0, 0.5, 0.0, 1.0, 0.0, 1.0, 1.0,
		-0.5, 0.0, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
	}
	indices := []uint32{0, 2, 1, 0, 3, 2}
	m, _ := NewMesh("quad", vertices, indices)
	return m
}

// NewCube creates a unit cube centered at the origin with per-face normals.
//
// Returns:
//   - Mesh: the cube mesh
func NewCube() Mesh {
	vertices := []float32{
		// +X
		0.5, -0.5, -0.5, 1.0, 0.0, 0.0, 0.0, 1.0,
		0.5, 0.5, -0.5, 1.0, 0.0, 0.0, 0.0, 0.0,
		0.5, 0.5, 0.5, 1.0, 0.0, 0.0, 1.0, 0.0,
		0.5, -0.5, 0.5, 1.0, 0.0, 0.0, 1.0, 1.0,
		// -X
		-0.5, -0.5, 0.5, -1.0, 0.0, 0.0, 0.0, 1.0,
		-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, 0.0, 0.0,
		-0.5, 0.5, -0.5, -1.0, 0.0, 0.0, 1.0, 0.0,
		-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, 1.0, 1.0,
		// +Y
		-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
		-0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 0.0,
		0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 1.0, 1.0,
		// -Y
		-0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 0.0, 1.0,
		-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 0.0, 0.0,
		0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 1.0, 0.0,
		0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 1.0, 1.0,
		// +Z
		-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 1.0,
		0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
		0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 0.0,
		-0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0,
		// -Z
		0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 1.0,
		-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 1.0,
		-0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 0.0,
	}
	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	m, _ := NewMesh("cube", vertices, indices)
	return m
}
