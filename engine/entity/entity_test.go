package entity

import (
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/mesh"
	"github.com/stretchr/testify/assert"
)

func TestEntityDefaults(t *testing.T) {
	e := NewEntity("empty")

	assert.Equal(t, "empty", e.Name())
	assert.True(t, e.Enabled())
	assert.Nil(t, e.Mesh())
	assert.False(t, e.IsMeshInstance())

	sx, sy, sz := e.Scale()
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, float32(1), sz)

	// Identity transform at the defaults.
	m := e.Transform()
	assert.Equal(t, float32(1), m[0])
	assert.Equal(t, float32(1), m[5])
	assert.Equal(t, float32(1), m[10])
	assert.Equal(t, float32(1), m[15])
}

func TestEntityMeshInstance(t *testing.T) {
	e := NewEntity("cube", WithMesh(mesh.NewCube()))
	assert.True(t, e.IsMeshInstance())

	e.SetEnabled(false)
	assert.False(t, e.IsMeshInstance())
}

func TestTransformAppliesTranslationAndScale(t *testing.T) {
	e := NewEntity("box",
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
	)

	m := e.Transform()
	assert.Equal(t, float32(2), m[0])
	assert.Equal(t, float32(2), m[5])
	assert.Equal(t, float32(2), m[10])
	assert.Equal(t, float32(1), m[12])
	assert.Equal(t, float32(2), m[13])
	assert.Equal(t, float32(3), m[14])
}

func TestUpdateAppliesRotationSpeed(t *testing.T) {
	e := NewEntity("spinner", WithRotationSpeed(0, 1.5, 0))

	e.Update(2.0)
	_, ry, _ := e.Rotation()
	assert.InDelta(t, 3.0, float64(ry), 1e-6)
}
