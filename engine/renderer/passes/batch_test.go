package passes

import (
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/entity"
	"github.com/Irrgh/webgpu-engine/engine/mesh"
	"github.com/Irrgh/webgpu-engine/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBatchEmptyScene(t *testing.T) {
	batch := BuildBatch(nil)

	assert.Empty(t, batch.VertexData)
	assert.Empty(t, batch.IndexData)
	assert.Empty(t, batch.Transforms)
	assert.Empty(t, batch.ObjectIndices)
	assert.Empty(t, batch.Draws)
	assert.Zero(t, batch.InstanceCount())
}

func TestBuildBatchGroupsByMeshInEncounterOrder(t *testing.T) {
	quad := mesh.NewQuad()     // 4 vertices, 6 indices
	tri := mesh.NewTriangle()  // 3 vertices, 3 indices

	s := scene.NewScene("batch", camera.NewCamera(), scene.WithEntities(
		entity.NewEntity("quad-a", entity.WithMesh(quad)),
		entity.NewEntity("tri", entity.WithMesh(tri)),
		entity.NewEntity("quad-b", entity.WithMesh(quad)),
	))

	batch := BuildBatch(s.Entities())

	// Shared geometry is appended exactly once per distinct mesh.
	assert.Len(t, batch.VertexData, (4+3)*mesh.FloatsPerVertex)
	assert.Len(t, batch.IndexData, 6+3)

	// One draw row per group, in first-encounter order.
	require.Len(t, batch.Draws, 2)
	assert.Equal(t, DrawParams{IndexCount: 6, InstanceCount: 2, FirstIndex: 0, BaseVertex: 0, FirstInstance: 0}, batch.Draws[0])
	assert.Equal(t, DrawParams{IndexCount: 3, InstanceCount: 1, FirstIndex: 6, BaseVertex: 0, FirstInstance: 2}, batch.Draws[1])

	// Dense instance order follows group order, in-group encounter order.
	assert.Equal(t, []uint32{0, 2, 1}, batch.ObjectIndices)
	assert.Equal(t, 3, batch.InstanceCount())
}

func TestBuildBatchRebasesIndices(t *testing.T) {
	quad := mesh.NewQuad()
	tri := mesh.NewTriangle()

	batch := BuildBatch([]entity.Entity{
		newIdentified(0, entity.WithMesh(quad)),
		newIdentified(1, entity.WithMesh(tri)),
	})

	// The second mesh's indices are rebased by the first mesh's vertex count,
	// so BaseVertex can stay zero for every draw.
	require.Len(t, batch.IndexData, 9)
	for i, idx := range tri.IndexData() {
		assert.Equal(t, idx+4, batch.IndexData[6+i])
	}
	for _, d := range batch.Draws {
		assert.Zero(t, d.BaseVertex)
	}
}

func TestBuildBatchSparseTransforms(t *testing.T) {
	cube := mesh.NewCube()

	// Entity 1 has no mesh, entity 2 is disabled: both occupy transform
	// slots but contribute no instance.
	disabled := newIdentified(2, entity.WithMesh(cube), entity.WithPosition(9, 9, 9))
	disabled.SetEnabled(false)

	entities := []entity.Entity{
		newIdentified(0, entity.WithMesh(cube), entity.WithPosition(1, 2, 3)),
		newIdentified(1, entity.WithPosition(4, 5, 6)),
		disabled,
		newIdentified(3, entity.WithMesh(cube), entity.WithPosition(7, 8, 9)),
	}

	batch := BuildBatch(entities)

	// Transform table spans every entity, drawn or not.
	require.Len(t, batch.Transforms, 16*4)

	// Drawn entities have their model matrix at id*16.
	assert.Equal(t, float32(1), batch.Transforms[0*16+12])
	assert.Equal(t, float32(7), batch.Transforms[3*16+12])

	// Undrawn slots stay zero.
	for i := 16; i < 48; i++ {
		assert.Zero(t, batch.Transforms[i])
	}

	// Only the two drawn cubes appear, sharing one group.
	require.Len(t, batch.Draws, 1)
	assert.Equal(t, uint32(2), batch.Draws[0].InstanceCount)
	assert.Equal(t, []uint32{0, 3}, batch.ObjectIndices)
}

func TestBuildBatchDrawInvariants(t *testing.T) {
	quad := mesh.NewQuad()
	tri := mesh.NewTriangle()
	cube := mesh.NewCube()

	entities := []entity.Entity{
		newIdentified(0, entity.WithMesh(cube)),
		newIdentified(1, entity.WithMesh(quad)),
		newIdentified(2, entity.WithMesh(cube)),
		newIdentified(3, entity.WithMesh(tri)),
		newIdentified(4, entity.WithMesh(quad)),
		newIdentified(5),
	}

	batch := BuildBatch(entities)

	// FirstIndex and FirstInstance are cumulative and contiguous.
	var nextIndex, nextInstance uint32
	for _, d := range batch.Draws {
		assert.Equal(t, nextIndex, d.FirstIndex)
		assert.Equal(t, nextInstance, d.FirstInstance)
		nextIndex += d.IndexCount
		nextInstance += d.InstanceCount
	}
	assert.Equal(t, int(nextIndex), len(batch.IndexData))
	assert.Equal(t, int(nextInstance), batch.InstanceCount())

	// Every combined index addresses a vertex in the combined buffer.
	vertexCount := uint32(len(batch.VertexData) / mesh.FloatsPerVertex)
	for _, idx := range batch.IndexData {
		assert.Less(t, idx, vertexCount)
	}

	// Every object index addresses a transform slot.
	for _, id := range batch.ObjectIndices {
		assert.Less(t, int(id)*16, len(batch.Transforms))
	}
}

// newIdentified builds an entity with an explicit id, as the scene would
// assign it.
func newIdentified(id uint64, options ...entity.EntityBuilderOption) entity.Entity {
	e := entity.NewEntity("e", options...)
	e.SetID(id)
	return e
}
