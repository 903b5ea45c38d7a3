package scene

import (
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/entity"
	"github.com/Irrgh/webgpu-engine/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(options ...SceneBuilderOption) Scene {
	return NewScene("test", camera.NewCamera(), options...)
}

func TestAddAssignsDenseIDs(t *testing.T) {
	s := newTestScene()

	a := entity.NewEntity("a")
	b := entity.NewEntity("b")
	c := entity.NewEntity("c")

	assert.Equal(t, uint64(0), s.Add(a))
	assert.Equal(t, uint64(1), s.Add(b))
	assert.Equal(t, uint64(2), s.Add(c))
	assert.Equal(t, 3, s.Count())

	assert.Same(t, b, s.Get(1))
	assert.Nil(t, s.Get(3))
}

func TestRemoveSwapsLastIntoFreedSlot(t *testing.T) {
	s := newTestScene()

	a := entity.NewEntity("a")
	b := entity.NewEntity("b")
	c := entity.NewEntity("c")
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Remove(0)

	// c took over id 0; ids stay dense in [0, Count).
	require.Equal(t, 2, s.Count())
	assert.Same(t, c, s.Get(0))
	assert.Equal(t, uint64(0), c.ID())
	assert.Same(t, b, s.Get(1))

	// Removing an out-of-range id is a no-op.
	s.Remove(99)
	assert.Equal(t, 2, s.Count())
}

func TestRemoveUpdatesSelection(t *testing.T) {
	s := newTestScene()
	s.Add(entity.NewEntity("a"))
	s.Add(entity.NewEntity("b"))
	s.Add(entity.NewEntity("c"))

	// Removing the selected entity clears the selection.
	s.SetSelected(1)
	s.Remove(1)
	_, ok := s.Selected()
	assert.False(t, ok)

	// Selecting the last entity then removing another follows the swap.
	s.Add(entity.NewEntity("d"))
	s.SetSelected(2) // "d" after the swap above
	s.Remove(0)
	id, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, uint64(0), id)
}

func TestSetSelectedRejectsOutOfRange(t *testing.T) {
	s := newTestScene()
	s.Add(entity.NewEntity("a"))

	s.SetSelected(0)
	_, ok := s.Selected()
	assert.True(t, ok)

	s.SetSelected(5)
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestEntitiesSnapshotIsIndependent(t *testing.T) {
	s := newTestScene(WithEntities(
		entity.NewEntity("a", entity.WithMesh(mesh.NewCube())),
		entity.NewEntity("b"),
	))

	snap := s.Entities()
	require.Len(t, snap, 2)
	assert.Equal(t, uint64(0), snap[0].ID())

	s.Remove(0)
	// The snapshot keeps its original contents.
	assert.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Name())
}

func TestUpdateAdvancesAllEntities(t *testing.T) {
	s := newTestScene(WithUpdateWorkers(2), WithUpdateBatchSize(4))

	spinners := make([]entity.Entity, 20)
	for i := range spinners {
		spinners[i] = entity.NewEntity("spin", entity.WithRotationSpeed(0, 1, 0))
		s.Add(spinners[i])
	}

	s.Update(0.5)

	for _, e := range spinners {
		_, ry, _ := e.Rotation()
		assert.InDelta(t, 0.5, float64(ry), 1e-6)
	}
}

func TestClearResetsScene(t *testing.T) {
	s := newTestScene(WithEntities(entity.NewEntity("a")))
	s.SetSelected(0)

	s.Clear()
	assert.Zero(t, s.Count())
	_, ok := s.Selected()
	assert.False(t, ok)
}
