// Package passes contains the built-in render passes: geometry, selection
// outline, grid overlay, and the CPU-side geometry batcher that feeds them.
package passes

import (
	"github.com/Irrgh/webgpu-engine/engine/entity"
	"github.com/Irrgh/webgpu-engine/engine/mesh"
)

// DrawParams is one row of the draw-parameter table produced by BuildBatch,
// matching the arguments of an indexed instanced draw call.
type DrawParams struct {
	// IndexCount is the number of indices drawn.
	IndexCount uint32
	// InstanceCount is the number of instances drawn.
	InstanceCount uint32
	// FirstIndex is the offset into the combined index buffer.
	FirstIndex uint32
	// BaseVertex is always zero: indices are rebased onto the combined
	// vertex buffer when meshes are appended.
	BaseVertex int32
	// FirstInstance is the offset into the combined instance range, used by
	// the vertex stage to index the object table.
	FirstInstance uint32
}

// Batch is the flattened per-frame geometry data uploaded to the GPU:
// combined vertex/index arrays, the sparse transform table, the dense
// object-index table, and one DrawParams row per instance group.
type Batch struct {
	// VertexData is every distinct mesh's interleaved vertex data, appended
	// once per mesh in group order.
	VertexData []float32
	// IndexData is every distinct mesh's index data in group order, each
	// index rebased by the mesh's vertex offset in VertexData.
	IndexData []uint32
	// Transforms holds 16 floats per entity in the scene (mesh-bearing or
	// not), indexed by entity id. Slots of entities that contribute no
	// geometry stay zero.
	Transforms []float32
	// ObjectIndices maps the dense instance index (FirstInstance + i) to the
	// entity id owning that instance, indirecting into Transforms.
	ObjectIndices []uint32
	// Draws is the draw-parameter table, one row per instance group in
	// first-encounter order.
	Draws []DrawParams
}

// InstanceCount returns the total number of drawn instances in the batch.
//
// Returns:
//   - int: the instance count across all groups
func (b *Batch) InstanceCount() int {
	return len(b.ObjectIndices)
}

// BuildBatch groups the given entities by mesh and flattens them into a
// Batch. Groups form in first-encounter order: the first entity referencing
// a mesh creates that mesh's group and appends its geometry, later entities
// referencing the same mesh only join the group. Entities without a mesh (or
// disabled ones) occupy a transform slot but produce no instance.
//
// The entity slice must be in id order (index i holding id i), as produced
// by scene.Entities.
//
// Parameters:
//   - entities: the scene's entity snapshot in id order
//
// Returns:
//   - Batch: the flattened geometry data for one frame
func BuildBatch(entities []entity.Entity) Batch {
	batch := Batch{
		Transforms: make([]float32, 16*len(entities)),
	}

	// Group instances by mesh, keeping first-encounter order.
	groupIndex := make(map[mesh.Mesh]int)
	var groups [][]uint64
	var meshes []mesh.Mesh
	for _, e := range entities {
		if e == nil || !e.IsMeshInstance() {
			continue
		}
		m := e.Mesh()
		gi, ok := groupIndex[m]
		if !ok {
			gi = len(groups)
			groupIndex[m] = gi
			groups = append(groups, nil)
			meshes = append(meshes, m)
		}
		groups[gi] = append(groups[gi], e.ID())

		transform := e.Transform()
		copy(batch.Transforms[e.ID()*16:], transform[:])
	}

	// Flatten groups: append each mesh's geometry once, rebasing indices onto
	// the combined vertex buffer, and emit one draw row per group.
	batch.Draws = make([]DrawParams, 0, len(groups))
	for gi, ids := range groups {
		m := meshes[gi]

		vertexOffset := uint32(len(batch.VertexData) / mesh.FloatsPerVertex)
		firstIndex := uint32(len(batch.IndexData))
		firstInstance := uint32(len(batch.ObjectIndices))

		batch.VertexData = append(batch.VertexData, m.VertexData()...)
		for _, idx := range m.IndexData() {
			batch.IndexData = append(batch.IndexData, idx+vertexOffset)
		}
		for _, id := range ids {
			batch.ObjectIndices = append(batch.ObjectIndices, uint32(id))
		}

		batch.Draws = append(batch.Draws, DrawParams{
			IndexCount:    uint32(m.IndexCount()),
			InstanceCount: uint32(len(ids)),
			FirstIndex:    firstIndex,
			BaseVertex:    0,
			FirstInstance: firstInstance,
		})
	}

	return batch
}
