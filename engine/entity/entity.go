// Package entity defines the scene entity: a named transform in world space
// that optionally references a shared mesh. Entities without a mesh are valid
// members of a scene; they simply contribute nothing to the frame's geometry.
package entity

import (
	"sync/atomic"

	"github.com/Irrgh/webgpu-engine/common"
	"github.com/Irrgh/webgpu-engine/engine/mesh"
)

type entityImpl struct {
	id      uint64
	name    string
	enabled atomic.Bool
	msh     mesh.Mesh

	position      [3]float32
	rotation      [3]float32
	scale         [3]float32
	rotationSpeed [3]float32
}

// Entity defines the interface for a scene member. An entity owns its own
// transform state; the scene assigns its ID, which doubles as the index into
// the per-frame transform array.
type Entity interface {
	// ID returns the entity's scene-assigned identifier.
	//
	// Returns:
	//   - uint64: the entity ID
	ID() uint64

	// SetID sets the entity's identifier. Called by the scene on add and when
	// ids are compacted after a removal.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the entity's display name used in logs.
	//
	// Returns:
	//   - string: the entity name
	Name() string

	// Enabled returns whether this entity is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the entity is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// IsMeshInstance reports whether this entity references a mesh and is
	// enabled, i.e. whether it contributes geometry to the frame.
	//
	// Returns:
	//   - bool: true if the entity should be drawn
	IsMeshInstance() bool

	// Mesh returns the referenced mesh, or nil for an empty entity.
	//
	// Returns:
	//   - mesh.Mesh: the referenced mesh or nil
	Mesh() mesh.Mesh

	// Position returns the entity's world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition updates the entity's world-space position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Rotation returns the entity's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// SetRotation updates the entity's Euler rotation.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles in radians
	SetRotation(rx, ry, rz float32)

	// Scale returns the entity's per-axis scale factors.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetScale updates the entity's per-axis scale factors.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// Transform computes the entity's column-major 4x4 model matrix from its
	// position, rotation, and scale.
	//
	// Returns:
	//   - [16]float32: the model matrix
	Transform() [16]float32

	// Update advances the entity's animation state by dt seconds. Currently
	// this applies the rotation speed to the rotation angles.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	Update(dt float32)
}

var _ Entity = &entityImpl{}

// NewEntity creates a new Entity configured with the given options.
// Entities start enabled with unit scale at the origin.
//
// Parameters:
//   - name: the entity's display name
//   - options: functional options to configure the entity
//
// Returns:
//   - Entity: the newly created entity
func NewEntity(name string, options ...EntityBuilderOption) Entity {
	e := &entityImpl{
		name:  name,
		scale: [3]float32{1, 1, 1},
	}
	e.enabled.Store(true)
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *entityImpl) ID() uint64 {
	return e.id
}

func (e *entityImpl) SetID(id uint64) {
	e.id = id
}

func (e *entityImpl) Name() string {
	return e.name
}

func (e *entityImpl) Enabled() bool {
	return e.enabled.Load()
}

func (e *entityImpl) SetEnabled(enabled bool) {
	e.enabled.Store(enabled)
}

func (e *entityImpl) IsMeshInstance() bool {
	return e.msh != nil && e.Enabled()
}

func (e *entityImpl) Mesh() mesh.Mesh {
	return e.msh
}

func (e *entityImpl) Position() (x, y, z float32) {
	return e.position[0], e.position[1], e.position[2]
}

func (e *entityImpl) SetPosition(x, y, z float32) {
	e.position = [3]float32{x, y, z}
}

func (e *entityImpl) Rotation() (rx, ry, rz float32) {
	return e.rotation[0], e.rotation[1], e.rotation[2]
}

func (e *entityImpl) SetRotation(rx, ry, rz float32) {
	e.rotation = [3]float32{rx, ry, rz}
}

func (e *entityImpl) Scale() (sx, sy, sz float32) {
	return e.scale[0], e.scale[1], e.scale[2]
}

func (e *entityImpl) SetScale(sx, sy, sz float32) {
	e.scale = [3]float32{sx, sy, sz}
}

func (e *entityImpl) Transform() [16]float32 {
	var out [16]float32
	common.BuildModelMatrix(out[:],
		e.position[0], e.position[1], e.position[2],
		e.rotation[0], e.rotation[1], e.rotation[2],
		e.scale[0], e.scale[1], e.scale[2])
	return out
}

func (e *entityImpl) Update(dt float32) {
	e.rotation[0] += e.rotationSpeed[0] * dt
	e.rotation[1] += e.rotationSpeed[1] * dt
	e.rotation[2] += e.rotationSpeed[2] * dt
}
