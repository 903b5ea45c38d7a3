package entity

import "github.com/Irrgh/webgpu-engine/engine/mesh"

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*entityImpl)

// WithMesh sets the mesh referenced by the entity. Multiple entities may
// share one mesh; the renderer batches them into a single instanced draw.
//
// Parameters:
//   - m: the mesh to reference
//
// Returns:
//   - EntityBuilderOption: functional option to set the mesh
func WithMesh(m mesh.Mesh) EntityBuilderOption {
	return func(e *entityImpl) {
		e.msh = m
	}
}

// WithPosition sets the entity's initial world-space position.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - EntityBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) EntityBuilderOption {
	return func(e *entityImpl) {
		e.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the entity's initial Euler rotation in radians.
//
// Parameters:
//   - rx: the x rotation angle
//   - ry: the y rotation angle
//   - rz: the z rotation angle
//
// Returns:
//   - EntityBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) EntityBuilderOption {
	return func(e *entityImpl) {
		e.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the entity's initial per-axis scale factors.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - EntityBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) EntityBuilderOption {
	return func(e *entityImpl) {
		e.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotationSpeed sets the entity's rotation speed in radians per second,
// applied on each Update.
//
// Parameters:
//   - rx: the x rotation speed
//   - ry: the y rotation speed
//   - rz: the z rotation speed
//
// Returns:
//   - EntityBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) EntityBuilderOption {
	return func(e *entityImpl) {
		e.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithEnabled sets whether the entity starts enabled for rendering.
//
// Parameters:
//   - enabled: true to render the entity, false to skip it
//
// Returns:
//   - EntityBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) EntityBuilderOption {
	return func(e *entityImpl) {
		e.enabled.Store(enabled)
	}
}
