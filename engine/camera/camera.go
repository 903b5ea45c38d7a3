// Package camera implements the orbit camera that feeds the per-frame camera
// uniform: view and projection matrices plus the viewport resolution.
package camera

import (
	"math"
	"sync"

	"github.com/Irrgh/webgpu-engine/common"
	"github.com/chewxy/math32"
)

// pitchLimit keeps the orbit just shy of the poles so the view basis stays
// well defined.
const pitchLimit = float32(math.Pi/2) * 0.99

type cameraImpl struct {
	mu *sync.Mutex

	target   [3]float32
	yaw      float32
	pitch    float32
	distance float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32
}

// Camera defines the interface for the orbit camera. The camera orbits a
// target point at a distance controlled by yaw, pitch, and zoom; input
// callbacks mutate it from the window thread while the render thread reads
// its matrices, so all accessors are synchronized.
type Camera interface {
	// Position computes the camera's world-space position from the orbit state.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// SetTarget moves the orbit target and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: new target components
	SetTarget(x, y, z float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio and recomputes the projection matrix.
	// Called on every viewport resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Orbit rotates the camera around the target by the given yaw and pitch
	// deltas in radians. Pitch is clamped short of the poles.
	//
	// Parameters:
	//   - dYaw: yaw delta in radians
	//   - dPitch: pitch delta in radians
	Orbit(dYaw, dPitch float32)

	// Zoom scales the orbit distance by the given factor. Factors below 1
	// move closer, above 1 move away. The distance is clamped to the near
	// plane so the camera never crosses the target.
	//
	// Parameters:
	//   - factor: multiplicative distance change
	Zoom(factor float32)

	// Pan translates the orbit target within the current view plane.
	//
	// Parameters:
	//   - dx: horizontal pan in world units
	//   - dy: vertical pan in world units
	Pan(dx, dy float32)

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new orbit camera with default perspective settings:
// 45 degree vertical fov, near 0.1, far 100, orbiting the origin from a
// distance of 5.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		up:       [3]float32{0, 1, 0},
		yaw:      float32(math.Pi / 4),
		pitch:    float32(math.Pi / 6),
		distance: 5.0,
		fov:      45.0 * (math.Pi / 180.0),
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// position computes the eye point from the orbit state.
// Caller must hold the mutex.
func (c *cameraImpl) position() (x, y, z float32) {
	cosP := math32.Cos(c.pitch)
	x = c.target[0] + c.distance*cosP*math32.Sin(c.yaw)
	y = c.target[1] + c.distance*math32.Sin(c.pitch)
	z = c.target[2] + c.distance*cosP*math32.Cos(c.yaw)
	return
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Orbit(dYaw, dPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += dYaw
	c.pitch += dPitch
	if c.pitch > pitchLimit {
		c.pitch = pitchLimit
	}
	if c.pitch < -pitchLimit {
		c.pitch = -pitchLimit
	}
	c.updateMatrices()
}

func (c *cameraImpl) Zoom(factor float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if factor <= 0 {
		return
	}
	c.distance *= factor
	if c.distance < c.near {
		c.distance = c.near
	}
	c.updateMatrices()
}

func (c *cameraImpl) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Right and up basis vectors of the current view, derived from the
	// column-major view matrix rows.
	c.target[0] += c.viewMatrix[0]*dx + c.viewMatrix[1]*dy
	c.target[1] += c.viewMatrix[4]*dx + c.viewMatrix[5]*dy
	c.target[2] += c.viewMatrix[8]*dx + c.viewMatrix[9]*dy
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

// updateMatrices recalculates the view and projection matrices from the
// orbit state. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	px, py, pz := c.position()

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)
}
