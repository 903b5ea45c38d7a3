// Package viewport couples a platform window to the scene rendered into it.
// The viewport owns the surface the renderer presents to and reports the
// pixel resolution that sizes the shared frame textures.
package viewport

import (
	"fmt"
	"runtime"

	"github.com/Irrgh/webgpu-engine/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// Viewport provides platform windowing, input event handling, and access to
// the scene being viewed.
type Viewport interface {
	// Scene returns the scene rendered into this viewport.
	//
	// Returns:
	//   - scene.Scene: the attached scene
	Scene() scene.Scene

	// SetScene replaces the scene rendered into this viewport.
	//
	// Parameters:
	//   - s: the new scene
	SetScene(s scene.Scene)

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseButtonCallback sets the callback for mouse button press and
	// release events.
	//
	// Parameters:
	//   - callback: function receiving the button index, pressed state, and cursor position
	SetMouseButtonCallback(callback func(button int, pressed bool, x, y int32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating
	// a WebGPU surface. The descriptor is platform-appropriate (Windows HWND,
	// X11 Xlib, Wayland, macOS Metal, etc.).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the viewport window is still active.
	//
	// Returns:
	//   - bool: true if running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// viewportImpl is the implementation of the Viewport interface.
// Holds window configuration, platform state, and event callbacks.
type viewportImpl struct {
	title string

	// width and height track the current framebuffer size in pixels.
	width  int
	height int

	scn scene.Scene

	// backend holds the platform-specific window state (glfwBackend).
	backend *glfwBackend

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onMouseButton func(button int, pressed bool, x, y int32)
	onMouseMove   func(x, y int32)
}

var _ Viewport = &viewportImpl{}

// NewViewport creates a new Viewport window with the specified options.
// Applies default values first, then each option in order. Panics if the
// platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the configured viewport
func NewViewport(options ...ViewportBuilderOption) Viewport {
	v := &viewportImpl{
		title:  "Viewer",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(v)
	}
	if err := newGLFWBackend(v); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return v
}

func (v *viewportImpl) Scene() scene.Scene {
	return v.scn
}

func (v *viewportImpl) SetScene(s scene.Scene) {
	v.scn = s
}

func (v *viewportImpl) SetUpdateCallback(callback func()) {
	v.onUpdate = callback
}

func (v *viewportImpl) SetResizeCallback(callback func(width, height int)) {
	v.onResize = callback
}

func (v *viewportImpl) SetScrollCallback(callback func(delta float32)) {
	v.onScroll = callback
}

func (v *viewportImpl) SetKeyDownCallback(callback func(keyCode uint32)) {
	v.onKeyDown = callback
}

func (v *viewportImpl) SetMouseButtonCallback(callback func(button int, pressed bool, x, y int32)) {
	v.onMouseButton = callback
}

func (v *viewportImpl) SetMouseMoveCallback(callback func(x, y int32)) {
	v.onMouseMove = callback
}

func (v *viewportImpl) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if v.backend == nil {
		return nil
	}
	return v.backend.surfaceDescriptor()
}

func (v *viewportImpl) IsRunning() bool {
	return v.backend != nil && v.backend.isRunning()
}

func (v *viewportImpl) Close() error {
	if v.backend == nil {
		return fmt.Errorf("viewport is not initialized")
	}
	return v.backend.close()
}

func (v *viewportImpl) ProcessMessages() {
	for v.IsRunning() {
		if !v.backend.poll() {
			break
		}

		if v.onUpdate != nil {
			v.onUpdate()
		}

		runtime.Gosched()
	}
}

func (v *viewportImpl) Width() int {
	return v.width
}

func (v *viewportImpl) Height() int {
	return v.height
}
