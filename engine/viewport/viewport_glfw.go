package viewport

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwBackend holds the GLFW-specific window state.
type glfwBackend struct {
	parent  *viewportImpl
	window  *glfw.Window
	running bool
}

// newGLFWBackend creates the GLFW window with input callbacks and attaches it
// to the viewport.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newGLFWBackend(v *viewportImpl) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(v.width, v.height, v.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}

	b := &glfwBackend{
		parent:  v,
		window:  win,
		running: true,
	}
	v.backend = b

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			if v.onKeyDown != nil {
				v.onKeyDown(uint32(key))
			}
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if v.onScroll != nil {
			v.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if v.onMouseButton == nil {
			return
		}
		if action == glfw.Press || action == glfw.Release {
			xpos, ypos := win.GetCursorPos()
			v.onMouseButton(int(button), action == glfw.Press, int32(xpos), int32(ypos))
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if v.onMouseMove != nil {
			v.onMouseMove(int32(xpos), int32(ypos))
		}
	})

	// Use the framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays the framebuffer size differs from the window size,
	// and the renderer needs pixel dimensions for surface configuration and
	// frame texture sizing.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.width = width
		v.height = height
		if v.onResize != nil {
			v.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	v.width = fbWidth
	v.height = fbHeight

	return nil
}

// surfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor
// from the GLFW window via the wgpuglfw bridge.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (b *glfwBackend) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(b.window)
}

// isRunning returns whether the GLFW window is still active.
func (b *glfwBackend) isRunning() bool {
	return b.running && !b.window.ShouldClose()
}

// close destroys the GLFW window and terminates the GLFW library.
func (b *glfwBackend) close() error {
	b.running = false
	b.window.SetShouldClose(true)
	b.window.Destroy()
	glfw.Terminate()
	return nil
}

// poll pumps GLFW for pending events without blocking.
func (b *glfwBackend) poll() bool {
	glfw.PollEvents()
	return b.isRunning()
}
