package viewport

import "github.com/Irrgh/webgpu-engine/engine/scene"

// ViewportBuilderOption is a functional option for configuring a Viewport
// during construction.
type ViewportBuilderOption func(*viewportImpl)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the title displayed in the title bar
//
// Returns:
//   - ViewportBuilderOption: functional option to set the title
func WithTitle(title string) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.title = title
	}
}

// WithSize sets the initial window size in screen coordinates. The actual
// framebuffer size may differ on high-DPI displays.
//
// Parameters:
//   - width: initial width
//   - height: initial height
//
// Returns:
//   - ViewportBuilderOption: functional option to set the size
func WithSize(width, height int) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if width > 0 {
			v.width = width
		}
		if height > 0 {
			v.height = height
		}
	}
}

// WithScene attaches the scene rendered into this viewport.
//
// Parameters:
//   - s: the scene to attach
//
// Returns:
//   - ViewportBuilderOption: functional option to set the scene
func WithScene(s scene.Scene) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.scn = s
	}
}
