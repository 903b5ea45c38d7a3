package renderer

import "github.com/Irrgh/webgpu-engine/engine/renderer/pass"

// RendererBuilderOption is a functional option used to configure a Renderer during construction.
type RendererBuilderOption func(*rendererImpl)

// WithPass appends a render pass to the renderer. Passes may be added in any
// order; execution order is resolved from their declared inputs and outputs,
// with declaration order breaking ties between independent passes.
//
// Parameters:
//   - p: the render pass to add
//
// Returns:
//   - RendererBuilderOption: a function that appends the pass
func WithPass(p pass.RenderPass) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.passes = append(r.passes, p)
	}
}

// WithMinimumAllocation sets the minimum buffer allocation floor in bytes for
// the renderer's resource registry.
//
// Parameters:
//   - size: the minimum allocation in bytes (values below 1 are ignored)
//
// Returns:
//   - RendererBuilderOption: a function that sets the minimum allocation
func WithMinimumAllocation(size uint64) RendererBuilderOption {
	return func(r *rendererImpl) {
		if size >= 1 {
			r.minAllocation = size
		}
	}
}

// WithMSAA sets the multisample count available to passes that render
// anti-aliased overlays.
//
// Parameters:
//   - sampleCount: the MSAA sample count (MSAAOff, MSAA4x, MSAA8x)
//
// Returns:
//   - RendererBuilderOption: a function that sets the sample count
func WithMSAA(sampleCount MSAASampleCount) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.sampleCount = sampleCount
	}
}

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the present mode (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - RendererBuilderOption: a function that sets the present mode
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.presentMode = mode
	}
}

// WithPresentSource sets the label of the shared texture blitted to the
// surface at the end of each frame. Defaults to the color texture.
//
// Parameters:
//   - label: the registry label of the texture to present
//
// Returns:
//   - RendererBuilderOption: a function that sets the present source
func WithPresentSource(label string) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.presentSource = label
	}
}

// WithForceSoftwareRenderer requests the software fallback adapter instead of
// a hardware GPU. Useful for headless environments and driver triage.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that sets the fallback adapter flag
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceSoftware = force
	}
}
