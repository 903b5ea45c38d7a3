// Package pass defines the render pass abstraction: a unit of GPU work that
// declares the shared resource labels it consumes and produces, and renders
// once per frame. Declared labels drive the dependency ordering in graph.go;
// they are not enforced as a runtime contract against the registry — a pass
// reading a label nothing produced surfaces registry.ErrResourceNotFound at
// execution time instead.
package pass

import (
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
)

// Declaration is a (label, kind) pair a pass declares as an input or output.
// Declarations are fixed for the lifetime of the pass.
type Declaration struct {
	// Label is the registry label of the declared resource.
	Label string
	// Kind is the declared resource kind (buffer or texture).
	Kind registry.Kind
}

// Buffer returns a buffer declaration for the given label.
func Buffer(label string) Declaration {
	return Declaration{Label: label, Kind: registry.KindBuffer}
}

// Texture returns a texture declaration for the given label.
func Texture(label string) Declaration {
	return Declaration{Label: label, Kind: registry.KindTexture}
}

// Host is the non-owning back-reference a pass holds into its renderer.
// Passes reach shared resources and the GPU device exclusively through it;
// they never own a registry or device of their own.
type Host interface {
	// Registry returns the renderer's resource registry.
	//
	// Returns:
	//   - registry.Registry: the registry owned by the renderer
	Registry() registry.Registry

	// Device returns the GPU device for pipeline, bind group, and encoder creation.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the GPU queue for buffer writes and command submission.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// RegisterPipeline creates the GPU pipeline for p and caches it under its
	// key. Pipelines whose keys are already registered are skipped, so passes
	// may call this every frame without duplicating GPU resources.
	//
	// Parameters:
	//   - p: the pipeline to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipeline(p pipeline.Pipeline) error

	// Pipeline retrieves a cached pipeline by key, or nil if not registered.
	//
	// Parameters:
	//   - key: the unique identifier of the pipeline
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// SampleCount returns the renderer's multisample count for anti-aliased
	// overlay passes (1 when MSAA is off).
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32
}

// RenderPass is one unit of declared GPU work. Implementations are
// constructed once when the renderer is built and rendered once per frame in
// the renderer's graph order, each submitting its own command buffer.
type RenderPass interface {
	// Name returns the pass identity used in logs and error messages.
	//
	// Returns:
	//   - string: the pass name
	Name() string

	// Inputs returns the resource declarations this pass consumes.
	// The returned slice must not be mutated.
	//
	// Returns:
	//   - []Declaration: the declared inputs in declaration order
	Inputs() []Declaration

	// Outputs returns the resource declarations this pass produces.
	// The returned slice must not be mutated.
	//
	// Returns:
	//   - []Declaration: the declared outputs in declaration order
	Outputs() []Declaration

	// Render executes the pass for one frame: builds host-side data, records
	// one command encoder, and submits it. Errors abort the frame.
	//
	// Parameters:
	//   - host: the renderer back-reference for registry and device access
	//   - vp: the viewport exposing the scene and current resolution
	//
	// Returns:
	//   - error: an error if the pass could not render
	Render(host Host, vp viewport.Viewport) error
}
