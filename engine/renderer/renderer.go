// Package renderer orchestrates frame rendering: it owns the GPU backend, the
// shared resource registry, and the ordered set of render passes, and blits a
// chosen shared texture to the window surface at the end of every frame.
package renderer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/present_vertex.wgsl
var presentVertexSource string

//go:embed assets/present_blit_f32.wgsl
var presentBlitF32Source string

//go:embed assets/present_blit_depth.wgsl
var presentBlitDepthSource string

//go:embed assets/present_blit_u32.wgsl
var presentBlitU32Source string

// Renderer drives one frame of GPU work: shared resource recreation, camera
// upload, pass execution in dependency order, and the final present blit.
// It implements pass.Host so passes reach the registry and device through it.
type Renderer interface {
	pass.Host

	// RenderFrame renders one frame into the given viewport: recreates the
	// shared frame textures at the viewport resolution, uploads the camera
	// uniform, runs every pass in graph order, and presents the configured
	// source texture. Zero-sized viewports are skipped without error.
	//
	// Parameters:
	//   - vp: the viewport to render into
	//
	// Returns:
	//   - error: an error if any frame stage fails (the frame is abandoned)
	RenderFrame(vp viewport.Viewport) error

	// Passes returns the render passes in execution order.
	//
	// Returns:
	//   - []pass.RenderPass: the ordered passes
	Passes() []pass.RenderPass

	// PresentSource returns the label of the shared texture blitted to the
	// surface at the end of each frame.
	//
	// Returns:
	//   - string: the present source label
	PresentSource() string

	// SetPresentSource selects which shared texture is blitted to the surface.
	// Takes effect on the next frame. Safe to call from input callbacks.
	//
	// Parameters:
	//   - label: the registry label of the texture to present
	SetPresentSource(label string)

	// Release releases all GPU objects owned by the renderer and its backend.
	Release()
}

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	// mu guards presentSource, which input callbacks mutate while the render
	// thread reads it.
	mu *sync.Mutex

	backend RendererBackend
	reg     registry.Registry

	// passes is in execution order, computed once at construction.
	passes    []pass.RenderPass
	pipelines map[string]pipeline.Pipeline

	presentSource string
	sampleCount   MSAASampleCount

	// Construction-time options consumed by NewRenderer.
	presentMode   PresentMode
	minAllocation uint64
	forceSoftware bool

	// Last size the surface was configured to.
	configuredWidth  int
	configuredHeight int

	// cameraData is reused across frames to avoid per-frame allocation.
	cameraData camera.GPUCameraData
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a Renderer against the given viewport's surface. The
// pass set is fixed at construction: passes supplied via WithPass are ordered
// so every producer runs before its consumers, and a dependency cycle fails
// construction with pass.ErrCycleDetected.
//
// Parameters:
//   - backendType: the GPU backend to use (BackendTypeWGPU)
//   - vp: the viewport whose surface is rendered to (must not be nil)
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if pass ordering or backend initialization fails
func NewRenderer(backendType RendererBackendType, vp viewport.Viewport, options ...RendererBuilderOption) (Renderer, error) {
	if vp == nil {
		panic("renderer: NewRenderer requires a non-nil Viewport")
	}

	r := &rendererImpl{
		mu:            &sync.Mutex{},
		pipelines:     make(map[string]pipeline.Pipeline),
		presentSource: pass.LabelColor,
		sampleCount:   MSAA4x,
		presentMode:   PresentModeVSync,
		minAllocation: registry.DefaultMinimumAllocation,
	}
	for _, option := range options {
		option(r)
	}

	ordered, err := pass.Order(r.passes)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	r.passes = ordered

	switch backendType {
	case BackendTypeWGPU:
		backend, err := newWGPURendererBackend(vp.SurfaceDescriptor(), r.forceSoftware)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	default:
		return nil, fmt.Errorf("renderer: unsupported backend type %d", backendType)
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(uint32(vp.Width()), uint32(vp.Height())); err != nil {
		r.backend.Release()
		return nil, err
	}
	r.configuredWidth = vp.Width()
	r.configuredHeight = vp.Height()

	r.reg = registry.NewRegistry(r.backend, registry.WithMinimumAllocation(r.minAllocation))

	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name()
	}
	log.Info("renderer: initialized", "passes", names, "presentSource", r.presentSource)
	return r, nil
}

func (r *rendererImpl) Registry() registry.Registry {
	return r.reg
}

func (r *rendererImpl) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *rendererImpl) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *rendererImpl) RegisterPipeline(p pipeline.Pipeline) error {
	if existing, exists := r.pipelines[p.PipelineKey()]; exists && existing.RenderPipeline() != nil {
		return nil
	}
	if err := r.backend.CreateRenderPipeline(p); err != nil {
		return err
	}
	r.pipelines[p.PipelineKey()] = p
	return nil
}

func (r *rendererImpl) Pipeline(key string) pipeline.Pipeline {
	return r.pipelines[key]
}

func (r *rendererImpl) SampleCount() uint32 {
	return uint32(r.sampleCount)
}

func (r *rendererImpl) Passes() []pass.RenderPass {
	return r.passes
}

func (r *rendererImpl) PresentSource() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presentSource
}

func (r *rendererImpl) SetPresentSource(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentSource = label
}

func (r *rendererImpl) RenderFrame(vp viewport.Viewport) error {
	width, height := vp.Width(), vp.Height()
	if width == 0 || height == 0 {
		// Minimized window; nothing to render into.
		return nil
	}
	if vp.Scene() == nil || vp.Scene().Camera() == nil {
		return nil
	}

	if width != r.configuredWidth || height != r.configuredHeight {
		if err := r.backend.ConfigureSurface(uint32(width), uint32(height)); err != nil {
			return err
		}
		r.configuredWidth = width
		r.configuredHeight = height
	}

	if err := r.createFrameTextures(uint32(width), uint32(height)); err != nil {
		return err
	}
	if err := r.uploadCameraUniform(vp); err != nil {
		return err
	}

	for _, p := range r.passes {
		if err := p.Render(r, vp); err != nil {
			return fmt.Errorf("renderer: pass %q: %w", p.Name(), err)
		}
	}

	return r.present()
}

func (r *rendererImpl) Release() {
	for _, label := range r.reg.List() {
		r.reg.Destroy(label)
	}
	for _, p := range r.pipelines {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
	}
	r.backend.Release()
}

// createFrameTextures recreates the four shared frame textures at the current
// viewport resolution. Recreating unconditionally keeps them exactly sized
// and exercises the registry's replace path every frame.
func (r *rendererImpl) createFrameTextures(width, height uint32) error {
	attachmentUsage := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding

	targets := []struct {
		label  string
		format wgpu.TextureFormat
		usage  wgpu.TextureUsage
	}{
		{pass.LabelColor, pass.FormatColor, attachmentUsage},
		{pass.LabelDepth, pass.FormatDepth, attachmentUsage},
		{pass.LabelObjectIndex, pass.FormatObjectIndex, attachmentUsage | wgpu.TextureUsageCopySrc},
		{pass.LabelNormal, pass.FormatNormal, attachmentUsage},
	}

	for _, t := range targets {
		_, err := r.reg.CreateTexture(t.label, registry.TextureDescriptor{
			Width:  width,
			Height: height,
			Format: t.format,
			Usage:  t.usage,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// uploadCameraUniform recreates the camera uniform buffer and writes the
// current view/projection state into it.
func (r *rendererImpl) uploadCameraUniform(vp viewport.Viewport) error {
	cam := vp.Scene().Camera()
	cam.SetAspect(float32(vp.Width()) / float32(vp.Height()))

	r.cameraData.View = cam.ViewMatrix()
	r.cameraData.Proj = cam.ProjectionMatrix()
	r.cameraData.Width = uint32(vp.Width())
	r.cameraData.Height = uint32(vp.Height())

	handle, err := r.reg.CreateBuffer(pass.LabelCamera, registry.BufferDescriptor{
		Size:  uint64(r.cameraData.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	r.backend.Queue().WriteBuffer(handle.Buffer(), 0, r.cameraData.Marshal())
	return nil
}

// present blits the configured present source texture to the surface using a
// fullscreen triangle. The fragment stage is chosen per texture format: float
// formats are shown directly, depth as grayscale, and integer object ids as
// hashed pseudo-colors.
func (r *rendererImpl) present() error {
	source := r.PresentSource()

	handle, err := r.reg.Get(source)
	if err != nil {
		return fmt.Errorf("renderer: present source: %w", err)
	}
	if handle.Kind() != registry.KindTexture {
		return fmt.Errorf("renderer: present source %q is a %s, not a texture", source, handle.Kind())
	}

	p, err := r.presentPipeline(source, handle.TextureDescriptor().Format)
	if err != nil {
		return err
	}

	var viewDesc *wgpu.TextureViewDescriptor
	if handle.TextureDescriptor().Format == pass.FormatDepth {
		// Depth+stencil textures can only be sampled through a depth-only view.
		viewDesc = &wgpu.TextureViewDescriptor{
			Label:  source + "-depth-view",
			Aspect: wgpu.TextureAspectDepthOnly,
		}
	}
	view, err := handle.Texture().CreateView(viewDesc)
	if err != nil {
		return fmt.Errorf("renderer: present source view: %w", err)
	}
	defer view.Release()

	bindGroup, err := r.backend.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "present-bind-group",
		Layout: p.RenderPipeline().GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: view,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: present bind group: %w", err)
	}
	defer bindGroup.Release()

	surfaceView, err := r.backend.AcquireSurfaceTexture()
	if err != nil {
		return err
	}

	encoder, err := r.backend.Device().CreateCommandEncoder(nil)
	if err != nil {
		r.backend.PresentSurface()
		return fmt.Errorf("renderer: present encoder: %w", err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "present",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    surfaceView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0, G: 0, B: 0, A: 1,
				},
			},
		},
	})
	renderPass.SetPipeline(p.RenderPipeline())
	renderPass.SetBindGroup(0, bindGroup, nil)
	renderPass.Draw(3, 1, 0, 0)
	renderPass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		r.backend.PresentSurface()
		return fmt.Errorf("renderer: present finish: %w", err)
	}
	r.backend.Queue().Submit(commandBuffer)
	commandBuffer.Release()

	r.backend.PresentSurface()
	return nil
}

// presentPipeline returns the cached blit pipeline for the given source
// label, creating it on first use.
func (r *rendererImpl) presentPipeline(source string, format wgpu.TextureFormat) (pipeline.Pipeline, error) {
	key := "present-" + source
	if cached := r.Pipeline(key); cached != nil && cached.RenderPipeline() != nil {
		return cached, nil
	}

	var fragmentSource string
	var sampleType wgpu.TextureSampleType
	switch format {
	case pass.FormatDepth:
		fragmentSource = presentBlitDepthSource
		sampleType = wgpu.TextureSampleTypeDepth
	case pass.FormatObjectIndex:
		fragmentSource = presentBlitU32Source
		sampleType = wgpu.TextureSampleTypeUint
	default:
		fragmentSource = presentBlitF32Source
		sampleType = wgpu.TextureSampleTypeUnfilterableFloat
	}

	p := pipeline.NewPipeline(key,
		pipeline.WithVertexShader(shader.NewShader(key+"-vs", shader.ShaderTypeVertex, presentVertexSource)),
		pipeline.WithFragmentShader(shader.NewShader(key+"-fs", shader.ShaderTypeFragment, fragmentSource)),
		pipeline.WithColorTargets(wgpu.ColorTargetState{
			Format:    r.backend.SurfaceFormat(),
			WriteMask: wgpu.ColorWriteMaskAll,
		}),
		pipeline.WithBindGroupLayouts(wgpu.BindGroupLayoutDescriptor{
			Label: key,
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    sampleType,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
			},
		}),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)

	if err := r.RegisterPipeline(p); err != nil {
		return nil, err
	}
	return p, nil
}
