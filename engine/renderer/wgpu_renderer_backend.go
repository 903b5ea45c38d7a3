package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrDeviceInit is returned when the WebGPU instance, adapter, device, or
// surface could not be initialized.
var ErrDeviceInit = errors.New("renderer: device initialization failed")

// wgpuRendererBackend is the WebGPU implementation surface of the renderer
// backend. It owns the instance, adapter, device, queue, and presentation
// surface, and implements registry.Allocator so the resource registry can
// allocate against the real device.
type wgpuRendererBackend interface {
	registry.Allocator

	// Device returns the WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the WebGPU queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// SurfaceFormat returns the texture format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// ConfigureSurface (re)configures the presentation surface to the given
	// pixel size using the current present mode. Must be called before the
	// first AcquireSurfaceTexture and after every resize.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface cannot be configured
	ConfigureSurface(width, height uint32) error

	// SetPresentMode sets the present mode applied on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// CreateRenderPipeline creates the GPU pipeline described by p and stores
	// it on p. No-op when p already carries a created pipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if shader modules or the pipeline cannot be created
	CreateRenderPipeline(p pipeline.Pipeline) error

	// AcquireSurfaceTexture acquires the next surface texture and returns a
	// view of it for use as a render attachment.
	//
	// Returns:
	//   - *wgpu.TextureView: the surface texture view
	//   - error: an error if the surface texture cannot be acquired
	AcquireSurfaceTexture() (*wgpu.TextureView, error)

	// PresentSurface presents the previously acquired surface texture and
	// releases the per-frame surface state.
	PresentSurface()

	// Release releases all GPU objects owned by the backend.
	Release()
}

// wgpuRendererBackendImpl is the implementation of the wgpuRendererBackend interface.
type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   PresentMode

	// Per-frame surface state between acquire and present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend initializes the WebGPU stack against the given
// surface descriptor: instance, surface, adapter, device, and queue.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the viewport
//   - forceFallbackAdapter: request the software fallback adapter
//
// Returns:
//   - wgpuRendererBackend: the initialized backend
//   - error: ErrDeviceInit-wrapped error if any stage fails
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (wgpuRendererBackend, error) {
	// WebGPU surface and device calls must stay on the thread that owns the
	// platform window.
	runtime.LockOSThread()

	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("%w: nil surface descriptor", ErrDeviceInit)
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, fmt.Errorf("%w: could not create instance", ErrDeviceInit)
	}

	surface := instance.CreateSurface(surfaceDescriptor)
	if surface == nil {
		instance.Release()
		return nil, fmt.Errorf("%w: could not create surface", ErrDeviceInit)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request adapter: %v", ErrDeviceInit, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "viewer-device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request device: %v", ErrDeviceInit, err)
	}

	log.Info("renderer: device initialized", "fallbackAdapter", forceFallbackAdapter)

	b := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		instance:      instance,
		adapter:       adapter,
		device:        device,
		queue:         device.GetQueue(),
		surface:       surface,
		surfaceFormat: wgpu.TextureFormatUndefined,
		presentMode:   PresentModeVSync,
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width == 0 || height == 0 {
		return fmt.Errorf("renderer: cannot configure surface to %dx%d", width, height)
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return fmt.Errorf("renderer: surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	presentMode := wgpu.PresentModeFifo
	if b.presentMode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	log.Debug("renderer: surface configured", "width", width, "height", height, "format", b.surfaceFormat)
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *wgpuRendererBackendImpl) CreateRenderPipeline(p pipeline.Pipeline) error {
	if p.RenderPipeline() != nil {
		return nil
	}

	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return fmt.Errorf("renderer: pipeline %q requires both vertex and fragment shaders", p.PipelineKey())
	}

	vsModule, err := b.device.CreateShaderModule(vs.Module())
	if err != nil {
		return fmt.Errorf("renderer: vertex shader module for %q: %w", p.PipelineKey(), err)
	}
	defer vsModule.Release()

	fsModule, err := b.device.CreateShaderModule(fs.Module())
	if err != nil {
		return fmt.Errorf("renderer: fragment shader module for %q: %w", p.PipelineKey(), err)
	}
	defer fsModule.Release()

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(p.BindGroupLayouts()))
	for i := range p.BindGroupLayouts() {
		desc := p.BindGroupLayouts()[i]
		bgl, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			for _, created := range bindGroupLayouts {
				created.Release()
			}
			return fmt.Errorf("renderer: bind group layout %d for %q: %w", i, p.PipelineKey(), err)
		}
		bindGroupLayouts = append(bindGroupLayouts, bgl)
	}
	defer func() {
		for _, bgl := range bindGroupLayouts {
			bgl.Release()
		}
	}()

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey() + "-layout",
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("renderer: pipeline layout for %q: %w", p.PipelineKey(), err)
	}
	defer layout.Release()

	targets := make([]wgpu.ColorTargetState, len(p.ColorTargets()))
	copy(targets, p.ColorTargets())

	var depthStencil *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionAlways
		if p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionLess
		}
		depthStencil = &wgpu.DepthStencilState{
			Format:            p.DepthFormat(),
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	rp, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vsModule,
			EntryPoint: vs.EntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: fs.EntryPoint(),
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count: p.SampleCount(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: create pipeline %q: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(rp)
	log.Debug("renderer: pipeline created", "key", p.PipelineKey())
	return nil
}

func (b *wgpuRendererBackendImpl) AcquireSurfaceTexture() (*wgpu.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A frame surface still held from the previous frame means present was
	// skipped; acquiring again would trip a wgpu validation error.
	if b.frameSurface != nil {
		return nil, fmt.Errorf("renderer: previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("renderer: acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("renderer: surface texture view: %w", err)
	}

	b.frameSurface = surfaceTexture
	b.frameView = view
	return view, nil
}

func (b *wgpuRendererBackendImpl) PresentSurface() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) AllocateBuffer(label string, desc registry.BufferDescriptor) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: allocate buffer %q (%d bytes): %w", label, desc.Size, err)
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) AllocateTexture(label string, desc registry.TextureDescriptor) (*wgpu.Texture, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   desc.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: allocate texture %q (%dx%d): %w", label, desc.Width, desc.Height, err)
	}
	return tex, nil
}

func (b *wgpuRendererBackendImpl) ReleaseBuffer(buf *wgpu.Buffer) {
	if buf != nil {
		buf.Destroy()
		buf.Release()
	}
}

func (b *wgpuRendererBackendImpl) ReleaseTexture(tex *wgpu.Texture) {
	if tex != nil {
		tex.Destroy()
		tex.Release()
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
