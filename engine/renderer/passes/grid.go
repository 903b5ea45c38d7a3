package passes

import (
	_ "embed"

	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/grid.wgsl
var gridSource string

//go:embed assets/grid_composite.wgsl
var gridCompositeSource string

// Labels of the transient textures the grid pass creates and destroys within
// a single Render invocation.
const (
	// LabelGridColorMSAA is the multisampled attachment the grid lines render into.
	LabelGridColorMSAA = "gridColorMSAA"

	// LabelGridOverlay is the resolved single-sample overlay composited over the color texture.
	LabelGridOverlay = "gridOverlay"
)

const (
	gridPipelineKey          = "grid"
	gridCompositePipelineKey = "grid-composite"
)

// gridPassImpl is the implementation of the ground grid RenderPass.
type gridPassImpl struct {
	inputs  []pass.Declaration
	outputs []pass.Declaration
}

var _ pass.RenderPass = &gridPassImpl{}

// NewGridPass creates the pass that draws an anti-aliased ground grid over
// the color texture. The grid renders into a transient multisampled
// attachment, resolves it to a transient overlay, and alpha-blends the
// overlay over the shared color texture; both transients are destroyed
// before the pass returns.
//
// Returns:
//   - pass.RenderPass: the grid pass
func NewGridPass() pass.RenderPass {
	return &gridPassImpl{
		inputs: []pass.Declaration{
			pass.Buffer(pass.LabelCamera),
			pass.Texture(pass.LabelDepth),
		},
		outputs: []pass.Declaration{
			pass.Texture(pass.LabelColor),
		},
	}
}

func (g *gridPassImpl) Name() string {
	return "grid"
}

func (g *gridPassImpl) Inputs() []pass.Declaration {
	return g.inputs
}

func (g *gridPassImpl) Outputs() []pass.Declaration {
	return g.outputs
}

func (g *gridPassImpl) Render(host pass.Host, vp viewport.Viewport) error {
	if err := g.ensurePipelines(host); err != nil {
		return err
	}

	reg := host.Registry()
	width, height := uint32(vp.Width()), uint32(vp.Height())
	samples := host.SampleCount()

	overlayHandle, err := reg.CreateTexture(LabelGridOverlay, registry.TextureDescriptor{
		Width:  width,
		Height: height,
		Format: pass.FormatColor,
		Usage:  wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return err
	}
	// Both transients live only for this invocation.
	defer reg.Destroy(LabelGridOverlay)

	overlayView, err := overlayHandle.Texture().CreateView(nil)
	if err != nil {
		return err
	}
	defer overlayView.Release()

	var msaaView *wgpu.TextureView
	if samples > 1 {
		msaaHandle, err := reg.CreateTexture(LabelGridColorMSAA, registry.TextureDescriptor{
			Width:       width,
			Height:      height,
			Format:      pass.FormatColor,
			Usage:       wgpu.TextureUsageRenderAttachment,
			SampleCount: samples,
		})
		if err != nil {
			return err
		}
		defer reg.Destroy(LabelGridColorMSAA)

		msaaView, err = msaaHandle.Texture().CreateView(nil)
		if err != nil {
			return err
		}
		defer msaaView.Release()
	}

	cameraBuf, err := reg.GetBuffer(pass.LabelCamera)
	if err != nil {
		return err
	}
	depthTex, err := reg.GetTexture(pass.LabelDepth)
	if err != nil {
		return err
	}
	depthView, err := depthTex.CreateView(&wgpu.TextureViewDescriptor{
		Label:  "grid-depth-view",
		Aspect: wgpu.TextureAspectDepthOnly,
	})
	if err != nil {
		return err
	}
	defer depthView.Release()

	gridPipeline := host.Pipeline(gridPipelineKey)
	gridBindGroup, err := host.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "grid-bind-group",
		Layout: gridPipeline.RenderPipeline().GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: depthView},
		},
	})
	if err != nil {
		return err
	}
	defer gridBindGroup.Release()

	compositePipeline := host.Pipeline(gridCompositePipelineKey)
	compositeBindGroup, err := host.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "grid-composite-bind-group",
		Layout: compositePipeline.RenderPipeline().GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: overlayView},
		},
	})
	if err != nil {
		return err
	}
	defer compositeBindGroup.Release()

	colorViews, release, err := attachmentViews(reg, pass.LabelColor)
	if err != nil {
		return err
	}
	defer release()

	encoder, err := host.Device().CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// Stage 1: grid lines into the (multisampled) overlay.
	gridAttachment := wgpu.RenderPassColorAttachment{
		View:       overlayView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{},
	}
	if msaaView != nil {
		gridAttachment.View = msaaView
		gridAttachment.ResolveTarget = overlayView
		// The multisampled contents are not needed once resolved.
		gridAttachment.StoreOp = wgpu.StoreOpDiscard
	}
	gridRenderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "grid",
		ColorAttachments: []wgpu.RenderPassColorAttachment{gridAttachment},
	})
	gridRenderPass.SetPipeline(gridPipeline.RenderPipeline())
	gridRenderPass.SetBindGroup(0, gridBindGroup, nil)
	gridRenderPass.Draw(6, 1, 0, 0)
	gridRenderPass.End()

	// Stage 2: alpha-blend the overlay over the shared color texture.
	compositeRenderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "grid-composite",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    colorViews[0],
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})
	compositeRenderPass.SetPipeline(compositePipeline.RenderPipeline())
	compositeRenderPass.SetBindGroup(0, compositeBindGroup, nil)
	compositeRenderPass.Draw(3, 1, 0, 0)
	compositeRenderPass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	host.Queue().Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (g *gridPassImpl) ensurePipelines(host pass.Host) error {
	if cached := host.Pipeline(gridPipelineKey); cached == nil || cached.RenderPipeline() == nil {
		source := camera.GPUCameraDataSource + "\n" + gridSource

		p := pipeline.NewPipeline(gridPipelineKey,
			pipeline.WithVertexShader(shader.NewShader("grid-vs", shader.ShaderTypeVertex, source)),
			pipeline.WithFragmentShader(shader.NewShader("grid-fs", shader.ShaderTypeFragment, source)),
			pipeline.WithColorTargets(wgpu.ColorTargetState{
				Format:    pass.FormatColor,
				WriteMask: wgpu.ColorWriteMaskAll,
			}),
			pipeline.WithSampleCount(host.SampleCount()),
			pipeline.WithBindGroupLayouts(wgpu.BindGroupLayoutDescriptor{
				Label: gridPipelineKey,
				Entries: []wgpu.BindGroupLayoutEntry{
					{
						Binding:    0,
						Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
						Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
					},
					{
						Binding:    1,
						Visibility: wgpu.ShaderStageFragment,
						Texture: wgpu.TextureBindingLayout{
							SampleType:    wgpu.TextureSampleTypeDepth,
							ViewDimension: wgpu.TextureViewDimension2D,
						},
					},
				},
			}),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		)
		if err := host.RegisterPipeline(p); err != nil {
			return err
		}
	}

	if cached := host.Pipeline(gridCompositePipelineKey); cached == nil || cached.RenderPipeline() == nil {
		source := fullscreenVertexSource + "\n" + gridCompositeSource

		p := pipeline.NewPipeline(gridCompositePipelineKey,
			pipeline.WithVertexShader(shader.NewShader("grid-composite-vs", shader.ShaderTypeVertex, source)),
			pipeline.WithFragmentShader(shader.NewShader("grid-composite-fs", shader.ShaderTypeFragment, source)),
			pipeline.WithColorTargets(wgpu.ColorTargetState{
				Format: pass.FormatColor,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}),
			pipeline.WithBindGroupLayouts(wgpu.BindGroupLayoutDescriptor{
				Label: gridCompositePipelineKey,
				Entries: []wgpu.BindGroupLayoutEntry{
					{
						Binding:    0,
						Visibility: wgpu.ShaderStageFragment,
						Texture: wgpu.TextureBindingLayout{
							SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
							ViewDimension: wgpu.TextureViewDimension2D,
						},
					},
				},
			}),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		)
		if err := host.RegisterPipeline(p); err != nil {
			return err
		}
	}
	return nil
}
