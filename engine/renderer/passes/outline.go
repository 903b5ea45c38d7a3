package passes

import (
	_ "embed"

	"github.com/Irrgh/webgpu-engine/common"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/outline.wgsl
var outlineSource string

// LabelOutlineParams is the uniform buffer holding the outline parameters.
const LabelOutlineParams = "outlineParams"

const outlinePipelineKey = "outline"

// defaultOutlineRadius is the outline thickness in pixels.
const defaultOutlineRadius uint32 = 2

// outlinePassImpl is the implementation of the selection outline RenderPass.
type outlinePassImpl struct {
	radius  uint32
	inputs  []pass.Declaration
	outputs []pass.Declaration
}

var _ pass.RenderPass = &outlinePassImpl{}

// NewOutlinePass creates the pass that draws a screen-space outline around
// the scene's selected entity by dilating its footprint in the object-index
// texture. Frames without a selection render nothing.
//
// Returns:
//   - pass.RenderPass: the outline pass
func NewOutlinePass() pass.RenderPass {
	return &outlinePassImpl{
		radius: defaultOutlineRadius,
		inputs: []pass.Declaration{
			pass.Texture(pass.LabelObjectIndex),
		},
		outputs: []pass.Declaration{
			pass.Texture(pass.LabelColor),
		},
	}
}

func (o *outlinePassImpl) Name() string {
	return "outline"
}

func (o *outlinePassImpl) Inputs() []pass.Declaration {
	return o.inputs
}

func (o *outlinePassImpl) Outputs() []pass.Declaration {
	return o.outputs
}

func (o *outlinePassImpl) Render(host pass.Host, vp viewport.Viewport) error {
	selected, ok := vp.Scene().Selected()
	if !ok {
		return nil
	}

	if err := o.ensurePipeline(host); err != nil {
		return err
	}

	reg := host.Registry()
	p := host.Pipeline(outlinePipelineKey)

	// Object ids are shifted up by one in the object-index texture.
	params := [4]uint32{uint32(selected) + 1, o.radius, 0, 0}
	paramsHandle, err := reg.CreateBuffer(LabelOutlineParams, registry.BufferDescriptor{
		Size:  uint64(len(params) * 4),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	host.Queue().WriteBuffer(paramsHandle.Buffer(), 0, common.SliceToBytes(params[:]))

	objectIndexTex, err := reg.GetTexture(pass.LabelObjectIndex)
	if err != nil {
		return err
	}
	objectIndexView, err := objectIndexTex.CreateView(nil)
	if err != nil {
		return err
	}
	defer objectIndexView.Release()

	bindGroup, err := host.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "outline-bind-group",
		Layout: p.RenderPipeline().GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: objectIndexView},
			{Binding: 1, Buffer: paramsHandle.Buffer(), Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	views, release, err := attachmentViews(reg, pass.LabelColor)
	if err != nil {
		return err
	}
	defer release()

	encoder, err := host.Device().CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "outline",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    views[0],
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})
	renderPass.SetPipeline(p.RenderPipeline())
	renderPass.SetBindGroup(0, bindGroup, nil)
	renderPass.Draw(3, 1, 0, 0)
	renderPass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	host.Queue().Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (o *outlinePassImpl) ensurePipeline(host pass.Host) error {
	if cached := host.Pipeline(outlinePipelineKey); cached != nil && cached.RenderPipeline() != nil {
		return nil
	}

	source := fullscreenVertexSource + "\n" + outlineSource

	p := pipeline.NewPipeline(outlinePipelineKey,
		pipeline.WithVertexShader(shader.NewShader("outline-vs", shader.ShaderTypeVertex, source)),
		pipeline.WithFragmentShader(shader.NewShader("outline-fs", shader.ShaderTypeFragment, source)),
		pipeline.WithColorTargets(wgpu.ColorTargetState{
			Format:    pass.FormatColor,
			WriteMask: wgpu.ColorWriteMaskAll,
		}),
		pipeline.WithBindGroupLayouts(wgpu.BindGroupLayoutDescriptor{
			Label: outlinePipelineKey,
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeUint,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
				},
			},
		}),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
	return host.RegisterPipeline(p)
}
