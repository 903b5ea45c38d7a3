package passes

import (
	_ "embed"

	"github.com/Irrgh/webgpu-engine/common"
	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/mesh"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/geometry.wgsl
var geometrySource string

//go:embed assets/fullscreen_vertex.wgsl
var fullscreenVertexSource string

// Labels of the batch buffers the geometry pass recreates every frame.
const (
	// LabelVertexBuffer holds the combined interleaved vertex data.
	LabelVertexBuffer = "vertex"

	// LabelIndexBuffer holds the combined rebased index data.
	LabelIndexBuffer = "index"

	// LabelTransforms holds the sparse per-entity model matrix table.
	LabelTransforms = "transforms"

	// LabelObjectIndices maps dense instance slots to entity ids.
	LabelObjectIndices = "objectIndices"

	// LabelDrawParams holds the draw-parameter table in indirect-draw layout.
	LabelDrawParams = "drawParams"
)

const geometryPipelineKey = "geometry"

// geometryPassImpl is the implementation of the geometry RenderPass.
type geometryPassImpl struct {
	inputs  []pass.Declaration
	outputs []pass.Declaration
}

var _ pass.RenderPass = &geometryPassImpl{}

// NewGeometryPass creates the pass that batches the scene's mesh instances
// and rasterizes them into the shared color, normal, object-index, and depth
// targets. The batch buffers are recreated and re-uploaded every frame.
//
// Returns:
//   - pass.RenderPass: the geometry pass
func NewGeometryPass() pass.RenderPass {
	return &geometryPassImpl{
		inputs: []pass.Declaration{
			pass.Buffer(pass.LabelCamera),
		},
		outputs: []pass.Declaration{
			pass.Texture(pass.LabelColor),
			pass.Texture(pass.LabelDepth),
			pass.Texture(pass.LabelObjectIndex),
			pass.Texture(pass.LabelNormal),
			pass.Buffer(LabelVertexBuffer),
			pass.Buffer(LabelIndexBuffer),
			pass.Buffer(LabelTransforms),
			pass.Buffer(LabelObjectIndices),
			pass.Buffer(LabelDrawParams),
		},
	}
}

func (g *geometryPassImpl) Name() string {
	return "geometry"
}

func (g *geometryPassImpl) Inputs() []pass.Declaration {
	return g.inputs
}

func (g *geometryPassImpl) Outputs() []pass.Declaration {
	return g.outputs
}

func (g *geometryPassImpl) Render(host pass.Host, vp viewport.Viewport) error {
	batch := BuildBatch(vp.Scene().Entities())

	if err := g.uploadBatch(host, &batch); err != nil {
		return err
	}
	if err := g.ensurePipeline(host); err != nil {
		return err
	}

	reg := host.Registry()
	p := host.Pipeline(geometryPipelineKey)

	cameraBuf, err := reg.GetBuffer(pass.LabelCamera)
	if err != nil {
		return err
	}
	transformBuf, err := reg.GetBuffer(LabelTransforms)
	if err != nil {
		return err
	}
	objectIndexBuf, err := reg.GetBuffer(LabelObjectIndices)
	if err != nil {
		return err
	}

	bindGroup, err := host.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "geometry-bind-group",
		Layout: p.RenderPipeline().GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: transformBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: objectIndexBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	views, release, err := attachmentViews(reg, pass.LabelColor, pass.LabelNormal, pass.LabelObjectIndex, pass.LabelDepth)
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
		Label: "geometry",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    views[0],
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0.05, G: 0.05, B: 0.07, A: 1.0,
				},
			},
			{
				View:       views[1],
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
			{
				View:       views[2],
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              views[3],
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	if batch.InstanceCount() > 0 {
		vertexBuf, err := reg.GetBuffer(LabelVertexBuffer)
		if err != nil {
			return err
		}
		indexBuf, err := reg.GetBuffer(LabelIndexBuffer)
		if err != nil {
			return err
		}

		renderPass.SetPipeline(p.RenderPipeline())
		renderPass.SetBindGroup(0, bindGroup, nil)
		renderPass.SetVertexBuffer(0, vertexBuf, 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(indexBuf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		for _, d := range batch.Draws {
			renderPass.DrawIndexed(d.IndexCount, d.InstanceCount, d.FirstIndex, d.BaseVertex, d.FirstInstance)
		}
	}
	renderPass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	host.Queue().Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

// uploadBatch recreates the five batch buffers sized to the current batch and
// writes the batch data into them. Buffers are recreated even when the batch
// is empty so every frame starts from the minimum allocation floor.
func (g *geometryPassImpl) uploadBatch(host pass.Host, batch *Batch) error {
	reg := host.Registry()
	queue := host.Queue()

	uploads := []struct {
		label string
		data  []byte
		usage wgpu.BufferUsage
	}{
		{LabelVertexBuffer, common.SliceToBytes(batch.VertexData), wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst},
		{LabelIndexBuffer, common.SliceToBytes(batch.IndexData), wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst},
		{LabelTransforms, common.SliceToBytes(batch.Transforms), wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
		{LabelObjectIndices, common.SliceToBytes(batch.ObjectIndices), wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
		{LabelDrawParams, common.SliceToBytes(batch.Draws), wgpu.BufferUsageIndirect | wgpu.BufferUsageCopyDst},
	}

	for _, u := range uploads {
		handle, err := reg.CreateBuffer(u.label, registry.BufferDescriptor{
			Size:  uint64(len(u.data)),
			Usage: u.usage,
		})
		if err != nil {
			return err
		}
		if len(u.data) > 0 {
			queue.WriteBuffer(handle.Buffer(), 0, u.data)
		}
	}
	return nil
}

func (g *geometryPassImpl) ensurePipeline(host pass.Host) error {
	if cached := host.Pipeline(geometryPipelineKey); cached != nil && cached.RenderPipeline() != nil {
		return nil
	}

	source := camera.GPUCameraDataSource + "\n" + geometrySource

	p := pipeline.NewPipeline(geometryPipelineKey,
		pipeline.WithVertexShader(shader.NewShader("geometry-vs", shader.ShaderTypeVertex, source)),
		pipeline.WithFragmentShader(shader.NewShader("geometry-fs", shader.ShaderTypeFragment, source)),
		pipeline.WithColorTargets(
			wgpu.ColorTargetState{Format: pass.FormatColor, WriteMask: wgpu.ColorWriteMaskAll},
			wgpu.ColorTargetState{Format: pass.FormatNormal, WriteMask: wgpu.ColorWriteMaskAll},
			wgpu.ColorTargetState{Format: pass.FormatObjectIndex, WriteMask: wgpu.ColorWriteMaskAll},
		),
		pipeline.WithDepthFormat(pass.FormatDepth),
		pipeline.WithVertexLayouts(wgpu.VertexBufferLayout{
			ArrayStride: mesh.VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			},
		}),
		pipeline.WithBindGroupLayouts(wgpu.BindGroupLayoutDescriptor{
			Label: geometryPipelineKey,
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageVertex,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
				{
					Binding:    2,
					Visibility: wgpu.ShaderStageVertex,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
			},
		}),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	return host.RegisterPipeline(p)
}

// attachmentViews creates default views of the named registry textures.
// The returned release function releases every created view.
func attachmentViews(reg registry.Registry, labels ...string) ([]*wgpu.TextureView, func(), error) {
	views := make([]*wgpu.TextureView, 0, len(labels))
	release := func() {
		for _, v := range views {
			v.Release()
		}
	}

	for _, label := range labels {
		tex, err := reg.GetTexture(label)
		if err != nil {
			release()
			return nil, nil, err
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			release()
			return nil, nil, err
		}
		views = append(views, view)
	}
	return views, release, nil
}
