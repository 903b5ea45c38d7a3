// Package pipeline describes render pipelines declaratively. A Pipeline
// carries the shaders, vertex layouts, bind group layouts, and attachment
// formats the renderer needs to create the wgpu.RenderPipeline; creation
// itself happens in the renderer backend so passes stay device-free.
package pipeline

import (
	"github.com/Irrgh/webgpu-engine/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineImpl is the implementation of the Pipeline interface.
// It holds the configuration state and, once created, the WebGPU pipeline object.
type pipelineImpl struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the renderer backend after creation.
	renderPipeline *wgpu.RenderPipeline

	// Attachment and resource layout configuration.
	colorTargets     []wgpu.ColorTargetState
	depthFormat      wgpu.TextureFormat
	vertexLayouts    []wgpu.VertexBufferLayout
	bindGroupLayouts []wgpu.BindGroupLayoutDescriptor
	sampleCount      uint32

	// Fixed-function state, toggled with builder options.
	depthTestEnabled  bool
	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
}

// Pipeline defines the interface for a render pipeline description. It holds
// all configuration state required for pipeline creation including shader,
// attachment, depth, cull, and topology settings.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// ColorTargets returns the color attachment states for this pipeline.
	//
	// Returns:
	//   - []wgpu.ColorTargetState: the color targets in attachment order
	ColorTargets() []wgpu.ColorTargetState

	// DepthFormat returns the depth attachment format, or
	// wgpu.TextureFormatUndefined when the pipeline has no depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth attachment format
	DepthFormat() wgpu.TextureFormat

	// VertexLayouts returns the vertex buffer layouts consumed by the vertex stage.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayouts returns the bind group layout descriptors in group order.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: the layout descriptors
	BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor

	// SampleCount returns the multisample count for this pipeline (1 = no MSAA).
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// RenderPipeline returns the created WebGPU render pipeline, or nil before
	// the renderer backend has created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the created render pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipelineImpl{}

// NewPipeline creates a new render pipeline description. The vertex and
// fragment shaders and at least one color target must be supplied through
// options before the renderer can create the pipeline.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipelineImpl{
		pipelineKey:       pipelineKey,
		depthFormat:       wgpu.TextureFormatUndefined,
		sampleCount:       1,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipelineImpl) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipelineImpl) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipelineImpl) ColorTargets() []wgpu.ColorTargetState {
	return p.colorTargets
}

func (p *pipelineImpl) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipelineImpl) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipelineImpl) BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipelineImpl) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipelineImpl) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipelineImpl) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipelineImpl) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipelineImpl) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipelineImpl) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipelineImpl) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipelineImpl) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
