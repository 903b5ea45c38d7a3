package renderer

import (
	"sync"
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/Irrgh/webgpu-engine/engine/renderer/pipeline"
	"github.com/Irrgh/webgpu-engine/engine/renderer/registry"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend satisfies wgpuRendererBackend without touching a GPU.
type fakeBackend struct {
	pipelineCreations int
}

var _ wgpuRendererBackend = &fakeBackend{}

func (f *fakeBackend) AllocateBuffer(label string, desc registry.BufferDescriptor) (*wgpu.Buffer, error) {
	return nil, nil
}

func (f *fakeBackend) AllocateTexture(label string, desc registry.TextureDescriptor) (*wgpu.Texture, error) {
	return nil, nil
}

func (f *fakeBackend) ReleaseBuffer(buf *wgpu.Buffer) {}

func (f *fakeBackend) ReleaseTexture(tex *wgpu.Texture) {}

func (f *fakeBackend) Device() *wgpu.Device { return nil }

func (f *fakeBackend) Queue() *wgpu.Queue { return nil }

func (f *fakeBackend) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8Unorm }

func (f *fakeBackend) ConfigureSurface(width, height uint32) error { return nil }

func (f *fakeBackend) SetPresentMode(mode PresentMode) {}

func (f *fakeBackend) CreateRenderPipeline(p pipeline.Pipeline) error {
	f.pipelineCreations++
	p.SetRenderPipeline(&wgpu.RenderPipeline{})
	return nil
}

func (f *fakeBackend) AcquireSurfaceTexture() (*wgpu.TextureView, error) { return nil, nil }

func (f *fakeBackend) PresentSurface() {}

func (f *fakeBackend) Release() {}

func newTestRenderer(backend wgpuRendererBackend) *rendererImpl {
	return &rendererImpl{
		mu:            &sync.Mutex{},
		backend:       backend,
		pipelines:     make(map[string]pipeline.Pipeline),
		presentSource: pass.LabelColor,
		sampleCount:   MSAA4x,
	}
}

func TestRegisterPipelineCachesByKey(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	p := pipeline.NewPipeline("test")
	require.NoError(t, r.RegisterPipeline(p))
	assert.Equal(t, 1, backend.pipelineCreations)
	assert.Same(t, p, r.Pipeline("test"))

	// Registering the same key again is a no-op once the pipeline exists.
	require.NoError(t, r.RegisterPipeline(p))
	require.NoError(t, r.RegisterPipeline(pipeline.NewPipeline("test")))
	assert.Equal(t, 1, backend.pipelineCreations)

	require.NoError(t, r.RegisterPipeline(pipeline.NewPipeline("other")))
	assert.Equal(t, 2, backend.pipelineCreations)
}

func TestPipelineReturnsNilForUnknownKey(t *testing.T) {
	r := newTestRenderer(&fakeBackend{})
	assert.Nil(t, r.Pipeline("missing"))
}

func TestPresentSourceSelection(t *testing.T) {
	r := newTestRenderer(&fakeBackend{})

	assert.Equal(t, pass.LabelColor, r.PresentSource())

	r.SetPresentSource(pass.LabelNormal)
	assert.Equal(t, pass.LabelNormal, r.PresentSource())

	r.SetPresentSource(pass.LabelObjectIndex)
	assert.Equal(t, pass.LabelObjectIndex, r.PresentSource())
}

func TestSampleCount(t *testing.T) {
	r := newTestRenderer(&fakeBackend{})
	assert.Equal(t, uint32(4), r.SampleCount())

	r.sampleCount = MSAAOff
	assert.Equal(t, uint32(1), r.SampleCount())
}

func TestMSAASampleCountValues(t *testing.T) {
	assert.Equal(t, MSAASampleCount(1), MSAAOff)
	assert.Equal(t, MSAASampleCount(4), MSAA4x)
	assert.Equal(t, MSAASampleCount(8), MSAA8x)
}
