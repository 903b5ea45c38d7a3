package registry

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAllocator records allocations and releases without touching a GPU device.
type fakeAllocator struct {
	buffers  []BufferDescriptor
	textures []TextureDescriptor

	releasedBuffers  []*wgpu.Buffer
	releasedTextures []*wgpu.Texture

	failNext bool
}

func (f *fakeAllocator) AllocateBuffer(label string, desc BufferDescriptor) (*wgpu.Buffer, error) {
	if f.failNext {
		f.failNext = false
		return nil, assert.AnError
	}
	f.buffers = append(f.buffers, desc)
	return &wgpu.Buffer{}, nil
}

func (f *fakeAllocator) AllocateTexture(label string, desc TextureDescriptor) (*wgpu.Texture, error) {
	if f.failNext {
		f.failNext = false
		return nil, assert.AnError
	}
	f.textures = append(f.textures, desc)
	return &wgpu.Texture{}, nil
}

func (f *fakeAllocator) ReleaseBuffer(buf *wgpu.Buffer) {
	f.releasedBuffers = append(f.releasedBuffers, buf)
}

func (f *fakeAllocator) ReleaseTexture(tex *wgpu.Texture) {
	f.releasedTextures = append(f.releasedTextures, tex)
}

func TestCreateThenGetReturnsSameResource(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	created, err := r.CreateBuffer("vertex", BufferDescriptor{Size: 1024, Usage: wgpu.BufferUsageVertex})
	require.NoError(t, err)

	got, err := r.Get("vertex")
	require.NoError(t, err)
	assert.Same(t, created, got)
	assert.Equal(t, KindBuffer, got.Kind())
	assert.Same(t, created.Buffer(), got.Buffer())
}

func TestGetBeforeCreateFailsWithResourceNotFound(t *testing.T) {
	r := NewRegistry(&fakeAllocator{})

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = r.GetBuffer("missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = r.GetTexture("missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateReplacesAndReleasesPriorResource(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	first, err := r.CreateBuffer("transform", BufferDescriptor{Size: 512, Usage: wgpu.BufferUsageStorage})
	require.NoError(t, err)
	firstBuf := first.Buffer()

	second, err := r.CreateBuffer("transform", BufferDescriptor{Size: 2048, Usage: wgpu.BufferUsageStorage})
	require.NoError(t, err)

	got, err := r.Get("transform")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, uint64(2048), got.BufferDescriptor().Size)

	// The first buffer must have been released, and its handle emptied so no
	// live reference remains reachable through the registry.
	require.Len(t, alloc.releasedBuffers, 1)
	assert.Same(t, firstBuf, alloc.releasedBuffers[0])
	assert.Nil(t, first.Buffer())
}

func TestReplaceTwiceLeavesSingleLiveResource(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	_, err := r.CreateBuffer("index", BufferDescriptor{Size: 300, Usage: wgpu.BufferUsageIndex})
	require.NoError(t, err)
	_, err = r.CreateBuffer("index", BufferDescriptor{Size: 600, Usage: wgpu.BufferUsageIndex})
	require.NoError(t, err)
	_, err = r.CreateBuffer("index", BufferDescriptor{Size: 900, Usage: wgpu.BufferUsageIndex})
	require.NoError(t, err)

	// Three allocations, two releases: exactly one resource remains live.
	assert.Len(t, alloc.buffers, 3)
	assert.Len(t, alloc.releasedBuffers, 2)
	assert.Equal(t, []string{"index"}, r.List())
}

func TestReplaceCanChangeResourceKind(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	_, err := r.CreateBuffer("shared", BufferDescriptor{Size: 256})
	require.NoError(t, err)

	_, err = r.CreateTexture("shared", TextureDescriptor{Width: 64, Height: 64, Format: wgpu.TextureFormatRGBA8UnormSrgb})
	require.NoError(t, err)

	got, err := r.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, KindTexture, got.Kind())
	assert.Len(t, alloc.releasedBuffers, 1)

	_, err = r.GetBuffer("shared")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrResourceNotFound)
}

func TestMinimumAllocationFloor(t *testing.T) {
	tests := []struct {
		name      string
		floor     uint64
		requested uint64
		want      uint64
	}{
		{name: "zero size floored to default", floor: 0, requested: 0, want: DefaultMinimumAllocation},
		{name: "small size floored", floor: 1024, requested: 12, want: 1024},
		{name: "large size unchanged", floor: 1024, requested: 4096, want: 4096},
		{name: "exact floor unchanged", floor: 512, requested: 512, want: 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &fakeAllocator{}
			var r Registry
			if tt.floor == 0 {
				r = NewRegistry(alloc)
			} else {
				r = NewRegistry(alloc, WithMinimumAllocation(tt.floor))
			}

			h, err := r.CreateBuffer("buf", BufferDescriptor{Size: tt.requested})
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.BufferDescriptor().Size)
			assert.Equal(t, tt.want, alloc.buffers[0].Size)
		})
	}
}

func TestTextureDescriptorClamping(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	h, err := r.CreateTexture("color", TextureDescriptor{Format: wgpu.TextureFormatRGBA8UnormSrgb})
	require.NoError(t, err)

	desc := h.TextureDescriptor()
	assert.Equal(t, uint32(1), desc.Width)
	assert.Equal(t, uint32(1), desc.Height)
	assert.Equal(t, uint32(1), desc.SampleCount)
}

func TestDestroyReleasesAndIsIdempotent(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	_, err := r.CreateTexture("depth", TextureDescriptor{Width: 800, Height: 600, Format: wgpu.TextureFormatDepth24PlusStencil8})
	require.NoError(t, err)

	r.Destroy("depth")
	assert.Len(t, alloc.releasedTextures, 1)

	_, err = r.Get("depth")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	// Destroying an absent label is a no-op.
	r.Destroy("depth")
	r.Destroy("never-existed")
	assert.Len(t, alloc.releasedTextures, 1)
}

func TestFailedReplacementKeepsPriorResource(t *testing.T) {
	alloc := &fakeAllocator{}
	r := NewRegistry(alloc)

	first, err := r.CreateBuffer("camera", BufferDescriptor{Size: 256, Usage: wgpu.BufferUsageUniform})
	require.NoError(t, err)

	alloc.failNext = true
	_, err = r.CreateBuffer("camera", BufferDescriptor{Size: 512, Usage: wgpu.BufferUsageUniform})
	require.Error(t, err)

	// The prior resource survives a failed replacement.
	got, getErr := r.Get("camera")
	require.NoError(t, getErr)
	assert.Same(t, first, got)
	assert.Empty(t, alloc.releasedBuffers)
}

func TestListReturnsSortedLabels(t *testing.T) {
	r := NewRegistry(&fakeAllocator{})

	for _, label := range []string{"normal", "color", "objectIndex", "depth"} {
		_, err := r.CreateTexture(label, TextureDescriptor{Width: 4, Height: 4})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"color", "depth", "normal", "objectIndex"}, r.List())

	r.Destroy("normal")
	assert.Equal(t, []string{"color", "depth", "objectIndex"}, r.List())
}
