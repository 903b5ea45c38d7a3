// Package registry implements the label-keyed store of live GPU resources
// shared between render passes. A Renderer owns exactly one Registry; passes
// reach it through their non-owning renderer back-reference and never hold
// their own copy.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrResourceNotFound is returned by Get when no resource is registered under
// the requested label. It is always surfaced to the caller, never defaulted.
var ErrResourceNotFound = errors.New("registry: resource not found")

// DefaultMinimumAllocation is the fallback minimum size in bytes for buffer
// allocations. Sizing every resource to at least this floor avoids zero-size
// resource errors when a scene has no content to upload.
const DefaultMinimumAllocation uint64 = 256

// Kind identifies whether a registered resource is a buffer or a texture.
type Kind int

const (
	// KindBuffer indicates a GPU buffer resource.
	KindBuffer Kind = iota

	// KindTexture indicates a GPU texture resource.
	KindTexture
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// BufferDescriptor describes a buffer allocation request. Size is the content
// size in bytes before the minimum-allocation floor is applied.
type BufferDescriptor struct {
	// Size is the requested content size in bytes.
	Size uint64
	// Usage is the buffer usage bit set (vertex, index, storage, uniform, copy destination, ...).
	Usage wgpu.BufferUsage
}

// TextureDescriptor describes a texture allocation request. Zero dimensions
// are clamped to 1x1 so empty viewports never produce invalid descriptors.
type TextureDescriptor struct {
	// Width and Height are the texture dimensions in texels.
	Width, Height uint32
	// Format is the texel format.
	Format wgpu.TextureFormat
	// Usage is the texture usage bit set (render attachment, binding, copy source, ...).
	Usage wgpu.TextureUsage
	// SampleCount is the multisample count; 0 is treated as 1.
	SampleCount uint32
}

// Handle is the registry's record of one live GPU resource: its label, kind,
// creation descriptor, and the underlying GPU object. A handle stays valid
// until the resource is replaced or destroyed under its label.
type Handle struct {
	label string
	kind  Kind

	buffer  *wgpu.Buffer
	texture *wgpu.Texture

	bufferDesc  BufferDescriptor
	textureDesc TextureDescriptor
}

// Label returns the unique label this resource is registered under.
func (h *Handle) Label() string {
	return h.label
}

// Kind returns whether this handle refers to a buffer or a texture.
func (h *Handle) Kind() Kind {
	return h.kind
}

// Buffer returns the underlying GPU buffer, or nil for texture handles.
func (h *Handle) Buffer() *wgpu.Buffer {
	return h.buffer
}

// Texture returns the underlying GPU texture, or nil for buffer handles.
func (h *Handle) Texture() *wgpu.Texture {
	return h.texture
}

// BufferDescriptor returns the descriptor the buffer was created with,
// after the minimum-allocation floor was applied to its size.
func (h *Handle) BufferDescriptor() BufferDescriptor {
	return h.bufferDesc
}

// TextureDescriptor returns the descriptor the texture was created with,
// after dimension clamping and sample-count defaulting.
func (h *Handle) TextureDescriptor() TextureDescriptor {
	return h.textureDesc
}

// Allocator is the device capability surface the registry allocates through.
// The wgpu renderer backend implements it against a real device; tests
// substitute a recording fake.
type Allocator interface {
	// AllocateBuffer creates a GPU buffer for the given descriptor.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - desc: the allocation request (size already floored by the registry)
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if allocation fails
	AllocateBuffer(label string, desc BufferDescriptor) (*wgpu.Buffer, error)

	// AllocateTexture creates a GPU texture for the given descriptor.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - desc: the allocation request (dimensions already clamped by the registry)
	//
	// Returns:
	//   - *wgpu.Texture: the created texture
	//   - error: an error if allocation fails
	AllocateTexture(label string, desc TextureDescriptor) (*wgpu.Texture, error)

	// ReleaseBuffer releases a buffer previously returned by AllocateBuffer.
	ReleaseBuffer(buf *wgpu.Buffer)

	// ReleaseTexture releases a texture previously returned by AllocateTexture.
	ReleaseTexture(tex *wgpu.Texture)
}

// registryImpl is the implementation of the Registry interface.
// It is mutated only by the render-driving thread; no internal locking.
type registryImpl struct {
	allocator Allocator
	resources map[string]*Handle

	minAllocation uint64
}

// Registry owns named GPU-backed resources. At most one live resource exists
// per label at any time: creating under an existing label destroys the prior
// resource for that label before installing the new one, so no stale handle
// to the old resource remains reachable through the registry.
type Registry interface {
	// CreateBuffer allocates a buffer and registers it under label, replacing
	// and destroying any resource previously registered under that label.
	// The allocation size is max(desc.Size, MinimumAllocation()).
	//
	// Parameters:
	//   - label: the unique label to register the buffer under
	//   - desc: the buffer allocation request
	//
	// Returns:
	//   - *Handle: the handle for the newly created buffer
	//   - error: an error if GPU allocation fails (fatal for the current frame)
	CreateBuffer(label string, desc BufferDescriptor) (*Handle, error)

	// CreateTexture allocates a texture and registers it under label, replacing
	// and destroying any resource previously registered under that label.
	// Zero dimensions are clamped to 1 and a zero sample count becomes 1.
	//
	// Parameters:
	//   - label: the unique label to register the texture under
	//   - desc: the texture allocation request
	//
	// Returns:
	//   - *Handle: the handle for the newly created texture
	//   - error: an error if GPU allocation fails (fatal for the current frame)
	CreateTexture(label string, desc TextureDescriptor) (*Handle, error)

	// Get returns the handle registered under label.
	//
	// Parameters:
	//   - label: the label to look up
	//
	// Returns:
	//   - *Handle: the live handle
	//   - error: ErrResourceNotFound if nothing is registered under label
	Get(label string) (*Handle, error)

	// GetBuffer returns the buffer registered under label, failing when the
	// label is absent or registered as a texture.
	//
	// Parameters:
	//   - label: the label to look up
	//
	// Returns:
	//   - *wgpu.Buffer: the live buffer
	//   - error: ErrResourceNotFound if absent, or a kind-mismatch error
	GetBuffer(label string) (*wgpu.Buffer, error)

	// GetTexture returns the texture registered under label, failing when the
	// label is absent or registered as a buffer.
	//
	// Parameters:
	//   - label: the label to look up
	//
	// Returns:
	//   - *wgpu.Texture: the live texture
	//   - error: ErrResourceNotFound if absent, or a kind-mismatch error
	GetTexture(label string) (*wgpu.Texture, error)

	// Destroy removes the resource registered under label and releases its GPU
	// object. No-op when nothing is registered under label.
	//
	// Parameters:
	//   - label: the label to destroy
	Destroy(label string)

	// List returns the currently registered labels in sorted order.
	//
	// Returns:
	//   - []string: the sorted label set
	List() []string

	// MinimumAllocation returns the configured minimum buffer allocation in bytes.
	//
	// Returns:
	//   - uint64: the minimum allocation floor
	MinimumAllocation() uint64
}

var _ Registry = &registryImpl{}

// NewRegistry creates a Registry that allocates through the given Allocator.
//
// Parameters:
//   - allocator: the device allocation surface (must not be nil)
//   - options: functional options to further configure the registry
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry(allocator Allocator, options ...RegistryOption) Registry {
	if allocator == nil {
		panic("registry: NewRegistry requires a non-nil Allocator")
	}

	r := &registryImpl{
		allocator:     allocator,
		resources:     make(map[string]*Handle),
		minAllocation: DefaultMinimumAllocation,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *registryImpl) CreateBuffer(label string, desc BufferDescriptor) (*Handle, error) {
	if desc.Size < r.minAllocation {
		desc.Size = r.minAllocation
	}

	buf, err := r.allocator.AllocateBuffer(label, desc)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to create buffer %q: %w", label, err)
	}

	// Release the prior resource only after the replacement allocation
	// succeeded, then install the new handle. At no point are two live
	// resources registered under the same label.
	r.release(label)

	h := &Handle{
		label:      label,
		kind:       KindBuffer,
		buffer:     buf,
		bufferDesc: desc,
	}
	r.resources[label] = h
	return h, nil
}

func (r *registryImpl) CreateTexture(label string, desc TextureDescriptor) (*Handle, error) {
	if desc.Width == 0 {
		desc.Width = 1
	}
	if desc.Height == 0 {
		desc.Height = 1
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	tex, err := r.allocator.AllocateTexture(label, desc)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to create texture %q: %w", label, err)
	}

	r.release(label)

	h := &Handle{
		label:       label,
		kind:        KindTexture,
		texture:     tex,
		textureDesc: desc,
	}
	r.resources[label] = h
	return h, nil
}

func (r *registryImpl) Get(label string) (*Handle, error) {
	h, exists := r.resources[label]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrResourceNotFound, label)
	}
	return h, nil
}

func (r *registryImpl) GetBuffer(label string) (*wgpu.Buffer, error) {
	h, err := r.Get(label)
	if err != nil {
		return nil, err
	}
	if h.kind != KindBuffer {
		return nil, fmt.Errorf("registry: resource %q is a %s, not a buffer", label, h.kind)
	}
	return h.buffer, nil
}

func (r *registryImpl) GetTexture(label string) (*wgpu.Texture, error) {
	h, err := r.Get(label)
	if err != nil {
		return nil, err
	}
	if h.kind != KindTexture {
		return nil, fmt.Errorf("registry: resource %q is a %s, not a texture", label, h.kind)
	}
	return h.texture, nil
}

func (r *registryImpl) Destroy(label string) {
	if r.release(label) {
		log.Debug("registry: destroyed resource", "label", label)
	}
}

func (r *registryImpl) List() []string {
	labels := make([]string, 0, len(r.resources))
	for label := range r.resources {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (r *registryImpl) MinimumAllocation() uint64 {
	return r.minAllocation
}

// release removes the handle under label (if any) and releases its GPU
// object through the allocator. Reports whether a resource was released.
func (r *registryImpl) release(label string) bool {
	h, exists := r.resources[label]
	if !exists {
		return false
	}
	delete(r.resources, label)

	switch h.kind {
	case KindBuffer:
		if h.buffer != nil {
			r.allocator.ReleaseBuffer(h.buffer)
			h.buffer = nil
		}
	case KindTexture:
		if h.texture != nil {
			r.allocator.ReleaseTexture(h.texture)
			h.texture = nil
		}
	}
	return true
}
