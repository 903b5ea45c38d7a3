package pass

import "github.com/cogentcore/webgpu/wgpu"

// Labels of the renderer-owned shared frame resources. The renderer recreates
// the four textures at the viewport resolution and rewrites the camera
// uniform before any pass runs, so passes can rely on them being current.
const (
	// LabelColor is the sRGB color texture passes shade into.
	LabelColor = "color"

	// LabelDepth is the depth+stencil texture shared by depth-tested passes.
	LabelDepth = "depth"

	// LabelObjectIndex is the per-pixel object id texture. Pixels covered by
	// an entity hold entity id + 1; uncovered pixels stay 0.
	LabelObjectIndex = "objectIndex"

	// LabelNormal is the world-space normal texture.
	LabelNormal = "normal"

	// LabelCamera is the camera uniform buffer.
	LabelCamera = "camera"
)

// Formats of the shared frame textures. Pipelines rendering into a shared
// texture must declare the matching color target or depth format.
const (
	// FormatColor is the sRGB color texture format.
	FormatColor = wgpu.TextureFormatRGBA8UnormSrgb

	// FormatDepth is the combined depth+stencil format.
	FormatDepth = wgpu.TextureFormatDepth24PlusStencil8

	// FormatObjectIndex is the single-channel unsigned integer id format.
	FormatObjectIndex = wgpu.TextureFormatR32Uint

	// FormatNormal is the color-encoded world-space normal format.
	FormatNormal = wgpu.TextureFormatRGBA8Unorm
)
