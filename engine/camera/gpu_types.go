package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraDataSource is the canonical WGSL definition of the CameraData struct.
// Matches GPUCameraData layout exactly (144 bytes, std140 aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraDataSource string

// GPUCameraData is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraData struct layout exactly (see GPUCameraDataSource).
// Size: 144 bytes (two mat4x4<f32>, two u32, padded to a 16-byte multiple).
type GPUCameraData struct {
	View   [16]float32 // offset   0: view matrix (mat4x4<f32>)
	Proj   [16]float32 // offset  64: projection matrix (mat4x4<f32>)
	Width  uint32      // offset 128: viewport width in pixels
	Height uint32      // offset 132: viewport height in pixels
	_pad   [2]uint32   // offset 136: padding to 144 bytes
}

// Size returns the size of the GPUCameraData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraData) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.View[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Proj[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:], g.Width)
	binary.LittleEndian.PutUint32(buf[132:], g.Height)
	return buf
}
