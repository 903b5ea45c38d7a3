package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, 45.0*math.Pi/180.0, float64(c.Fov()), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100.0), c.Far())

	x, y, z := c.Target()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, z)
}

func TestPositionOrbitsTarget(t *testing.T) {
	c := NewCamera(WithTarget(1, 2, 3), WithOrbit(0, 0, 4))

	// Yaw 0, pitch 0 places the camera on the target's +Z axis.
	x, y, z := c.Position()
	assert.InDelta(t, 1.0, float64(x), 1e-5)
	assert.InDelta(t, 2.0, float64(y), 1e-5)
	assert.InDelta(t, 7.0, float64(z), 1e-5)
}

func TestOrbitClampsPitch(t *testing.T) {
	c := NewCamera(WithOrbit(0, 0, 5))

	c.Orbit(0, 10) // way past vertical
	_, y, _ := c.Position()
	_, ty, _ := c.Target()

	// The camera approaches but never reaches the pole.
	assert.Less(t, float64(y-ty), 5.0)
	assert.Greater(t, float64(y-ty), 4.9)
}

func TestZoomClampsToNearPlane(t *testing.T) {
	c := NewCamera(WithOrbit(0, 0, 5), WithClipPlanes(0.5, 50))

	c.Zoom(0.0001)
	x, y, z := c.Position()
	tx, ty, tz := c.Target()
	dx, dy, dz := x-tx, y-ty, z-tz
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	assert.InDelta(t, 0.5, dist, 1e-5)

	// A non-positive factor is ignored.
	c.Zoom(-1)
	x2, _, _ := c.Position()
	assert.Equal(t, x, x2)
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewCamera()

	c.SetAspect(2.0)
	proj := c.ProjectionMatrix()
	require.NotZero(t, proj[5])

	// proj[0] = f/aspect, proj[5] = f.
	assert.InDelta(t, float64(proj[5])/2.0, float64(proj[0]), 1e-6)

	// Zero and negative aspects are rejected.
	c.SetAspect(0)
	assert.Equal(t, float32(2.0), c.Aspect())
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewCamera(WithTarget(0, 0, 0), WithOrbit(0, 0, 5))

	view := c.ViewMatrix()

	// Transforming the eye point by the view matrix lands at the origin.
	ex, ey, ez := c.Position()
	vx := view[0]*ex + view[4]*ey + view[8]*ez + view[12]
	vy := view[1]*ex + view[5]*ey + view[9]*ez + view[13]
	vz := view[2]*ex + view[6]*ey + view[10]*ez + view[14]
	assert.InDelta(t, 0, float64(vx), 1e-5)
	assert.InDelta(t, 0, float64(vy), 1e-5)
	assert.InDelta(t, 0, float64(vz), 1e-5)
}

func TestGPUCameraDataLayout(t *testing.T) {
	var data GPUCameraData
	require.Equal(t, 144, data.Size())

	data.View[0] = 1.5
	data.Proj[15] = 2.5
	data.Width = 1920
	data.Height = 1080

	buf := data.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, byte(0x80), buf[128]) // 1920 little-endian low byte
	assert.Equal(t, byte(0x07), buf[129])
}
