package scene

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// CameraConfig contains camera setup parameters
type CameraConfig struct {
	Center core.Vec3 // camera position
	LookAt core.Vec3 // point the camera is aimed at
	Up     core.Vec3 // world up direction
	VFov   float64   // vertical field of view in degrees
	Width  int       // image width in pixels
	Height int       // image height in pixels
}

// Camera is a pinhole camera that maps between world space and raster
// space. Raster coordinates have the origin at the top-left pixel.
type Camera struct {
	Position core.Vec3
	Width    int
	Height   int

	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	// distance to the image plane at which one raster unit spans one pixel
	imagePlaneDist float64
}

// NewCamera creates a camera from a configuration
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := math.Tan(config.VFov * math.Pi / 360.0)

	return &Camera{
		Position:       config.Center,
		Width:          config.Width,
		Height:         config.Height,
		forward:        forward,
		right:          right,
		up:             up,
		imagePlaneDist: float64(config.Height) / (2.0 * tanHalf),
	}
}

// GenerateRay returns the camera ray through a raster position
func (c *Camera) GenerateRay(raster core.Vec2) core.Ray {
	dx := raster.X - float64(c.Width)/2.0
	dy := float64(c.Height)/2.0 - raster.Y

	dir := c.forward.Multiply(c.imagePlaneDist).
		Add(c.right.Multiply(dx)).
		Add(c.up.Multiply(dy))

	return core.NewRay(c.Position, dir.Normalize())
}

// WorldToRaster projects a world point onto the raster. Returns false for
// points behind the camera.
func (c *Camera) WorldToRaster(world core.Vec3) (core.Vec2, bool) {
	v := world.Subtract(c.Position)
	depth := v.Dot(c.forward)
	if depth <= 0 {
		return core.Vec2{}, false
	}

	scale := c.imagePlaneDist / depth
	x := v.Dot(c.right)*scale + float64(c.Width)/2.0
	y := float64(c.Height)/2.0 - v.Dot(c.up)*scale

	return core.NewVec2(x, y), true
}

// Forward returns the camera's unit view direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// ImagePlaneDist returns the distance to the raster-unit image plane
func (c *Camera) ImagePlaneDist() float64 {
	return c.imagePlaneDist
}

// PixelCount returns the number of pixels in the raster
func (c *Camera) PixelCount() int {
	return c.Width * c.Height
}
