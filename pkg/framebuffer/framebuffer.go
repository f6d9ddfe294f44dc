package framebuffer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// Framebuffer accumulates radiance samples for an image. Values are stored
// in linear space; tone mapping happens only at encoding time.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// New creates a framebuffer with the given resolution
func New(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// Setup resizes the framebuffer and clears all accumulated samples
func (fb *Framebuffer) Setup(width, height int) {
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]core.Vec3, width*height)
}

// Clear zeroes all accumulated samples without resizing
func (fb *Framebuffer) Clear() {
	for i := range fb.Pixels {
		fb.Pixels[i] = core.Vec3{}
	}
}

// AddColor accumulates a radiance sample at the given raster position.
// Samples outside the raster are dropped.
func (fb *Framebuffer) AddColor(pos core.Vec2, c core.Vec3) {
	x := int(pos.X)
	y := int(pos.Y)
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	idx := y*fb.Width + x
	fb.Pixels[idx] = fb.Pixels[idx].Add(c)
}

// Add accumulates another framebuffer elementwise into this one
func (fb *Framebuffer) Add(other *Framebuffer) error {
	if other.Width != fb.Width || other.Height != fb.Height {
		return fmt.Errorf("framebuffer: cannot add %dx%d buffer into %dx%d buffer",
			other.Width, other.Height, fb.Width, fb.Height)
	}
	for i := range fb.Pixels {
		fb.Pixels[i] = fb.Pixels[i].Add(other.Pixels[i])
	}
	return nil
}

// CopyFrom replaces this framebuffer's contents with another's
func (fb *Framebuffer) CopyFrom(other *Framebuffer) {
	fb.Width = other.Width
	fb.Height = other.Height
	fb.Pixels = make([]core.Vec3, len(other.Pixels))
	copy(fb.Pixels, other.Pixels)
}

// Scale multiplies every accumulated sample by the given factor
func (fb *Framebuffer) Scale(factor float64) {
	for i := range fb.Pixels {
		fb.Pixels[i] = fb.Pixels[i].Multiply(factor)
	}
}

// At returns the accumulated value at the given pixel
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the linear framebuffer to an 8-bit image with the given
// gamma applied
func (fb *Framebuffer) ToImage(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(fb.At(x, y), gamma))
		}
	}
	return img
}

// vec3ToColor converts a linear radiance value to a display color
func vec3ToColor(v core.Vec3, gamma float64) color.RGBA {
	corrected := v.GammaCorrect(gamma).Clamp(0, 1)
	return color.RGBA{
		R: uint8(corrected.X * 255.999),
		G: uint8(corrected.Y * 255.999),
		B: uint8(corrected.Z * 255.999),
		A: 255,
	}
}
