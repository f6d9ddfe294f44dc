package framebuffer

import (
	"image"
	"image/png"
	"os"

	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/image/bmp"
)

// SavePNG writes the framebuffer to a PNG file with the given gamma
func (fb *Framebuffer) SavePNG(path string, gamma float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, fb.ToImage(gamma))
}

// SaveBMP writes the framebuffer to a BMP file with the given gamma
func (fb *Framebuffer) SaveBMP(path string, gamma float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return bmp.Encode(file, fb.ToImage(gamma))
}

// SaveEXR writes the framebuffer to an OpenEXR file. Values stay linear;
// no gamma is applied.
func (fb *Framebuffer) SaveEXR(path string) error {
	img := exr.NewRGBAImage(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			v := fb.At(x, y)
			img.SetRGBA(x, y, float32(v.X), float32(v.Y), float32(v.Z), 1)
		}
	}
	return exr.EncodeFile(path, img)
}
