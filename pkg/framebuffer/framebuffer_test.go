package framebuffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

func TestAddColor(t *testing.T) {
	fb := New(4, 4)

	fb.AddColor(core.NewVec2(1.2, 2.7), core.Vec3{X: 1, Y: 2, Z: 3})
	fb.AddColor(core.NewVec2(1.9, 2.1), core.Vec3{X: 1, Y: 1, Z: 1})

	want := core.Vec3{X: 2, Y: 3, Z: 4}
	if got := fb.At(1, 2); got != want {
		t.Errorf("At(1, 2) = %v, want %v", got, want)
	}
}

func TestAddColorDropsOutOfRaster(t *testing.T) {
	fb := New(2, 2)

	positions := []core.Vec2{
		core.NewVec2(-0.5, 0),
		core.NewVec2(0, -1),
		core.NewVec2(2, 0),
		core.NewVec2(0, 2.5),
	}
	for _, pos := range positions {
		fb.AddColor(pos, core.Vec3{X: 1, Y: 1, Z: 1})
	}

	for i, p := range fb.Pixels {
		if !p.IsZero() {
			t.Errorf("pixel %d received an out-of-raster sample: %v", i, p)
		}
	}
}

func TestAddAndScale(t *testing.T) {
	a := New(2, 1)
	b := New(2, 1)
	a.Pixels[0] = core.Vec3{X: 1, Y: 2, Z: 3}
	b.Pixels[0] = core.Vec3{X: 3, Y: 2, Z: 1}
	b.Pixels[1] = core.Vec3{X: 8, Y: 8, Z: 8}

	if err := a.Add(b); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	a.Scale(0.5)

	tests := []struct {
		x    int
		want core.Vec3
	}{
		{0, core.Vec3{X: 2, Y: 2, Z: 2}},
		{1, core.Vec3{X: 4, Y: 4, Z: 4}},
	}
	for _, tt := range tests {
		if got := a.At(tt.x, 0); got != tt.want {
			t.Errorf("At(%d, 0) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	a := New(2, 2)
	b := New(3, 2)

	if err := a.Add(b); err == nil {
		t.Error("expected an error adding mismatched buffers")
	}
}

func TestCopyFrom(t *testing.T) {
	src := New(2, 2)
	src.Pixels[3] = core.Vec3{X: 5, Y: 6, Z: 7}

	var dst Framebuffer
	dst.CopyFrom(src)

	if dst.Width != 2 || dst.Height != 2 {
		t.Fatalf("copy has size %dx%d, want 2x2", dst.Width, dst.Height)
	}
	if dst.At(1, 1) != src.At(1, 1) {
		t.Errorf("copy pixel = %v, want %v", dst.At(1, 1), src.At(1, 1))
	}

	// The copy must not alias the source
	dst.Pixels[3] = core.Vec3{}
	if src.At(1, 1).IsZero() {
		t.Error("mutating the copy changed the source")
	}
}

func TestClear(t *testing.T) {
	fb := New(2, 2)
	for i := range fb.Pixels {
		fb.Pixels[i] = core.Vec3{X: 1, Y: 1, Z: 1}
	}

	fb.Clear()

	for i, p := range fb.Pixels {
		if !p.IsZero() {
			t.Errorf("pixel %d not cleared: %v", i, p)
		}
	}
}

func TestToImageGamma(t *testing.T) {
	fb := New(1, 1)
	fb.Pixels[0] = core.Vec3{X: 0.25, Y: 0.25, Z: 0.25}

	linear := fb.ToImage(1.0)
	corrected := fb.ToImage(2.0)

	if got := linear.RGBAAt(0, 0).R; got != 63 {
		t.Errorf("linear encoding = %d, want 63", got)
	}
	// 0.25^(1/2) = 0.5
	if got := corrected.RGBAAt(0, 0).R; got != 127 {
		t.Errorf("gamma 2.0 encoding = %d, want 127", got)
	}
}

func TestToImageClampsOverbright(t *testing.T) {
	fb := New(1, 1)
	fb.Pixels[0] = core.Vec3{X: 40, Y: -1, Z: 0.5}

	c := fb.ToImage(1.0).RGBAAt(0, 0)
	if c.R != 255 {
		t.Errorf("overbright channel = %d, want 255", c.R)
	}
	if c.G != 0 {
		t.Errorf("negative channel = %d, want 0", c.G)
	}
}

func TestEncoders(t *testing.T) {
	fb := New(4, 3)
	fb.Pixels[0] = core.Vec3{X: 1, Y: 0.5, Z: 0.25}

	dir := t.TempDir()

	tests := []struct {
		name string
		save func(path string) error
	}{
		{"out.png", func(p string) error { return fb.SavePNG(p, 2.2) }},
		{"out.bmp", func(p string) error { return fb.SaveBMP(p, 2.2) }},
		{"out.exr", func(p string) error { return fb.SaveEXR(p) }},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := tt.save(path); err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s not written: %v", tt.name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", tt.name)
		}
	}
}
