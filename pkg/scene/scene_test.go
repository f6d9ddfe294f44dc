package scene

import (
	"math"
	"testing"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

func TestBoxConfigurations(t *testing.T) {
	configs := BoxConfigurations()
	if len(configs) != 12 {
		t.Fatalf("got %d configurations, want 12", len(configs))
	}

	acronyms := make(map[string]bool)
	for _, c := range configs {
		if acronyms[c.Acronym] {
			t.Errorf("duplicate acronym %q", c.Acronym)
		}
		acronyms[c.Acronym] = true
	}
}

func TestCornellBoxLights(t *testing.T) {
	tests := []struct {
		mask       BoxMask
		lights     int
		background bool
	}{
		{LightCeiling, 2, false}, // light quad split into two triangles
		{LightSun, 1, false},
		{LightPoint, 1, false},
		{LightBackground, 1, true},
		{LightCeiling | LightPoint, 3, false},
	}

	for _, tt := range tests {
		s := NewCornellBox(16, 16, tt.mask)
		if s.LightCount() != tt.lights {
			t.Errorf("mask %b: got %d lights, want %d", tt.mask, s.LightCount(), tt.lights)
		}
		if (s.Background != nil) != tt.background {
			t.Errorf("mask %b: background = %v, want %v", tt.mask, s.Background != nil, tt.background)
		}
	}
}

func TestCornellBoxGeometry(t *testing.T) {
	empty := NewCornellBox(16, 16, LightPoint)
	smallBalls := NewCornellBox(16, 16, BothSmallBalls|LightPoint)
	largeBall := NewCornellBox(16, 16, BallLargeMirror|LightPoint)

	if got, want := len(smallBalls.Geometry)-len(empty.Geometry), 2; got != want {
		t.Errorf("small ball variant adds %d primitives, want %d", got, want)
	}
	if got, want := len(largeBall.Geometry)-len(empty.Geometry), 1; got != want {
		t.Errorf("large ball variant adds %d primitives, want %d", got, want)
	}
}

func TestCornellBoxGlossyAcronym(t *testing.T) {
	plain := NewCornellBox(16, 16, BothSmallBalls|LightBackground)
	glossy := NewCornellBox(16, 16, BothSmallBalls|LightBackground|GlossyFloor)

	if plain.Acronym == glossy.Acronym {
		t.Errorf("glossy and plain variants share acronym %q", plain.Acronym)
	}
	if glossy.Acronym != "g"+plain.Acronym {
		t.Errorf("glossy acronym = %q, want g%s", glossy.Acronym, plain.Acronym)
	}
}

func TestSceneIntersect(t *testing.T) {
	s := NewCornellBox(16, 16, LightCeiling)

	// A ray straight down the view axis must hit the back wall
	ray := core.NewRay(core.NewVec3(278, 278, -800), core.NewVec3(0, 0, 1))
	isect, hit := s.Intersect(ray)
	if !hit {
		t.Fatal("view-axis ray missed the box")
	}
	if math.Abs(isect.Dist-(800+555)) > 1e-6 {
		t.Errorf("hit distance = %v, want %v", isect.Dist, 800.0+555.0)
	}
	// Surface normals face into the box
	if isect.Normal.Dot(ray.Direction) >= 0 {
		t.Errorf("back wall normal %v faces away from the camera", isect.Normal)
	}

	// A ray leaving through the open front must miss
	if _, hit := s.Intersect(core.NewRay(core.NewVec3(278, 278, 100), core.NewVec3(0, 0, -1))); hit {
		t.Error("ray through the open front reported a hit")
	}
}

func TestSceneInwardNormals(t *testing.T) {
	s := NewCornellBox(16, 16, LightCeiling)
	center := core.NewVec3(278, 278, 278)

	directions := []core.Vec3{
		core.NewVec3(0, -1, 0), // floor
		core.NewVec3(0, 1, 0),  // ceiling
		core.NewVec3(0, 0, 1),  // back wall
		core.NewVec3(-1, 0, 0), // left wall
		core.NewVec3(1, 0, 0),  // right wall
	}

	for _, dir := range directions {
		isect, hit := s.Intersect(core.NewRay(center, dir))
		if !hit {
			t.Fatalf("ray %v from the box center missed", dir)
		}
		if isect.Normal.Dot(dir) >= 0 {
			t.Errorf("wall hit along %v has outward normal %v", dir, isect.Normal)
		}
	}
}

func TestSceneOccluded(t *testing.T) {
	s := NewCornellBox(16, 16, BallLargeMirror|LightPoint)

	// The large ball sits between the box center and the left wall region
	// it occupies; a segment ending before any geometry is unoccluded.
	from := core.NewVec3(278, 278, -400)
	if s.Occluded(from, core.NewVec3(0, 0, 1), 100) {
		t.Error("short segment in empty space reported occluded")
	}
	if !s.Occluded(from, core.NewVec3(0, 0, 1), 2000) {
		t.Error("segment through the whole box reported unoccluded")
	}
}

func TestSceneSphereCoversGeometry(t *testing.T) {
	s := NewCornellBox(16, 16, LightCeiling)

	if s.Sphere.Radius <= 0 {
		t.Fatalf("scene sphere radius = %v", s.Sphere.Radius)
	}

	corners := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(555, 555, 555),
	}
	for _, corner := range corners {
		if d := corner.Subtract(s.Sphere.Center).Length(); d > s.Sphere.Radius+1e-6 {
			t.Errorf("corner %v outside the scene sphere (dist %v, radius %v)",
				corner, d, s.Sphere.Radius)
		}
	}
	if math.Abs(s.Sphere.InvRadiusSqr*s.Sphere.Radius*s.Sphere.Radius-1) > 1e-9 {
		t.Error("InvRadiusSqr inconsistent with Radius")
	}
}

func TestCameraRoundTrip(t *testing.T) {
	s := NewCornellBox(64, 64, LightCeiling)
	cam := s.Camera

	raster := core.NewVec2(20.5, 40.5)
	ray := cam.GenerateRay(raster)

	// Project a point along the ray back onto the raster
	world := ray.At(500)
	back, ok := cam.WorldToRaster(world)
	if !ok {
		t.Fatal("point in front of the camera projected behind it")
	}
	if math.Abs(back.X-raster.X) > 1e-6 || math.Abs(back.Y-raster.Y) > 1e-6 {
		t.Errorf("round trip = %v, want %v", back, raster)
	}

	// Points behind the camera do not project
	behind := cam.Position.Subtract(cam.Forward().Multiply(10))
	if _, ok := cam.WorldToRaster(behind); ok {
		t.Error("point behind the camera projected onto the raster")
	}
}

func TestCameraCenterRay(t *testing.T) {
	s := NewCornellBox(64, 64, LightCeiling)
	cam := s.Camera

	ray := cam.GenerateRay(core.NewVec2(32, 32))
	if ray.Direction.Subtract(cam.Forward()).Length() > 1e-9 {
		t.Errorf("center ray direction = %v, want %v", ray.Direction, cam.Forward())
	}
}
