package scene

import (
	"strings"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// BoxMask selects the light setup and geometry of a Cornell box variant
type BoxMask uint

const (
	LightCeiling BoxMask = 1 << iota
	LightSun
	LightPoint
	LightBackground
	BallLargeMirror
	BallSmallMirror
	BallSmallGlass
	GlossyFloor

	BothSmallBalls = BallSmallMirror | BallSmallGlass
)

// BoxConfig names a Cornell box variant for the batch sweep
type BoxConfig struct {
	Mask    BoxMask
	Name    string
	Acronym string
}

// BoxConfigurations returns the scene variants rendered by the full sweep.
// The sweep runs each of them twice, with and without a glossy floor.
func BoxConfigurations() []BoxConfig {
	return []BoxConfig{
		{LightCeiling, "Empty + Ceiling", "ec"},
		{LightSun, "Empty + Sun", "es"},
		{LightPoint, "Empty + Point", "ep"},
		{LightBackground, "Empty + Background", "eb"},

		{BothSmallBalls | LightCeiling, "Small balls + Ceiling", "sbc"},
		{BothSmallBalls | LightSun, "Small balls + Sun", "sbs"},
		{BothSmallBalls | LightPoint, "Small balls + Point", "sbp"},
		{BothSmallBalls | LightBackground, "Small balls + Background", "sbb"},

		{BallLargeMirror | LightCeiling, "Large mirror ball + Ceiling", "lbc"},
		{BallLargeMirror | LightSun, "Large mirror ball + Sun", "lbs"},
		{BallLargeMirror | LightPoint, "Large mirror ball + Point", "lbp"},
		{BallLargeMirror | LightBackground, "Large mirror ball + Background", "lbb"},
	}
}

// NewCornellBox builds a Cornell box variant at the given resolution.
// The box is open towards the camera; walls are quads split into triangles.
func NewCornellBox(width, height int, mask BoxMask) *Scene {
	const boxSize = 555.0

	s := &Scene{
		Camera: NewCamera(CameraConfig{
			Center: core.NewVec3(278, 278, -800),
			LookAt: core.NewVec3(278, 278, 0),
			Up:     core.NewVec3(0, 1, 0),
			VFov:   40.0,
			Width:  width,
			Height: height,
		}),
	}
	s.Name, s.Acronym = describeMask(mask)

	white := s.addMaterial(NewDiffuseMaterial(core.NewVec3(0.73, 0.73, 0.73)))
	red := s.addMaterial(NewDiffuseMaterial(core.NewVec3(0.65, 0.05, 0.05)))
	green := s.addMaterial(NewDiffuseMaterial(core.NewVec3(0.12, 0.45, 0.15)))
	mirror := s.addMaterial(NewMirrorMaterial(core.NewVec3(0.9, 0.9, 0.9)))
	glass := s.addMaterial(NewGlassMaterial(1.5))
	black := s.addMaterial(NewDiffuseMaterial(core.Vec3{}))

	floorMat := white
	if mask&GlossyFloor != 0 {
		floorMat = s.addMaterial(NewGlossyMaterial(
			core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.7, 0.7, 0.7), 90))
	}

	// Floor, ceiling and back wall; the front stays open for the camera.
	// Windings put the normals on the inside of the box.
	s.addQuad(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize),
		core.NewVec3(boxSize, 0, boxSize), core.NewVec3(boxSize, 0, 0),
		floorMat)
	s.addQuad(
		core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, boxSize, 0),
		core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(0, boxSize, boxSize),
		white)
	s.addQuad(
		core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, boxSize),
		core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(boxSize, 0, boxSize),
		white)

	// Left wall red, right wall green
	s.addQuad(
		core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0),
		core.NewVec3(0, boxSize, boxSize), core.NewVec3(0, 0, boxSize),
		red)
	s.addQuad(
		core.NewVec3(boxSize, 0, 0), core.NewVec3(boxSize, 0, boxSize),
		core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(boxSize, boxSize, 0),
		green)

	if mask&BallLargeMirror != 0 {
		s.Geometry = append(s.Geometry, NewSphere(core.NewVec3(278, 160, 278), 160, mirror))
	}
	if mask&BallSmallMirror != 0 {
		s.Geometry = append(s.Geometry, NewSphere(core.NewVec3(185, 82.5, 169), 82.5, mirror))
	}
	if mask&BallSmallGlass != 0 {
		s.Geometry = append(s.Geometry, NewSphere(core.NewVec3(370, 90, 351), 90, glass))
	}

	if mask&LightCeiling != 0 {
		// Emissive quad slightly below the ceiling, facing down
		const lightSize = 130.0
		offset := (boxSize - lightSize) / 2.0
		y := boxSize - 1
		emission := core.NewVec3(20, 20, 20)

		// Wound so the emitting face points down into the box
		p0 := core.NewVec3(offset, y, offset)
		p1 := core.NewVec3(offset+lightSize, y, offset)
		p2 := core.NewVec3(offset+lightSize, y, offset+lightSize)
		p3 := core.NewVec3(offset, y, offset+lightSize)

		s.addLightTriangle(p0, p1, p2, black, emission)
		s.addLightTriangle(p0, p2, p3, black, emission)
	}
	if mask&LightSun != 0 {
		// Enters through the open front of the box
		s.Lights = append(s.Lights, NewDirectionalLight(
			core.NewVec3(-0.4, -1, 1.2), core.NewVec3(12, 9.6, 6)))
	}
	if mask&LightPoint != 0 {
		s.Lights = append(s.Lights, NewPointLight(
			core.NewVec3(278, 500, 278), core.NewVec3(2e5, 2e5, 2e5)))
	}
	if mask&LightBackground != 0 {
		bg := NewBackgroundLight(core.NewVec3(0.32, 0.48, 0.59))
		s.Background = bg
		s.Lights = append(s.Lights, bg)
	}

	s.BuildSceneSphere()
	return s
}

func (s *Scene) addMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// addQuad adds a quad as two triangles with a shared normal
func (s *Scene) addQuad(p0, p1, p2, p3 core.Vec3, matID int) {
	s.Geometry = append(s.Geometry,
		NewTriangle(p0, p1, p2, matID),
		NewTriangle(p0, p2, p3, matID))
}

// addLightTriangle adds an emissive triangle and its paired area light
func (s *Scene) addLightTriangle(p0, p1, p2 core.Vec3, matID int, emission core.Vec3) {
	tri := NewTriangle(p0, p1, p2, matID)
	tri.LightID = len(s.Lights)
	s.Geometry = append(s.Geometry, tri)
	s.Lights = append(s.Lights, NewAreaLight(p0, p1, p2, emission))
}

func describeMask(mask BoxMask) (name, acronym string) {
	var names, acronyms []string

	if mask&GlossyFloor != 0 {
		names = append(names, "Glossy floor")
		acronyms = append(acronyms, "g")
	}
	switch {
	case mask&BothSmallBalls == BothSmallBalls:
		names = append(names, "Small balls")
		acronyms = append(acronyms, "sb")
	case mask&BallLargeMirror != 0:
		names = append(names, "Large mirror ball")
		acronyms = append(acronyms, "lb")
	default:
		names = append(names, "Empty")
		acronyms = append(acronyms, "e")
	}
	switch {
	case mask&LightCeiling != 0:
		names = append(names, "Ceiling")
		acronyms = append(acronyms, "c")
	case mask&LightSun != 0:
		names = append(names, "Sun")
		acronyms = append(acronyms, "s")
	case mask&LightPoint != 0:
		names = append(names, "Point")
		acronyms = append(acronyms, "p")
	case mask&LightBackground != 0:
		names = append(names, "Background")
		acronyms = append(acronyms, "b")
	}

	return strings.Join(names, " + "), strings.Join(acronyms, "")
}
