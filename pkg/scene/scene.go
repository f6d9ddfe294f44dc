package scene

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// Intersection epsilons shared by all estimators
const (
	EpsRay = 1e-3 // minimum hit distance
	EpsCos = 1e-6 // minimum usable cosine
)

// SceneSphere is the bounding sphere of the scene geometry. Background and
// directional lights use it to bound their emission domain.
type SceneSphere struct {
	Center       core.Vec3
	Radius       float64
	InvRadiusSqr float64
}

// Scene contains all the elements needed for rendering. It is immutable
// once built and safe for concurrent reads.
type Scene struct {
	Name    string
	Acronym string

	Camera     *Camera
	Geometry   []Primitive
	Materials  []Material
	Lights     []Light
	Background *BackgroundLight // nil when the scene has no environment light
	Sphere     SceneSphere
}

// Material returns the material with the given id
func (s *Scene) Material(id int) Material {
	return s.Materials[id]
}

// Light returns the light with the given id
func (s *Scene) Light(id int) Light {
	return s.Lights[id]
}

// LightCount returns the number of lights in the scene
func (s *Scene) LightCount() int {
	return len(s.Lights)
}

// Intersect finds the closest intersection of the ray with scene geometry
func (s *Scene) Intersect(ray core.Ray) (Isect, bool) {
	closest := Isect{Dist: math.Inf(1), LightID: -1}
	hit := false

	var isect Isect
	for _, prim := range s.Geometry {
		if prim.Intersect(ray, EpsRay, closest.Dist, &isect) {
			closest = isect
			hit = true
		}
	}

	return closest, hit
}

// Occluded tests whether anything blocks the segment from point along dir
// up to the given distance
func (s *Scene) Occluded(point, dir core.Vec3, dist float64) bool {
	ray := core.NewRay(point, dir)
	tMax := dist - 2*EpsRay

	var isect Isect
	for _, prim := range s.Geometry {
		if prim.Intersect(ray, EpsRay, tMax, &isect) {
			return true
		}
	}
	return false
}

// BuildSceneSphere computes the bounding sphere of the scene geometry.
// Must be called after all geometry is added and before rendering.
func (s *Scene) BuildSceneSphere() {
	boxMin := core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	boxMax := core.NewVec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))

	for _, prim := range s.Geometry {
		prim.GrowBounds(&boxMin, &boxMax)
	}

	center := boxMin.Add(boxMax).Multiply(0.5)
	radius := boxMax.Subtract(center).Length()

	s.Sphere = SceneSphere{
		Center:       center,
		Radius:       radius,
		InvRadiusSqr: 1.0 / (radius * radius),
	}
}
