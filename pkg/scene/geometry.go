package scene

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// Isect describes a ray-surface intersection
type Isect struct {
	Dist    float64   // distance along the ray
	MatID   int       // index into the scene's material list
	LightID int       // index into the scene's light list, -1 for non-emitters
	Normal  core.Vec3 // geometric normal at the hit point
}

// Primitive is a piece of scene geometry that can be intersected
type Primitive interface {
	// Intersect tests the ray against the primitive within (tMin, tMax) and
	// fills in the intersection record on a hit
	Intersect(ray core.Ray, tMin, tMax float64, isect *Isect) bool

	// GrowBounds expands the given bounding interval to enclose the primitive
	GrowBounds(boxMin, boxMax *core.Vec3)
}

// Sphere represents a sphere primitive
type Sphere struct {
	Center  core.Vec3
	Radius  float64
	MatID   int
	LightID int
}

// NewSphere creates a new sphere bound to a material
func NewSphere(center core.Vec3, radius float64, matID int) *Sphere {
	return &Sphere{Center: center, Radius: radius, MatID: matID, LightID: -1}
}

// Intersect tests if a ray intersects the sphere
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64, isect *Isect) bool {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}

	// Try the closer intersection point first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return false
		}
	}

	isect.Dist = root
	isect.MatID = s.MatID
	isect.LightID = s.LightID
	isect.Normal = ray.At(root).Subtract(s.Center).Multiply(1.0 / s.Radius)
	return true
}

// GrowBounds expands the bounding interval to enclose the sphere
func (s *Sphere) GrowBounds(boxMin, boxMax *core.Vec3) {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	growBounds(boxMin, boxMax, s.Center.Subtract(r))
	growBounds(boxMin, boxMax, s.Center.Add(r))
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	MatID      int
	LightID    int
	normal     core.Vec3 // cached unit normal
}

// NewTriangle creates a new triangle bound to a material
func NewTriangle(v0, v1, v2 core.Vec3, matID int) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, MatID: matID, LightID: -1}
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	t.normal = edge1.Cross(edge2).Normalize()
	return t
}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Intersect tests if a ray intersects the triangle using the
// Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64, isect *Isect) bool {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math.Abs(det) < 1e-12 {
		return false // ray parallel to triangle plane
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(t.V0)
	u := s.Dot(h) * invDet
	if u < 0 || u > 1 {
		return false
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	dist := edge2.Dot(q) * invDet
	if dist < tMin || dist > tMax {
		return false
	}

	isect.Dist = dist
	isect.MatID = t.MatID
	isect.LightID = t.LightID
	isect.Normal = t.normal
	return true
}

// GrowBounds expands the bounding interval to enclose the triangle
func (t *Triangle) GrowBounds(boxMin, boxMax *core.Vec3) {
	growBounds(boxMin, boxMax, t.V0)
	growBounds(boxMin, boxMax, t.V1)
	growBounds(boxMin, boxMax, t.V2)
}

func growBounds(boxMin, boxMax *core.Vec3, p core.Vec3) {
	boxMin.X = math.Min(boxMin.X, p.X)
	boxMin.Y = math.Min(boxMin.Y, p.Y)
	boxMin.Z = math.Min(boxMin.Z, p.Z)
	boxMax.X = math.Max(boxMax.X, p.X)
	boxMax.Y = math.Max(boxMax.Y, p.Y)
	boxMax.Z = math.Max(boxMax.Z, p.Z)
}
