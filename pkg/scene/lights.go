package scene

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// IlluminateSample is the result of sampling a light from a receiving point
type IlluminateSample struct {
	DirToLight   core.Vec3 // unit direction from the receiver towards the light
	Distance     float64
	Radiance     core.Vec3
	DirectPdfW   float64 // solid-angle pdf of picking this direction from the receiver
	EmissionPdfW float64 // pdf of the light emitting along the reverse path
	CosAtLight   float64
}

// EmitSample is the result of sampling an emitted ray from a light
type EmitSample struct {
	Origin       core.Vec3
	Direction    core.Vec3
	Radiance     core.Vec3
	EmissionPdfW float64 // pdf of this (position, direction) pair
	DirectPdfA   float64 // area pdf of the position alone
	CosAtLight   float64
}

// Light is a scene light source. The pdf bookkeeping in the sample results
// feeds the multiple importance sampling weights of the bidirectional
// estimators.
type Light interface {
	// Illuminate samples a direction from the receiver towards the light
	Illuminate(sphere SceneSphere, receiver core.Vec3, sample core.Vec2) (IlluminateSample, bool)

	// Emit samples a ray leaving the light
	Emit(sphere SceneSphere, posSample, dirSample core.Vec2) EmitSample

	// Radiance returns the emitted radiance towards a ray travelling in the
	// given direction that reaches the light, with the pdfs of having
	// sampled that contact
	Radiance(sphere SceneSphere, dir core.Vec3) (rad core.Vec3, directPdfA, emissionPdfW float64)

	// IsDelta reports whether the light cannot be hit by random sampling
	IsDelta() bool

	// IsFinite reports whether the light has a position inside the scene
	IsFinite() bool
}

// AreaLight is a triangle that emits on its front face
type AreaLight struct {
	p0, e1, e2 core.Vec3
	frame      core.Frame
	intensity  core.Vec3
	invArea    float64
}

// NewAreaLight creates a triangle light from an origin point and two edges
func NewAreaLight(p0, p1, p2 core.Vec3, intensity core.Vec3) *AreaLight {
	e1 := p1.Subtract(p0)
	e2 := p2.Subtract(p0)
	normalDir := e1.Cross(e2)
	area := 0.5 * normalDir.Length()

	return &AreaLight{
		p0:        p0,
		e1:        e1,
		e2:        e2,
		frame:     core.NewFrame(normalDir.Normalize()),
		intensity: intensity,
		invArea:   1.0 / area,
	}
}

// Illuminate samples a point on the light towards the receiver
func (l *AreaLight) Illuminate(sphere SceneSphere, receiver core.Vec3, sample core.Vec2) (IlluminateSample, bool) {
	bary := core.SampleUniformTriangle(sample)
	point := l.p0.Add(l.e1.Multiply(bary.X)).Add(l.e2.Multiply(bary.Y))

	toLight := point.Subtract(receiver)
	distSqr := toLight.LengthSquared()
	dist := math.Sqrt(distSqr)
	dir := toLight.Multiply(1.0 / dist)

	cosAtLight := l.frame.Normal.Dot(dir.Negate())
	if cosAtLight < 1e-6 {
		return IlluminateSample{}, false
	}

	return IlluminateSample{
		DirToLight:   dir,
		Distance:     dist,
		Radiance:     l.intensity,
		DirectPdfW:   l.invArea * distSqr / cosAtLight,
		EmissionPdfW: l.invArea * cosAtLight / math.Pi,
		CosAtLight:   cosAtLight,
	}, true
}

// Emit samples a ray leaving the light with a cosine-distributed direction
func (l *AreaLight) Emit(sphere SceneSphere, posSample, dirSample core.Vec2) EmitSample {
	bary := core.SampleUniformTriangle(posSample)
	origin := l.p0.Add(l.e1.Multiply(bary.X)).Add(l.e2.Multiply(bary.Y))

	local, _ := core.SampleCosineHemisphere(dirSample)
	cosTheta := math.Max(local.Z, 1e-7)

	return EmitSample{
		Origin:       origin,
		Direction:    l.frame.ToWorld(local),
		Radiance:     l.intensity.Multiply(cosTheta),
		EmissionPdfW: l.invArea * cosTheta / math.Pi,
		DirectPdfA:   l.invArea,
		CosAtLight:   cosTheta,
	}
}

// Radiance returns the emitted radiance towards an incoming ray
func (l *AreaLight) Radiance(sphere SceneSphere, dir core.Vec3) (core.Vec3, float64, float64) {
	cosOut := l.frame.Normal.Dot(dir.Negate())
	if cosOut <= 0 {
		return core.Vec3{}, 0, 0
	}
	return l.intensity, l.invArea, l.invArea * cosOut / math.Pi
}

// IsDelta reports whether the light cannot be hit by random sampling
func (l *AreaLight) IsDelta() bool { return false }

// IsFinite reports whether the light has a position inside the scene
func (l *AreaLight) IsFinite() bool { return true }

// DirectionalLight emits parallel light along a fixed direction, like a sun
type DirectionalLight struct {
	direction core.Vec3 // direction the light travels
	frame     core.Frame
	intensity core.Vec3
}

// NewDirectionalLight creates a directional light travelling along direction
func NewDirectionalLight(direction, intensity core.Vec3) *DirectionalLight {
	d := direction.Normalize()
	return &DirectionalLight{
		direction: d,
		frame:     core.NewFrame(d),
		intensity: intensity,
	}
}

// Illuminate returns the fixed direction towards the light
func (l *DirectionalLight) Illuminate(sphere SceneSphere, receiver core.Vec3, sample core.Vec2) (IlluminateSample, bool) {
	return IlluminateSample{
		DirToLight:   l.direction.Negate(),
		Distance:     1e36,
		Radiance:     l.intensity,
		DirectPdfW:   1,
		EmissionPdfW: sphere.InvRadiusSqr / math.Pi,
		CosAtLight:   1,
	}, true
}

// Emit samples a parallel ray entering the scene through a disk that covers
// the scene's bounding sphere
func (l *DirectionalLight) Emit(sphere SceneSphere, posSample, dirSample core.Vec2) EmitSample {
	disk := core.SampleConcentricDisk(posSample)
	offset := l.frame.Tangent.Multiply(disk.X).Add(l.frame.Bitangent.Multiply(disk.Y))
	origin := sphere.Center.
		Add(l.direction.Negate().Multiply(sphere.Radius)).
		Add(offset.Multiply(sphere.Radius))

	return EmitSample{
		Origin:       origin,
		Direction:    l.direction,
		Radiance:     l.intensity,
		EmissionPdfW: sphere.InvRadiusSqr / math.Pi,
		DirectPdfA:   1,
		CosAtLight:   1,
	}
}

// Radiance is zero because a delta light cannot be hit
func (l *DirectionalLight) Radiance(sphere SceneSphere, dir core.Vec3) (core.Vec3, float64, float64) {
	return core.Vec3{}, 0, 0
}

// IsDelta reports whether the light cannot be hit by random sampling
func (l *DirectionalLight) IsDelta() bool { return true }

// IsFinite reports whether the light has a position inside the scene
func (l *DirectionalLight) IsFinite() bool { return false }

// PointLight emits uniformly in all directions from a single point
type PointLight struct {
	position  core.Vec3
	intensity core.Vec3
}

// NewPointLight creates a point light with the given intensity
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{position: position, intensity: intensity}
}

// Illuminate returns the direction towards the point light
func (l *PointLight) Illuminate(sphere SceneSphere, receiver core.Vec3, sample core.Vec2) (IlluminateSample, bool) {
	toLight := l.position.Subtract(receiver)
	distSqr := toLight.LengthSquared()
	if distSqr == 0 {
		return IlluminateSample{}, false
	}
	dist := math.Sqrt(distSqr)

	return IlluminateSample{
		DirToLight:   toLight.Multiply(1.0 / dist),
		Distance:     dist,
		Radiance:     l.intensity.Multiply(1.0 / distSqr),
		DirectPdfW:   1,
		EmissionPdfW: core.UniformSpherePdf(),
		CosAtLight:   1,
	}, true
}

// Emit samples a uniformly distributed outgoing direction
func (l *PointLight) Emit(sphere SceneSphere, posSample, dirSample core.Vec2) EmitSample {
	return EmitSample{
		Origin:       l.position,
		Direction:    core.SampleUniformSphere(dirSample),
		Radiance:     l.intensity,
		EmissionPdfW: core.UniformSpherePdf(),
		DirectPdfA:   1,
		CosAtLight:   1,
	}
}

// Radiance is zero because a delta light cannot be hit
func (l *PointLight) Radiance(sphere SceneSphere, dir core.Vec3) (core.Vec3, float64, float64) {
	return core.Vec3{}, 0, 0
}

// IsDelta reports whether the light cannot be hit by random sampling
func (l *PointLight) IsDelta() bool { return true }

// IsFinite reports whether the light has a position inside the scene
func (l *PointLight) IsFinite() bool { return true }

// BackgroundLight surrounds the scene with constant radiance
type BackgroundLight struct {
	radiance core.Vec3
}

// NewBackgroundLight creates a constant environment light
func NewBackgroundLight(radiance core.Vec3) *BackgroundLight {
	return &BackgroundLight{radiance: radiance}
}

// Illuminate samples a uniformly distributed direction on the sphere
func (l *BackgroundLight) Illuminate(sphere SceneSphere, receiver core.Vec3, sample core.Vec2) (IlluminateSample, bool) {
	dir := core.SampleUniformSphere(sample)

	return IlluminateSample{
		DirToLight:   dir,
		Distance:     2 * sphere.Radius,
		Radiance:     l.radiance,
		DirectPdfW:   core.UniformSpherePdf(),
		EmissionPdfW: core.UniformSpherePdf() * sphere.InvRadiusSqr / math.Pi,
		CosAtLight:   1,
	}, true
}

// Emit samples an inward ray through a disk covering the bounding sphere
func (l *BackgroundLight) Emit(sphere SceneSphere, posSample, dirSample core.Vec2) EmitSample {
	direction := core.SampleUniformSphere(dirSample).Negate()
	frame := core.NewFrame(direction)
	disk := core.SampleConcentricDisk(posSample)
	offset := frame.Tangent.Multiply(disk.X).Add(frame.Bitangent.Multiply(disk.Y))
	origin := sphere.Center.
		Add(direction.Negate().Multiply(sphere.Radius)).
		Add(offset.Multiply(sphere.Radius))

	return EmitSample{
		Origin:       origin,
		Direction:    direction,
		Radiance:     l.radiance,
		EmissionPdfW: core.UniformSpherePdf() * sphere.InvRadiusSqr / math.Pi,
		DirectPdfA:   core.UniformSpherePdf(),
		CosAtLight:   1,
	}
}

// Radiance returns the constant background radiance for an escaping ray
func (l *BackgroundLight) Radiance(sphere SceneSphere, dir core.Vec3) (core.Vec3, float64, float64) {
	directPdf := core.UniformSpherePdf()
	return l.radiance, directPdf, directPdf * sphere.InvRadiusSqr / math.Pi
}

// IsDelta reports whether the light cannot be hit by random sampling
func (l *BackgroundLight) IsDelta() bool { return false }

// IsFinite reports whether the light has a position inside the scene
func (l *BackgroundLight) IsFinite() bool { return false }
