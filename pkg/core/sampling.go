package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a deterministic sampler from a seed value
func NewSeededSampler(seed int64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewSource(seed))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted local direction (Z-up).
// The returned pdf is cos(theta)/pi.
func SampleCosineHemisphere(sample Vec2) (Vec3, float64) {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	return NewVec3(x, y, zCoord), zCoord / math.Pi
}

// SamplePowerCosineHemisphere generates a local direction (Z-up) with pdf
// proportional to cos(theta)^exponent, used for Phong lobe sampling
func SamplePowerCosineHemisphere(exponent float64, sample Vec2) (Vec3, float64) {
	phi := 2.0 * math.Pi * sample.X
	cosTheta := math.Pow(sample.Y, 1.0/(exponent+1.0))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	dir := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	pdf := (exponent + 1.0) * math.Pow(cosTheta, exponent) / (2.0 * math.Pi)
	return dir, pdf
}

// PowerCosineHemispherePdf returns the pdf of SamplePowerCosineHemisphere
// for a local direction with the given cosine to the lobe axis
func PowerCosineHemispherePdf(exponent, cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return (exponent + 1.0) * math.Pow(cosTheta, exponent) / (2.0 * math.Pi)
}

// SampleUniformSphere generates a uniform random direction on the unit sphere.
// The pdf is 1/(4*pi).
func SampleUniformSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the constant pdf of SampleUniformSphere
func UniformSpherePdf() float64 {
	return 1.0 / (4.0 * math.Pi)
}

// SampleConcentricDisk generates a point in the unit disk using concentric
// mapping, which avoids rejection sampling
func SampleConcentricDisk(sample Vec2) Vec2 {
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleUniformTriangle generates barycentric coordinates distributed
// uniformly over a triangle
func SampleUniformTriangle(sample Vec2) Vec2 {
	sqrtU := math.Sqrt(sample.X)
	return NewVec2(1.0-sqrtU, sample.Y*sqrtU)
}

// PowerHeuristic calculates the power heuristic weight for multiple
// importance sampling with the standard exponent of 2
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// PdfWtoA converts a solid-angle pdf to an area pdf at a surface
// dist away with the given cosine at the surface
func PdfWtoA(pdfW, dist, cosThere float64) float64 {
	return pdfW * math.Abs(cosThere) / (dist * dist)
}

// PdfAtoW converts an area pdf to a solid-angle pdf
func PdfAtoW(pdfA, dist, cosThere float64) float64 {
	if cosThere == 0 {
		return 0
	}
	return pdfA * dist * dist / math.Abs(cosThere)
}
