package integrator

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

// BSDF binds a material to a shading frame at an intersection and exposes
// sampling, evaluation and the pdf bookkeeping the bidirectional
// estimators need. Directions named "in" point towards the origin of the
// incoming ray, "out" away from the surface.
type BSDF struct {
	material scene.Material
	frame    core.Frame
	localIn  core.Vec3

	// normalized selection probabilities for each component
	diffProb  float64
	phongProb float64
	reflProb  float64
	refrProb  float64

	contProb float64
	fresnel  float64
	valid    bool
}

// NewBSDF sets up a BSDF for a surface hit by a ray travelling along
// worldDirIn
func NewBSDF(worldDirIn core.Vec3, isect scene.Isect, mat scene.Material) BSDF {
	b := BSDF{material: mat, frame: core.NewFrame(isect.Normal)}
	b.localIn = b.frame.ToLocal(worldDirIn.Negate())

	cosIn := math.Abs(b.localIn.Z)
	if cosIn < scene.EpsCos {
		return b
	}
	if b.localIn.Z < 0 && !mat.IsGlass() {
		// back side of a one-sided surface
		return b
	}

	diffAlbedo := mat.Diffuse.Luminance()
	phongAlbedo := mat.Phong.Luminance()
	specAlbedo := mat.Mirror.Luminance()

	reflAlbedo := specAlbedo
	refrAlbedo := 0.0
	if mat.IsGlass() {
		b.fresnel = fresnelDielectric(b.localIn.Z, mat.IOR)
		reflAlbedo = specAlbedo * b.fresnel
		refrAlbedo = specAlbedo * (1 - b.fresnel)
	}

	total := diffAlbedo + phongAlbedo + reflAlbedo + refrAlbedo
	if total < scene.EpsCos {
		return b
	}

	b.diffProb = diffAlbedo / total
	b.phongProb = phongAlbedo / total
	b.reflProb = reflAlbedo / total
	b.refrProb = refrAlbedo / total
	b.contProb = math.Min(1, total)
	b.valid = true
	return b
}

// Valid reports whether the surface interaction can scatter light
func (b *BSDF) Valid() bool {
	return b.valid
}

// IsDelta reports whether the material only has specular components
func (b *BSDF) IsDelta() bool {
	return b.diffProb+b.phongProb == 0
}

// ContinuationProb is the Russian roulette survival probability
func (b *BSDF) ContinuationProb() float64 {
	return b.contProb
}

// CosThetaIn returns the cosine between the incoming direction and the normal
func (b *BSDF) CosThetaIn() float64 {
	return math.Abs(b.localIn.Z)
}

// WorldDirIn returns the world-space direction towards the incoming ray's
// origin
func (b *BSDF) WorldDirIn() core.Vec3 {
	return b.frame.ToWorld(b.localIn)
}

// Evaluate returns the BSDF value for scattering towards worldDirOut
// together with the forward and reverse solid-angle pdfs of the sampleable
// components. Delta components evaluate to zero.
func (b *BSDF) Evaluate(worldDirOut core.Vec3) (value core.Vec3, directPdfW, reversePdfW, cosOut float64) {
	localOut := b.frame.ToLocal(worldDirOut)
	cosOut = math.Abs(localOut.Z)

	// non-delta components only scatter on the front side
	if b.localIn.Z < scene.EpsCos || localOut.Z < scene.EpsCos {
		return core.Vec3{}, 0, 0, cosOut
	}

	if b.diffProb > 0 {
		value = value.Add(b.material.Diffuse.Multiply(1.0 / math.Pi))
		directPdfW += b.diffProb * localOut.Z / math.Pi
		reversePdfW += b.diffProb * b.localIn.Z / math.Pi
	}

	if b.phongProb > 0 {
		reflLocal := core.NewVec3(-b.localIn.X, -b.localIn.Y, b.localIn.Z)
		dotRL := reflLocal.Dot(localOut)
		if dotRL > scene.EpsCos {
			exp := b.material.PhongExponent
			lobe := (exp + 2) / (2 * math.Pi) * math.Pow(dotRL, exp)
			value = value.Add(b.material.Phong.Multiply(lobe))

			lobePdf := core.PowerCosineHemispherePdf(exp, dotRL)
			directPdfW += b.phongProb * lobePdf
			reversePdfW += b.phongProb * lobePdf
		}
	}

	return value, directPdfW, reversePdfW, cosOut
}

// Sample chooses a scattering direction. For non-delta components, factor
// is the BSDF value and pdfW the combined solid-angle pdf; the caller
// applies the cosine term. For delta components factor already includes
// the full weight except for the selection probability division, and the
// cosine term must not be applied.
func (b *BSDF) Sample(sampler core.Sampler) (worldDirOut core.Vec3, factor core.Vec3, pdfW, cosOut float64, specular, ok bool) {
	pick := sampler.Get1D()

	switch {
	case pick < b.diffProb+b.phongProb:
		var localOut core.Vec3
		if pick < b.diffProb {
			localOut, _ = core.SampleCosineHemisphere(sampler.Get2D())
		} else {
			reflLocal := core.NewVec3(-b.localIn.X, -b.localIn.Y, b.localIn.Z)
			lobeFrame := core.NewFrame(reflLocal)
			lobeDir, _ := core.SamplePowerCosineHemisphere(b.material.PhongExponent, sampler.Get2D())
			localOut = lobeFrame.ToWorld(lobeDir)
			if localOut.Z < scene.EpsCos {
				return core.Vec3{}, core.Vec3{}, 0, 0, false, false
			}
		}

		worldDirOut = b.frame.ToWorld(localOut)
		value, directPdfW, _, cos := b.Evaluate(worldDirOut)
		if directPdfW == 0 {
			return core.Vec3{}, core.Vec3{}, 0, 0, false, false
		}
		return worldDirOut, value, directPdfW, cos, false, true

	case pick < b.diffProb+b.phongProb+b.reflProb:
		localOut := core.NewVec3(-b.localIn.X, -b.localIn.Y, b.localIn.Z)
		factor = b.material.Mirror
		if b.material.IsGlass() {
			factor = factor.Multiply(b.fresnel)
		}
		return b.frame.ToWorld(localOut), factor.Multiply(1.0 / b.reflProb),
			b.reflProb, math.Abs(localOut.Z), true, true

	case b.refrProb > 0:
		localOut, refracted := refract(b.localIn, b.material.IOR)
		if !refracted {
			// total internal reflection carries no refracted energy
			return core.Vec3{}, core.Vec3{}, 0, 0, false, false
		}
		factor = b.material.Mirror.Multiply((1 - b.fresnel) / b.refrProb)
		return b.frame.ToWorld(localOut), factor,
			b.refrProb, math.Abs(localOut.Z), true, true
	}

	return core.Vec3{}, core.Vec3{}, 0, 0, false, false
}

// fresnelDielectric returns the reflectance of a dielectric interface.
// cosIn is signed: positive outside the medium, negative inside.
func fresnelDielectric(cosIn, ior float64) float64 {
	etaI, etaT := 1.0, ior
	if cosIn < 0 {
		etaI, etaT = etaT, etaI
		cosIn = -cosIn
	}

	sinT := etaI / etaT * math.Sqrt(math.Max(0, 1-cosIn*cosIn))
	if sinT >= 1 {
		return 1 // total internal reflection
	}
	cosT := math.Sqrt(math.Max(0, 1-sinT*sinT))

	rParl := (etaT*cosIn - etaI*cosT) / (etaT*cosIn + etaI*cosT)
	rPerp := (etaI*cosIn - etaT*cosT) / (etaI*cosIn + etaT*cosT)
	return 0.5 * (rParl*rParl + rPerp*rPerp)
}

// refract computes the refracted local direction through the surface
func refract(localIn core.Vec3, ior float64) (core.Vec3, bool) {
	eta := 1.0 / ior
	if localIn.Z < 0 {
		eta = ior
	}

	cosI := math.Abs(localIn.Z)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Vec3{}, false
	}
	cosT := math.Sqrt(1 - sin2T)
	if localIn.Z > 0 {
		cosT = -cosT
	}

	return core.NewVec3(-localIn.X*eta, -localIn.Y*eta, cosT), true
}
