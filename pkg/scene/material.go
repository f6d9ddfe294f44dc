package scene

import "github.com/mpry/go-vcm-renderer/pkg/core"

// Material describes a surface as a combination of reflection components.
// A component with zero reflectance is simply absent; glass is the only
// refractive component and is mutually exclusive with the others in the
// built-in scenes.
type Material struct {
	Diffuse       core.Vec3 // Lambertian reflectance
	Phong         core.Vec3 // glossy lobe reflectance
	PhongExponent float64   // glossy lobe sharpness
	Mirror        core.Vec3 // ideal specular reflectance
	IOR           float64   // index of refraction, <= 0 when not refractive
}

// NewDiffuseMaterial creates a purely Lambertian material
func NewDiffuseMaterial(reflectance core.Vec3) Material {
	return Material{Diffuse: reflectance, IOR: -1}
}

// NewGlossyMaterial creates a material with diffuse and Phong components
func NewGlossyMaterial(diffuse, phong core.Vec3, exponent float64) Material {
	return Material{Diffuse: diffuse, Phong: phong, PhongExponent: exponent, IOR: -1}
}

// NewMirrorMaterial creates an ideal mirror material
func NewMirrorMaterial(reflectance core.Vec3) Material {
	return Material{Mirror: reflectance, IOR: -1}
}

// NewGlassMaterial creates a clear refractive material
func NewGlassMaterial(ior float64) Material {
	return Material{Mirror: core.NewVec3(1, 1, 1), IOR: ior}
}

// HasDiffuse reports whether the material has a Lambertian component
func (m Material) HasDiffuse() bool {
	return !m.Diffuse.IsZero()
}

// HasPhong reports whether the material has a glossy component
func (m Material) HasPhong() bool {
	return !m.Phong.IsZero()
}

// HasSpecular reports whether the material has a mirror or glass component
func (m Material) HasSpecular() bool {
	return !m.Mirror.IsZero()
}

// IsGlass reports whether the material refracts
func (m Material) IsGlass() bool {
	return m.IOR > 0
}

// IsPurelySpecular reports whether the material has no sampleable
// non-delta component
func (m Material) IsPurelySpecular() bool {
	return !m.HasDiffuse() && !m.HasPhong()
}
