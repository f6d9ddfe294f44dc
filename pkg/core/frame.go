package core

import "math"

// Frame is an orthonormal coordinate system around a surface normal.
// Local directions use Z as the normal axis.
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewFrame builds an orthonormal frame around the given normal
func NewFrame(normal Vec3) Frame {
	// Pick a helper axis that is not nearly parallel to the normal
	var helper Vec3
	if math.Abs(normal.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}

	tangent := helper.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return Frame{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// ToWorld transforms a local direction into world space
func (f Frame) ToWorld(local Vec3) Vec3 {
	return f.Tangent.Multiply(local.X).
		Add(f.Bitangent.Multiply(local.Y)).
		Add(f.Normal.Multiply(local.Z))
}

// ToLocal transforms a world direction into the frame's local space
func (f Frame) ToLocal(world Vec3) Vec3 {
	return NewVec3(world.Dot(f.Tangent), world.Dot(f.Bitangent), world.Dot(f.Normal))
}

// CosTheta returns the cosine between a local direction and the normal axis
func CosTheta(local Vec3) float64 {
	return local.Z
}
