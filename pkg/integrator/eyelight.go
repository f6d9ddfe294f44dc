package integrator

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

// EyeLight renders a simple headlight shading of the scene, useful for
// checking geometry and camera setup. It has no progressive semantics;
// a single iteration produces the final image.
type EyeLight struct {
	baseRenderer
	sampler core.Sampler
}

// NewEyeLight creates an eye-light renderer for the scene
func NewEyeLight(sc *scene.Scene, seed int64) *EyeLight {
	return &EyeLight{
		baseRenderer: newBaseRenderer(sc, seed),
		sampler:      core.NewSeededSampler(seed),
	}
}

// RunIteration shades every pixel with the cosine between the surface
// normal and the direction back to the camera
func (r *EyeLight) RunIteration(iteration int) error {
	camera := r.scene.Camera

	for y := 0; y < camera.Height; y++ {
		for x := 0; x < camera.Width; x++ {
			sample := core.NewVec2(float64(x), float64(y))
			if iteration > 0 {
				sample = sample.Add(r.sampler.Get2D())
			} else {
				sample = sample.Add(core.NewVec2(0.5, 0.5))
			}

			ray := camera.GenerateRay(sample)
			isect, hit := r.scene.Intersect(ray)
			if !hit {
				continue
			}

			shade := math.Abs(isect.Normal.Dot(ray.Direction.Negate()))
			r.frame.AddColor(sample, core.NewVec3(shade, shade, shade))
		}
	}

	r.iterations++
	return nil
}
