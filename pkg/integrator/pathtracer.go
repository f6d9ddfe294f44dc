package integrator

import (
	"github.com/mpry/go-vcm-renderer/pkg/core"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

// PathTracer implements unidirectional path tracing with next event
// estimation and multiple importance sampling
type PathTracer struct {
	baseRenderer
	sampler core.Sampler
}

// NewPathTracer creates a path tracer seeded for one worker
func NewPathTracer(sc *scene.Scene, seed int64) *PathTracer {
	return &PathTracer{
		baseRenderer: newBaseRenderer(sc, seed),
		sampler:      core.NewSeededSampler(seed),
	}
}

// RunIteration traces one path per pixel
func (r *PathTracer) RunIteration(iteration int) error {
	camera := r.scene.Camera

	for y := 0; y < camera.Height; y++ {
		for x := 0; x < camera.Width; x++ {
			sample := core.NewVec2(float64(x), float64(y)).Add(r.sampler.Get2D())
			color := r.tracePath(camera.GenerateRay(sample))
			r.frame.AddColor(sample, color)
		}
	}

	r.iterations++
	return nil
}

// tracePath traces a single eye path and returns its radiance estimate
func (r *PathTracer) tracePath(ray core.Ray) core.Vec3 {
	var color core.Vec3
	throughput := core.NewVec3(1, 1, 1)
	lightPickProb := 1.0 / float64(max(1, r.scene.LightCount()))

	// A specular previous bounce means light hits cannot be reached by
	// next event estimation, so they are counted at full weight.
	lastSpecular := true
	lastPdfW := 0.0

	for length := 1; length <= r.maxPathLength; length++ {
		isect, hit := r.scene.Intersect(ray)
		if !hit {
			if r.scene.Background != nil {
				rad, directPdfW, _ := r.scene.Background.Radiance(r.scene.Sphere, ray.Direction)
				weight := 1.0
				if !lastSpecular {
					weight = core.PowerHeuristic(1, lastPdfW, 1, directPdfW*lightPickProb)
				}
				color = color.Add(throughput.MultiplyVec(rad).Multiply(weight))
			}
			break
		}

		hitPoint := ray.At(isect.Dist)

		if isect.LightID >= 0 {
			light := r.scene.Light(isect.LightID)
			rad, directPdfA, _ := light.Radiance(r.scene.Sphere, ray.Direction)
			if !rad.IsZero() {
				weight := 1.0
				if !lastSpecular {
					cosAtLight := isect.Normal.Dot(ray.Direction.Negate())
					directPdfW := core.PdfAtoW(directPdfA, isect.Dist, cosAtLight)
					weight = core.PowerHeuristic(1, lastPdfW, 1, directPdfW*lightPickProb)
				}
				color = color.Add(throughput.MultiplyVec(rad).Multiply(weight))
			}
			break // area lights do not reflect
		}

		bsdf := NewBSDF(ray.Direction, isect, r.scene.Material(isect.MatID))
		if !bsdf.Valid() {
			break
		}

		if !bsdf.IsDelta() && r.scene.LightCount() > 0 {
			direct := r.directIllumination(&bsdf, hitPoint, lightPickProb)
			color = color.Add(throughput.MultiplyVec(direct))
		}

		contProb := bsdf.ContinuationProb()
		if r.sampler.Get1D() > contProb {
			break
		}

		dir, factor, pdfW, cosOut, specular, ok := bsdf.Sample(r.sampler)
		if !ok {
			break
		}

		if specular {
			throughput = throughput.MultiplyVec(factor).Multiply(1.0 / contProb)
			lastSpecular, lastPdfW = true, 0
		} else {
			throughput = throughput.MultiplyVec(factor).Multiply(cosOut / (pdfW * contProb))
			lastSpecular, lastPdfW = false, pdfW*contProb
		}

		ray = core.NewRay(hitPoint, dir)
	}

	return color
}

// directIllumination samples one light for next event estimation
func (r *PathTracer) directIllumination(bsdf *BSDF, hitPoint core.Vec3, lightPickProb float64) core.Vec3 {
	lightID := int(r.sampler.Get1D() * float64(r.scene.LightCount()))
	lightID = min(lightID, r.scene.LightCount()-1)
	light := r.scene.Light(lightID)

	sample, ok := light.Illuminate(r.scene.Sphere, hitPoint, r.sampler.Get2D())
	if !ok || sample.Radiance.IsZero() || sample.DirectPdfW == 0 {
		return core.Vec3{}
	}

	value, bsdfPdfW, _, cosToLight := bsdf.Evaluate(sample.DirToLight)
	if value.IsZero() {
		return core.Vec3{}
	}

	if r.scene.Occluded(hitPoint, sample.DirToLight, sample.Distance) {
		return core.Vec3{}
	}

	weight := 1.0
	if !light.IsDelta() {
		weight = core.PowerHeuristic(1, sample.DirectPdfW*lightPickProb, 1, bsdfPdfW)
	}

	return value.MultiplyVec(sample.Radiance).
		Multiply(weight * cosToLight / (sample.DirectPdfW * lightPickProb))
}
