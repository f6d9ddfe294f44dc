package integrator

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

// TransportMode selects which techniques of the vertex connection and
// merging framework a VertexCM instance combines
type TransportMode int

const (
	// LightTrace connects light path vertices to the camera only
	LightTrace TransportMode = iota
	// Ppm merges at the first non-specular eye hit only
	Ppm
	// Bpm merges at every non-specular eye hit
	Bpm
	// Bpt connects light and eye vertices, no merging
	Bpt
	// Vcm combines vertex connection and vertex merging
	Vcm
)

// VertexCM is the shared simulator behind light tracing, photon mapping
// and bidirectional path tracing. A transport mode chosen at construction
// enables the individual techniques; the multiple importance sampling
// weights adapt to whichever combination is active.
type VertexCM struct {
	baseRenderer
	sampler core.Sampler

	lightTraceOnly bool
	useVC          bool
	useVM          bool
	ppm            bool

	baseRadiusFactor float64
	radiusAlpha      float64

	// per-iteration state
	lightSubPathCount float64
	misVmWeightFactor float64
	misVcWeightFactor float64
	vmNormalization   float64
	mergeRadiusSqr    float64
	lightVertices     []lightVertex
	pathEnds          []int
	grid              *hashGrid
}

// lightVertex is a stored light sub-path hit used for vertex connection
// and merging
type lightVertex struct {
	hitPoint   core.Vec3
	throughput core.Vec3
	pathLength int
	bsdf       BSDF
	dVCM       float64
	dVC        float64
	dVM        float64
}

// pathState carries a sub-path being traced, together with the recursive
// partial MIS quantities
type pathState struct {
	origin       core.Vec3
	direction    core.Vec3
	throughput   core.Vec3
	pathLength   int
	isFinite     bool
	specularPath bool
	dVCM         float64
	dVC          float64
	dVM          float64
}

// NewVertexCM creates a simulator with the given transport mode, seeded
// for one worker
func NewVertexCM(sc *scene.Scene, mode TransportMode, seed int64) *VertexCM {
	r := &VertexCM{
		baseRenderer:     newBaseRenderer(sc, seed),
		sampler:          core.NewSeededSampler(seed),
		baseRadiusFactor: 0.003,
		radiusAlpha:      0.75,
	}

	switch mode {
	case LightTrace:
		r.lightTraceOnly = true
	case Ppm:
		r.useVM = true
		r.ppm = true
	case Bpm:
		r.useVM = true
	case Bpt:
		r.useVC = true
	case Vcm:
		r.useVC = true
		r.useVM = true
	}

	return r
}

// RunIteration traces one batch of light sub-paths and, unless in pure
// light tracing mode, one eye path per pixel
func (r *VertexCM) RunIteration(iteration int) error {
	camera := r.scene.Camera
	pixelCount := camera.PixelCount()
	r.lightSubPathCount = float64(pixelCount)

	// Progressively shrinking merge radius
	radius := r.baseRadiusFactor * r.scene.Sphere.Radius
	radius /= math.Pow(float64(iteration+1), 0.5*(1-r.radiusAlpha))
	radius = math.Max(radius, 1e-7)
	r.mergeRadiusSqr = radius * radius

	etaVCM := math.Pi * r.mergeRadiusSqr * r.lightSubPathCount
	r.misVmWeightFactor = 0
	r.misVcWeightFactor = 0
	if r.useVM {
		r.misVmWeightFactor = etaVCM
	}
	if r.useVC {
		r.misVcWeightFactor = 1.0 / etaVCM
	}
	r.vmNormalization = 1.0 / etaVCM

	r.lightVertices = r.lightVertices[:0]
	r.pathEnds = r.pathEnds[:0]

	for pathIdx := 0; pathIdx < pixelCount; pathIdx++ {
		r.traceLightPath()
		r.pathEnds = append(r.pathEnds, len(r.lightVertices))
	}

	if !r.lightTraceOnly {
		if r.useVM {
			r.grid = newHashGrid(r.lightVertices, radius)
		}
		for y := 0; y < camera.Height; y++ {
			for x := 0; x < camera.Width; x++ {
				r.traceEyePath(x, y)
			}
		}
	}

	r.iterations++
	return nil
}

// traceLightPath emits one light sub-path, storing its vertices and
// splatting camera connections
func (r *VertexCM) traceLightPath() {
	lightCount := r.scene.LightCount()
	if lightCount == 0 {
		return
	}
	lightPickProb := 1.0 / float64(lightCount)
	lightID := min(int(r.sampler.Get1D()*float64(lightCount)), lightCount-1)
	light := r.scene.Light(lightID)

	em := light.Emit(r.scene.Sphere, r.sampler.Get2D(), r.sampler.Get2D())
	emissionPdfW := em.EmissionPdfW * lightPickProb
	directPdfA := em.DirectPdfA * lightPickProb
	if emissionPdfW == 0 {
		return
	}

	state := pathState{
		origin:     em.Origin,
		direction:  em.Direction,
		throughput: em.Radiance.Multiply(1.0 / emissionPdfW),
		pathLength: 1,
		isFinite:   light.IsFinite(),
		dVCM:       directPdfA / emissionPdfW,
	}
	if !light.IsDelta() {
		state.dVC = em.CosAtLight / emissionPdfW
	}
	state.dVM = state.dVC * r.misVcWeightFactor

	for {
		ray := core.NewRay(state.origin, state.direction)
		isect, hit := r.scene.Intersect(ray)
		if !hit {
			break
		}

		hitPoint := ray.At(isect.Dist)
		bsdf := NewBSDF(ray.Direction, isect, r.scene.Material(isect.MatID))
		if !bsdf.Valid() {
			break
		}

		// Infinite lights need no distance correction on the first segment
		if state.pathLength > 1 || state.isFinite {
			state.dVCM *= isect.Dist * isect.Dist
		}
		cosIn := bsdf.CosThetaIn()
		state.dVCM /= cosIn
		state.dVC /= cosIn
		state.dVM /= cosIn

		if !bsdf.IsDelta() {
			r.lightVertices = append(r.lightVertices, lightVertex{
				hitPoint:   hitPoint,
				throughput: state.throughput,
				pathLength: state.pathLength,
				bsdf:       bsdf,
				dVCM:       state.dVCM,
				dVC:        state.dVC,
				dVM:        state.dVM,
			})

			if (r.useVC || r.lightTraceOnly) && state.pathLength+1 <= r.maxPathLength {
				r.connectToCamera(&state, hitPoint, &bsdf)
			}
		}

		if state.pathLength+2 > r.maxPathLength {
			break
		}
		if !r.sampleScattering(&bsdf, hitPoint, &state) {
			break
		}
		state.pathLength++
	}
}

// connectToCamera splats a light vertex's contribution onto the image
func (r *VertexCM) connectToCamera(state *pathState, hitPoint core.Vec3, bsdf *BSDF) {
	camera := r.scene.Camera

	toCamera := camera.Position.Subtract(hitPoint)
	distSqr := toCamera.LengthSquared()
	dist := math.Sqrt(distSqr)
	dirToCamera := toCamera.Multiply(1.0 / dist)

	// The vertex must be in front of the camera
	cosAtCamera := camera.Forward().Dot(dirToCamera.Negate())
	if cosAtCamera <= 0 {
		return
	}

	raster, ok := camera.WorldToRaster(hitPoint)
	if !ok {
		return
	}

	bsdfFactor, _, bsdfRevPdfW, cosToCamera := bsdf.Evaluate(dirToCamera)
	if bsdfFactor.IsZero() {
		return
	}
	bsdfRevPdfW *= bsdf.ContinuationProb()

	// Pixel-area pdf of sampling this vertex from the camera
	imagePointToCameraDist := camera.ImagePlaneDist() / cosAtCamera
	imageToSolidAngleFactor := imagePointToCameraDist * imagePointToCameraDist / cosAtCamera
	imageToSurfaceFactor := imageToSolidAngleFactor * cosToCamera / distSqr
	cameraPdfA := imageToSurfaceFactor

	contribution := state.throughput.MultiplyVec(bsdfFactor).
		Multiply(imageToSurfaceFactor / r.lightSubPathCount)
	if contribution.IsZero() {
		return
	}

	if r.scene.Occluded(hitPoint, dirToCamera, dist) {
		return
	}

	weight := 1.0
	if !r.lightTraceOnly {
		wLight := (cameraPdfA / r.lightSubPathCount) *
			(r.misVmWeightFactor + state.dVCM + state.dVC*bsdfRevPdfW)
		weight = 1.0 / (wLight + 1.0)
	}

	r.frame.AddColor(raster, contribution.Multiply(weight))
}

// traceEyePath traces one eye path through a pixel, gathering all enabled
// contributions
func (r *VertexCM) traceEyePath(x, y int) {
	camera := r.scene.Camera
	pathIdx := y*camera.Width + x

	sample := core.NewVec2(float64(x), float64(y)).Add(r.sampler.Get2D())
	ray := camera.GenerateRay(sample)

	cosAtCamera := camera.Forward().Dot(ray.Direction)
	ipd := camera.ImagePlaneDist()
	cameraPdfW := ipd * ipd / (cosAtCamera * cosAtCamera * cosAtCamera)

	state := pathState{
		origin:       ray.Origin,
		direction:    ray.Direction,
		throughput:   core.NewVec3(1, 1, 1),
		pathLength:   1,
		specularPath: true,
		dVCM:         r.lightSubPathCount / cameraPdfW,
	}

	lightPickProb := 1.0 / float64(max(1, r.scene.LightCount()))
	var color core.Vec3

	for {
		ray := core.NewRay(state.origin, state.direction)
		isect, hit := r.scene.Intersect(ray)
		if !hit {
			if r.scene.Background != nil {
				rad, directPdfW, emissionPdfW := r.scene.Background.Radiance(r.scene.Sphere, ray.Direction)
				color = color.Add(r.lightHitContribution(&state, rad,
					directPdfW*lightPickProb, emissionPdfW*lightPickProb))
			}
			break
		}

		hitPoint := ray.At(isect.Dist)
		bsdf := NewBSDF(ray.Direction, isect, r.scene.Material(isect.MatID))
		if !bsdf.Valid() {
			break
		}

		cosIn := bsdf.CosThetaIn()
		state.dVCM *= isect.Dist * isect.Dist
		state.dVCM /= cosIn
		state.dVC /= cosIn
		state.dVM /= cosIn

		if isect.LightID >= 0 {
			light := r.scene.Light(isect.LightID)
			rad, directPdfA, emissionPdfW := light.Radiance(r.scene.Sphere, ray.Direction)
			if !rad.IsZero() {
				cosAtLight := isect.Normal.Dot(ray.Direction.Negate())
				directPdfW := core.PdfAtoW(directPdfA, isect.Dist, cosAtLight)
				color = color.Add(r.lightHitContribution(&state, rad,
					directPdfW*lightPickProb, emissionPdfW*lightPickProb))
			}
			break // area lights do not reflect
		}

		if state.pathLength >= r.maxPathLength {
			break
		}

		if r.useVC && !bsdf.IsDelta() {
			direct := r.connectToLight(&state, hitPoint, &bsdf, lightPickProb)
			color = color.Add(state.throughput.MultiplyVec(direct))

			// Connect to the vertices of this pixel's own light sub-path
			start := 0
			if pathIdx > 0 {
				start = r.pathEnds[pathIdx-1]
			}
			for i := start; i < r.pathEnds[pathIdx]; i++ {
				vertex := &r.lightVertices[i]
				if vertex.pathLength+1+state.pathLength > r.maxPathLength {
					break
				}
				connected := r.connectVertices(&state, hitPoint, &bsdf, vertex)
				color = color.Add(state.throughput.MultiplyVec(vertex.throughput).MultiplyVec(connected))
			}
		}

		if r.useVM && !bsdf.IsDelta() {
			merged := r.mergeVertices(&state, hitPoint, &bsdf)
			color = color.Add(state.throughput.MultiplyVec(merged).Multiply(r.vmNormalization))

			if r.ppm {
				break // progressive photon mapping merges once
			}
		}

		if !r.sampleScattering(&bsdf, hitPoint, &state) {
			break
		}
		state.pathLength++
	}

	r.frame.AddColor(sample, color)
}

// lightHitContribution weights radiance picked up by hitting a light with
// the pdfs of the competing techniques
func (r *VertexCM) lightHitContribution(state *pathState, radiance core.Vec3, directPdfW, emissionPdfW float64) core.Vec3 {
	// Directly visible lights are only sampled this way
	if state.pathLength == 1 {
		return state.throughput.MultiplyVec(radiance)
	}

	if !r.useVC && !r.lightTraceOnly {
		// Merging-only modes cannot produce this contact another way
		// once the path has left the camera
		if state.specularPath {
			return state.throughput.MultiplyVec(radiance)
		}
		return core.Vec3{}
	}

	wCamera := directPdfW*state.dVCM + emissionPdfW*state.dVC
	weight := 1.0 / (1.0 + wCamera)
	return state.throughput.MultiplyVec(radiance).Multiply(weight)
}

// connectToLight performs next event estimation with full VCM weighting
func (r *VertexCM) connectToLight(state *pathState, hitPoint core.Vec3, bsdf *BSDF, lightPickProb float64) core.Vec3 {
	lightCount := r.scene.LightCount()
	if lightCount == 0 {
		return core.Vec3{}
	}
	lightID := min(int(r.sampler.Get1D()*float64(lightCount)), lightCount-1)
	light := r.scene.Light(lightID)

	sample, ok := light.Illuminate(r.scene.Sphere, hitPoint, r.sampler.Get2D())
	if !ok || sample.Radiance.IsZero() || sample.DirectPdfW == 0 {
		return core.Vec3{}
	}

	bsdfFactor, bsdfDirPdfW, bsdfRevPdfW, cosToLight := bsdf.Evaluate(sample.DirToLight)
	if bsdfFactor.IsZero() {
		return core.Vec3{}
	}

	contProb := bsdf.ContinuationProb()
	bsdfDirPdfW *= contProb
	bsdfRevPdfW *= contProb

	if r.scene.Occluded(hitPoint, sample.DirToLight, sample.Distance) {
		return core.Vec3{}
	}

	wLight := 0.0
	if !light.IsDelta() {
		wLight = bsdfDirPdfW / (lightPickProb * sample.DirectPdfW)
	}
	wCamera := (sample.EmissionPdfW * cosToLight / (sample.DirectPdfW * sample.CosAtLight)) *
		(r.misVmWeightFactor + state.dVCM + state.dVC*bsdfRevPdfW)
	weight := 1.0 / (wLight + 1.0 + wCamera)

	return bsdfFactor.MultiplyVec(sample.Radiance).
		Multiply(weight * cosToLight / (lightPickProb * sample.DirectPdfW))
}

// connectVertices joins an eye vertex with a stored light vertex
func (r *VertexCM) connectVertices(state *pathState, hitPoint core.Vec3, eyeBsdf *BSDF, vertex *lightVertex) core.Vec3 {
	toLight := vertex.hitPoint.Subtract(hitPoint)
	distSqr := toLight.LengthSquared()
	dist := math.Sqrt(distSqr)
	dir := toLight.Multiply(1.0 / dist)

	eyeFactor, eyeDirPdfW, eyeRevPdfW, cosAtEye := eyeBsdf.Evaluate(dir)
	if eyeFactor.IsZero() {
		return core.Vec3{}
	}
	eyeContProb := eyeBsdf.ContinuationProb()
	eyeDirPdfW *= eyeContProb
	eyeRevPdfW *= eyeContProb

	lightFactor, lightDirPdfW, lightRevPdfW, cosAtLight := vertex.bsdf.Evaluate(dir.Negate())
	if lightFactor.IsZero() {
		return core.Vec3{}
	}
	lightContProb := vertex.bsdf.ContinuationProb()
	lightDirPdfW *= lightContProb
	lightRevPdfW *= lightContProb

	geometryTerm := cosAtEye * cosAtLight / distSqr
	if geometryTerm <= 0 {
		return core.Vec3{}
	}

	if r.scene.Occluded(hitPoint, dir, dist) {
		return core.Vec3{}
	}

	eyeDirPdfA := core.PdfWtoA(eyeDirPdfW, dist, cosAtLight)
	lightDirPdfA := core.PdfWtoA(lightDirPdfW, dist, cosAtEye)

	wLight := eyeDirPdfA * (r.misVmWeightFactor + vertex.dVCM + vertex.dVC*lightRevPdfW)
	wCamera := lightDirPdfA * (r.misVmWeightFactor + state.dVCM + state.dVC*eyeRevPdfW)
	weight := 1.0 / (wLight + 1.0 + wCamera)

	return eyeFactor.MultiplyVec(lightFactor).Multiply(weight * geometryTerm)
}

// mergeVertices gathers stored light vertices around the eye hit point
func (r *VertexCM) mergeVertices(state *pathState, hitPoint core.Vec3, eyeBsdf *BSDF) core.Vec3 {
	var merged core.Vec3

	r.grid.forEachNear(hitPoint, r.lightVertices, func(vertex *lightVertex) {
		if vertex.pathLength+state.pathLength > r.maxPathLength {
			return
		}

		bsdfFactor, dirPdfW, revPdfW, _ := eyeBsdf.Evaluate(vertex.bsdf.WorldDirIn())
		if bsdfFactor.IsZero() {
			return
		}

		weight := 1.0
		if !r.ppm {
			wLight := vertex.dVCM*r.misVcWeightFactor + vertex.dVM*dirPdfW
			wCamera := state.dVCM*r.misVcWeightFactor + state.dVM*revPdfW
			weight = 1.0 / (wLight + 1.0 + wCamera)
		}

		merged = merged.Add(bsdfFactor.MultiplyVec(vertex.throughput).Multiply(weight))
	})

	return merged
}

// sampleScattering extends a sub-path by one bounce, updating the partial
// MIS quantities. Returns false when the path terminates.
func (r *VertexCM) sampleScattering(bsdf *BSDF, hitPoint core.Vec3, state *pathState) bool {
	contProb := bsdf.ContinuationProb()
	if r.sampler.Get1D() > contProb {
		return false
	}

	dir, factor, pdfW, cosOut, specular, ok := bsdf.Sample(r.sampler)
	if !ok {
		return false
	}
	pdfW *= contProb

	if specular {
		state.dVCM = 0
		state.dVC *= cosOut
		state.dVM *= cosOut
		state.throughput = state.throughput.MultiplyVec(factor).Multiply(1.0 / contProb)
	} else {
		_, _, revPdfW, _ := bsdf.Evaluate(dir)
		revPdfW *= contProb

		state.dVC = (cosOut / pdfW) * (state.dVC*revPdfW + state.dVCM + r.misVmWeightFactor)
		state.dVM = (cosOut / pdfW) * (state.dVM*revPdfW + state.dVCM*r.misVcWeightFactor + 1.0)
		state.dVCM = 1.0 / pdfW
		state.specularPath = false
		state.throughput = state.throughput.MultiplyVec(factor).Multiply(cosOut / pdfW)
	}

	state.origin = hitPoint
	state.direction = dir
	return true
}
