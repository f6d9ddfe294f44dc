package integrator

import (
	"github.com/mpry/go-vcm-renderer/pkg/framebuffer"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

// Renderer is a stateful light transport simulator. One instance is bound
// to exactly one worker for the duration of a run; none of its methods are
// safe for concurrent use.
type Renderer interface {
	// RunIteration advances the simulation by one iteration. The iteration
	// index selects sampling offsets; indices of a run partition 0..N-1.
	RunIteration(iteration int) error

	// WasUsed reports whether the renderer has executed at least one iteration
	WasUsed() bool

	// Framebuffer writes the accumulated result, scaled by the number of
	// iterations executed, into dst
	Framebuffer(dst *framebuffer.Framebuffer)

	// SetMaxPathLength bounds the number of path segments
	SetMaxPathLength(length int)

	// Seed returns the seed this renderer's sampler was created with
	Seed() int64
}

// baseRenderer carries the state shared by all simulator variants
type baseRenderer struct {
	scene         *scene.Scene
	frame         *framebuffer.Framebuffer
	iterations    int
	maxPathLength int
	seed          int64
}

func newBaseRenderer(sc *scene.Scene, seed int64) baseRenderer {
	return baseRenderer{
		scene:         sc,
		frame:         framebuffer.New(sc.Camera.Width, sc.Camera.Height),
		maxPathLength: 10,
		seed:          seed,
	}
}

// WasUsed reports whether the renderer has executed at least one iteration
func (r *baseRenderer) WasUsed() bool {
	return r.iterations > 0
}

// Framebuffer writes the accumulated result into dst, scaled by the number
// of iterations executed
func (r *baseRenderer) Framebuffer(dst *framebuffer.Framebuffer) {
	dst.CopyFrom(r.frame)
	if r.iterations > 0 {
		dst.Scale(1.0 / float64(r.iterations))
	}
}

// SetMaxPathLength bounds the number of path segments
func (r *baseRenderer) SetMaxPathLength(length int) {
	r.maxPathLength = length
}

// Seed returns the seed this renderer's sampler was created with
func (r *baseRenderer) Seed() int64 {
	return r.seed
}
