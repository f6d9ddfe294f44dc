package renderer

import (
	"fmt"

	"github.com/mpry/go-vcm-renderer/pkg/integrator"
)

// newRenderers constructs one simulator per worker slot. Worker i receives
// seed BaseSeed+i, so seeds are pairwise distinct within a run and
// reproducible across runs. The path-length bound is applied to every
// instance before any iteration executes.
//
// The switch is exhaustive over the closed algorithm set; a value outside
// it is a programming error, not a recoverable condition.
func newRenderers(cfg Config) []integrator.Renderer {
	renderers := make([]integrator.Renderer, cfg.NumWorkers)

	for i := range renderers {
		seed := cfg.BaseSeed + int64(i)

		switch cfg.Algorithm {
		case EyeLight:
			renderers[i] = integrator.NewEyeLight(cfg.Scene, seed)
		case PathTracing:
			renderers[i] = integrator.NewPathTracer(cfg.Scene, seed)
		case LightTracing:
			renderers[i] = integrator.NewVertexCM(cfg.Scene, integrator.LightTrace, seed)
		case ProgressivePhotonMapping:
			renderers[i] = integrator.NewVertexCM(cfg.Scene, integrator.Ppm, seed)
		case BidirectionalPhotonMapping:
			renderers[i] = integrator.NewVertexCM(cfg.Scene, integrator.Bpm, seed)
		case BidirectionalPathTracing:
			renderers[i] = integrator.NewVertexCM(cfg.Scene, integrator.Bpt, seed)
		case VertexConnectionMerging:
			renderers[i] = integrator.NewVertexCM(cfg.Scene, integrator.Vcm, seed)
		default:
			panic(fmt.Sprintf("renderer: unknown algorithm %d", cfg.Algorithm))
		}
	}

	for _, r := range renderers {
		r.SetMaxPathLength(cfg.MaxPathLength)
	}

	return renderers
}
