package renderer

import "github.com/mpry/go-vcm-renderer/pkg/scene"

// Algorithm selects the light transport estimator. The set is closed;
// adding a variant requires extending the factory's exhaustive mapping.
type Algorithm int

const (
	EyeLight Algorithm = iota
	PathTracing
	LightTracing
	ProgressivePhotonMapping
	BidirectionalPhotonMapping
	BidirectionalPathTracing
	VertexConnectionMerging

	// AlgorithmMax bounds the valid algorithm values
	AlgorithmMax
)

var algorithmNames = [AlgorithmMax]string{
	"Eye Light",
	"Path Tracing",
	"Light Tracing",
	"Progressive Photon Mapping",
	"Bidirectional Photon Mapping",
	"Bidirectional Path Tracing",
	"Vertex Connection Merging",
}

var algorithmAcronyms = [AlgorithmMax]string{
	"el", "pt", "lt", "ppm", "bpm", "bpt", "vcm",
}

// Valid reports whether the value names a known algorithm
func (a Algorithm) Valid() bool {
	return a >= 0 && a < AlgorithmMax
}

// Name returns the human-readable algorithm name
func (a Algorithm) Name() string {
	if !a.Valid() {
		return "unknown algorithm"
	}
	return algorithmNames[a]
}

// Acronym returns the short algorithm tag used in file names
func (a Algorithm) Acronym() string {
	if !a.Valid() {
		return "unknown"
	}
	return algorithmAcronyms[a]
}

// SinglePass reports whether the algorithm has no progressive-sample
// semantics, in which case the iteration budget collapses to one
func (a Algorithm) SinglePass() bool {
	return a == EyeLight
}

// ParseAlgorithm maps an acronym to its algorithm value
func ParseAlgorithm(acronym string) (Algorithm, bool) {
	for a := Algorithm(0); a < AlgorithmMax; a++ {
		if algorithmAcronyms[a] == acronym {
			return a, true
		}
	}
	return AlgorithmMax, false
}

// Config is the input bundle for one render run. All fields are required;
// the run does not substitute defaults. The scene is shared read-only with
// every worker and is never mutated.
type Config struct {
	Scene         *scene.Scene
	Algorithm     Algorithm
	Iterations    int   // total iteration budget across all workers
	NumWorkers    int   // fixed worker pool size
	BaseSeed      int64 // worker i is seeded BaseSeed + i
	MaxPathLength int   // bound on path segments per sample
}
