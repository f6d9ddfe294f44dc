package renderer

import (
	"sync"
	"time"

	"github.com/mpry/go-vcm-renderer/pkg/framebuffer"
	"github.com/mpry/go-vcm-renderer/pkg/integrator"
)

// Render executes one run: it builds one deterministically seeded
// simulator per worker, fans the iteration budget out across the pool,
// and merges the per-worker partial buffers into a normalized aggregate.
// The returned duration covers the dispatch phase only.
func Render(cfg Config) (*framebuffer.Framebuffer, time.Duration, error) {
	if cfg.Scene == nil {
		return nil, 0, ErrNoScene
	}
	if cfg.NumWorkers < 1 {
		return nil, 0, ErrBadWorkerCount
	}
	if cfg.Iterations < 0 {
		return nil, 0, ErrBadIterations
	}

	iterations := cfg.Iterations
	if cfg.Algorithm.SinglePass() {
		iterations = 1
	}

	renderers := newRenderers(cfg)

	elapsed, err := dispatch(renderers, iterations)
	if err != nil {
		return nil, elapsed, err
	}

	aggregate, err := merge(renderers)
	if err != nil {
		return nil, elapsed, err
	}

	return aggregate, elapsed, nil
}

// dispatch distributes iteration indices across the worker pool. Worker i
// drives renderers[i] exclusively; how many indices land on any one worker
// depends on channel scheduling and is deliberately unspecified. Each
// index in 0..iterations-1 is processed exactly once. The first worker
// error aborts the run.
func dispatch(renderers []integrator.Renderer, iterations int) (time.Duration, error) {
	tasks := make(chan int, iterations)
	for i := 0; i < iterations; i++ {
		tasks <- i
	}
	close(tasks)

	stop := make(chan struct{})
	var stopOnce sync.Once
	errs := make([]error, len(renderers))

	start := time.Now()

	var wg sync.WaitGroup
	for w := range renderers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				case iter, ok := <-tasks:
					if !ok {
						return
					}
					if err := renderers[worker].RunIteration(iter); err != nil {
						errs[worker] = err
						stopOnce.Do(func() { close(stop) })
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)

	for _, err := range errs {
		if err != nil {
			return elapsed, err
		}
	}
	return elapsed, nil
}

// merge folds the per-worker partial buffers into one aggregate: the
// first used renderer's buffer is taken as-is, the remaining used buffers
// are added elementwise, and the result is scaled by the number of used
// renderers. Workers that never ran an iteration are skipped and excluded
// from the denominator; the aggregate is therefore the unweighted mean
// across used workers, regardless of how many iterations each one ran.
func merge(renderers []integrator.Renderer) (*framebuffer.Framebuffer, error) {
	aggregate := &framebuffer.Framebuffer{}
	used := 0

	var tmp framebuffer.Framebuffer
	for _, r := range renderers {
		if !r.WasUsed() {
			continue
		}
		if used == 0 {
			r.Framebuffer(aggregate)
		} else {
			r.Framebuffer(&tmp)
			if err := aggregate.Add(&tmp); err != nil {
				return nil, err
			}
		}
		used++
	}

	if used == 0 {
		return nil, ErrNoSamples
	}

	aggregate.Scale(1.0 / float64(used))
	return aggregate, nil
}
