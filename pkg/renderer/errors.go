package renderer

import "errors"

var (
	ErrNoScene        = errors.New("renderer: no scene defined")
	ErrBadWorkerCount = errors.New("renderer: worker count must be positive")
	ErrBadIterations  = errors.New("renderer: iteration budget cannot be negative")

	// ErrNoSamples is returned when no worker ever executed an iteration,
	// leaving the aggregate with nothing to normalize by.
	ErrNoSamples = errors.New("renderer: no worker executed an iteration")
)
