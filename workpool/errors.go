package workpool

import "errors"

// ErrAlreadyRunning is returned by Submit or RunToCompletion when the pool
// has already been run to completion once. A WorkPool is single-use: build
// a fresh one per sweep.
var ErrAlreadyRunning = errors.New("workpool: RunToCompletion already called")

// ErrInvalidWorkers is returned by New when the requested worker count is
// negative. Zero means "use runtime.GOMAXPROCS(0)".
var ErrInvalidWorkers = errors.New("workpool: worker count must be >= 0")
