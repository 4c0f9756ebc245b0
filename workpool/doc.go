// Package workpool provides the FIFO task queue and fixed worker pool that
// the anonymity engines use as a sweep barrier: a batch of independent unit
// tasks (one (guard,middle,exit) triple, one observation window, ...) is
// submitted, RunToCompletion blocks until every task has run, and only then
// does the caller move on to the next sweep. This mirrors ShorTor's
// WorkManager (addTask / startAndJoinAll), rebuilt on channels and
// sync.WaitGroup instead of a mutex-guarded std::queue.
//
// AtomicFloat64 supplements the pool with a compare-and-swap accumulator for
// the float64 partial sums multiple workers write into concurrently, since
// Go has no native atomic float add.
package workpool
