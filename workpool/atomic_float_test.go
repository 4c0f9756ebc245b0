package workpool_test

import (
	"sync"
	"testing"

	"github.com/relaynet/mator/workpool"
	"github.com/stretchr/testify/require"
)

func TestAtomicFloat64_ConcurrentAdd(t *testing.T) {
	acc := workpool.NewAtomicFloat64(0)

	const goroutines = 100
	const perGoroutine = 1000
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				acc.Add(0.5)
			}
		}()
	}
	wg.Wait()

	require.InDelta(t, float64(goroutines*perGoroutine)*0.5, acc.Load(), 1e-6)
}

func TestAtomicFloat64_StoreOverridesLoad(t *testing.T) {
	acc := workpool.NewAtomicFloat64(3)
	acc.Store(9)
	require.Equal(t, 9.0, acc.Load())
}
