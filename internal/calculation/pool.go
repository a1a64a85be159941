package calculation

import (
	"context"
	"runtime"
	"sync"
)

// defaultWorkers bounds fan-out when the caller does not choose.
func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// parallelFor runs fn for every index in [0, n) on at most workers goroutines. Each fn
// writes only its own result slot. Work not yet started is skipped once ctx is done.
func parallelFor(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers < 1 {
		workers = defaultWorkers()
	}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			if ctx.Err() != nil {
				return
			}
			fn(idx)
		}(i)
	}

	wg.Wait()
	return ctx.Err()
}
