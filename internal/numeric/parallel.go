package numeric

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs fn
// on each chunk in its own goroutine. worker is the chunk index, so callers
// can keep per-worker accumulators without locking. workers <= 0 selects
// runtime.NumCPU(). Ranges smaller than minChunk run inline as worker 0.
func ParallelFor(n, minChunk, workers int, fn func(worker, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return fn(0, 0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}
		worker := w
		g.Go(func() error {
			return fn(worker, start, end)
		})
	}
	return g.Wait()
}

// Chunks reports how many worker slots ParallelFor may use for the given
// arguments, so callers can size per-worker buffers up front.
func Chunks(n, minChunk, workers int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
