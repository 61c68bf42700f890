package dynamo

import (
	"runtime"
	"sync"
)

// DefaultMinChunk is the smallest slice of work handed to one goroutine.
const DefaultMinChunk = 16

// Workers returns n when positive, otherwise the number of CPUs.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ParallelFor executes fn over [0, n) split into contiguous ranges, one
// goroutine per range, and returns once every range is done.
func ParallelFor(n, minChunk, numWorkers int, fn func(start, end int)) {
	ForEachRange(Ranges(n, minChunk, numWorkers), func(_, start, end int) {
		fn(start, end)
	})
}

// Ranges returns the contiguous [start, end) ranges ParallelFor would use.
// Callers that merge per-range results rely on this order.
func Ranges(n, minChunk, numWorkers int) [][2]int {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		return [][2]int{{0, n}}
	}
	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers

	out := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// ForEachRange runs fn once per range concurrently, passing the range
// index so results can be merged in order.
func ForEachRange(ranges [][2]int, fn func(idx, start, end int)) {
	if len(ranges) == 0 {
		return
	}
	if len(ranges) == 1 {
		fn(0, ranges[0][0], ranges[0][1])
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for i, r := range ranges {
		go func(idx, s, e int) {
			defer wg.Done()
			fn(idx, s, e)
		}(i, r[0], r[1])
	}
	wg.Wait()
}
