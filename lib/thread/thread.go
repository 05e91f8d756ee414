/*package thread controls how many threads mdcell runs on and provides the
parallel dispatch primitive used by every stage of the particle engine. Each
engine stage launches one unit of work per particle (or per bin) through For
and relies on For's return as the barrier between stages.*/
package thread

import (
	"fmt"
	"runtime"
	"sync"
)

// Set sets the number of threads used by mdcell. Passing n = -1 uses every
// core on the node.
func Set(n int) error {
	if n == -1 {
		runtime.GOMAXPROCS(runtime.NumCPU())
		return nil
	} else if n < 1 {
		return fmt.Errorf("%d threads were requested, but the thread count " +
			"must either be positive or -1.", n)
	} else if n > runtime.NumCPU() {
		return fmt.Errorf("%d threads were requested, but your system only " +
			"has %d cores per node. If you want mdcell to use the maximum " +
			"number of threads per node, set Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
	return nil
}

// Workers returns the number of workers For will split loops across.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// For splits the index range [0, n) into one contiguous chunk per worker and
// calls f(worker, lo, hi) on each chunk concurrently. It returns once every
// worker has finished, so a call to For acts as a barrier between pipeline
// stages. f must not write to shared state without atomics.
func For(n int, f func(worker, lo, hi int)) {
	workers := Workers()
	if workers > n { workers = n }
	if workers <= 1 {
		if n > 0 { f(0, 0, n) }
		return
	}

	chunk := (n + workers - 1) / workers

	wg := &sync.WaitGroup{ }
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n { hi = n }
		if lo >= hi { break }

		wg.Add(1)
		go func(worker, lo, hi int) {
			defer wg.Done()
			f(worker, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()
}
