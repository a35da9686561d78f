// Package parallel runs independent work items on a bounded set of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// Workers returns a Config using n workers. n of 0 or 1 runs sequentially;
// a negative n uses DefaultConfig.
func Workers(n int) Config {
	if n < 0 {
		return DefaultConfig()
	}
	return Config{Enabled: n > 1, NumWorkers: n, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n) and returns the errors joined in index
// order. Items must not write shared state.
//
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int) error, cfg Config) error {
	errs := make([]error, n)
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			errs[i] = f(i)
		}
		return errors.Join(errs...)
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				errs[i] = f(i)
			}
		}(start, end)
	}
	wg.Wait()
	return errors.Join(errs...)
}
