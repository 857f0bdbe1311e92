// Package fanout runs independent per-item operations across a bounded
// worker pool.
//
// Results are always ordered by input index, so (path, asset) correlations
// survive parallel execution. A pool size below 2 degrades to a plain
// sequential loop with identical semantics.
package fanout

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers returns the default pool size: min(32, NumCPU + 4).
// The floor of 5 keeps I/O-bound batches moving on small machines while
// the cap bounds connection pressure on large ones.
func DefaultWorkers() int {
	n := runtime.NumCPU() + 4
	if n > 32 {
		n = 32
	}
	return n
}

// Map applies fn to every item and returns the results indexed by input
// position. workers <= 0 selects DefaultWorkers. Failures are fn's concern;
// it must fold them into its result type.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) []R {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	results := make([]R, len(items))

	if workers < 2 || len(items) < 2 {
		for i, item := range items {
			results[i] = fn(ctx, item)
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	g.Wait()

	return results
}
