package shared

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEachBatch splits the index range [0, n) into contiguous batches and
// calls fn once per batch. With workers <= 1 the whole range is handled in a
// single call on the caller's goroutine. Batches never overlap, so fn may
// write to the rows of its own range without locking.
func ForEachBatch(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if workers <= 1 || n < workers {
		return fn(0, n)
	}

	size := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
