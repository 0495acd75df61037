package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach splits items into at most workers contiguous chunks and runs
// action over each chunk in its own goroutine. It returns once every chunk
// is done, so consecutive calls act as a barrier. workers <= 1 runs inline
// in the caller's goroutine. Elements are never shared between chunks.
func ForEach[T any](ctx context.Context, items []T, workers int, action func(T) error) error {
	if workers <= 1 || len(items) <= 1 {
		for _, v := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := action(v); err != nil {
				return err
			}
		}
		return nil
	}

	if workers > len(items) {
		workers = len(items)
	}
	chunk := (len(items) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(items); start += chunk {
		end := min(start+chunk, len(items))
		part := items[start:end]
		g.Go(func() error {
			for _, v := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := action(v); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
