package concurrent

import (
	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for every element of items, at most limit at a
// time (limit <= 0 means no limit). It waits for all of them and returns
// the first error encountered.
func Concurrent[T any](items []T, limit int, action func(int, T) error) error {
	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for idx, item := range items {
		group.Go(func() error {
			return action(idx, item)
		})
	}
	return group.Wait()
}

// ParallelMap applies mapFn to every element in parallel and keeps the input
// order in the result.
func ParallelMap[T any, R any](items []T, limit int, mapFn func(T) R) []R {
	out := make([]R, len(items))
	_ = Concurrent(items, limit, func(idx int, item T) error {
		out[idx] = mapFn(item)
		return nil
	})
	return out
}
