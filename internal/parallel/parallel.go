// Package parallel runs a function over many items with a bounded worker pool
// and hands the results back in input order.
package parallel

import (
	"context"
	"errors"
	"sync"
)

// Result is the outcome of one item. Index is the item's position in the input.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Map executes fn on each item using a worker pool and returns one Result per
// item, in input order. Items not started before ctx is done get ctx's error.
func Map[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}

	numWorkers := CalculateWorkers(len(items), FileProcessing)

	results := make([]Result[R], len(items))
	jobs := make(chan int, len(items))
	var wg sync.WaitGroup

	// Start workers
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = Result[R]{Index: i, Err: err}
					continue
				}
				v, err := fn(ctx, items[i])
				results[i] = Result[R]{Index: i, Value: v, Err: err}
			}
		}()
	}

	// Send jobs
	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ProcessWithErrors is Map that keeps the successful values in input order and
// joins the errors of the rest.
func ProcessWithErrors[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	var (
		collected []R
		errs      []error
	)
	for _, r := range Map(ctx, items, fn) {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		collected = append(collected, r.Value)
	}
	return collected, errors.Join(errs...)
}

// Collect is a convenience function that keeps the values fn accepts, in input
// order.
func Collect[T any, R any](ctx context.Context, items []T, fn func(item T) (R, bool)) []R {
	var collected []R
	for _, r := range Map(ctx, items, func(_ context.Context, item T) (collectResult[R], error) {
		v, ok := fn(item)
		return collectResult[R]{v, ok}, nil
	}) {
		if r.Err == nil && r.Value.ok {
			collected = append(collected, r.Value.value)
		}
	}
	return collected
}

type collectResult[R any] struct {
	value R
	ok    bool
}
