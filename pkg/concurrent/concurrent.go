package concurrent

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PanicError carries a value recovered from a panicking worker.
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Index, e.Value)
}

// MapSlice applies fn to every element of in on at most workers goroutines and
// returns the results in input order. The first error cancels ctx for the remaining
// workers and is returned. A panicking fn is reported as *PanicError.
// workers <= 0 uses GOMAXPROCS.
func MapSlice[T, R any](ctx context.Context, in []T, workers int, fn func(ctx context.Context, i int, v T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]R, len(in))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, val := range in {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Index: idx, Value: r}
				}
			}()
			if err = gctx.Err(); err != nil {
				return err
			}
			out[idx], err = fn(gctx, idx, val)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
