package irsdk

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runSuspension executes fn on a worker goroutine coordinated by an
// errgroup so the calling task can suspend at this call the way a
// cooperative scheduler expects. If ctx is cancelled before fn returns,
// runSuspension returns ctx.Err() immediately; it does not wait for fn.
//
// This is the explicit-suspension-point re-architecture spec §9 calls
// for, replacing the source library's coroutine-based
// run-this-on-a-worker shim with a plain goroutine plus context
// cancellation that callers on any runtime (single- or multi-threaded)
// can rely on.
func runSuspension[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	g, _ := errgroup.WithContext(ctx)
	result := make(chan T, 1)
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		select {
		case result <- v:
		default:
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case err := <-done:
		if err != nil {
			return zero, err
		}
		select {
		case v := <-result:
			return v, nil
		default:
			return zero, nil
		}
	}
}
