package scheduler

import (
	"context"
	"time"
)

type Work[T any] func(ctx context.Context) (T, error)

// Result is what a future receives once its work returned.
type Result[T any] struct {
	Name     string
	Data     T
	Err      error
	Duration time.Duration
}

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		input:  input,
		cancel: cancel,
	}
}

func (f *Future[T]) C() chan T {
	return f.input
}

// Wait blocks until the result arrives or ctx is done, in which case the work is cancelled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case r := <-f.input:
		return r, nil
	case <-ctx.Done():
		f.cancel()
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) Stop() {
	f.cancel()
}
