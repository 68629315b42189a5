package fetch

import (
	"context"
	"errors"
)

// Status is the lifecycle of a single fetch. A fetch in flight has no
// status of its own: the workflow's Loading states cover it.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one fetch: {data, error, status}.
type Result[T any] struct {
	Data   T
	Err    error
	Status Status
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool { return r.Status == StatusSuccess }

// Discarded reports whether the result was thrown away because the caller
// went away before it arrived.
func (r Result[T]) Discarded() bool {
	return errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)
}

// Do runs fn once. If ctx is done by the time fn returns, whatever fn
// produced is dropped and the context error is reported instead, so a stale
// response is never applied to a view that no longer exists.
func Do[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	if err := ctx.Err(); err != nil {
		return Result[T]{Err: err, Status: StatusError}
	}

	data, err := fn(ctx)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result[T]{Err: ctxErr, Status: StatusError}
	}
	if err != nil {
		return Result[T]{Err: err, Status: StatusError}
	}
	return Result[T]{Data: data, Status: StatusSuccess}
}
