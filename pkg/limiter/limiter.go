package limiter

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter admits at most Limit units of work at a time, in arrival order.
// It is safe for concurrent use.
type Limiter struct {
	limit   int
	sem     *semaphore.Weighted
	running atomic.Int64
	waiting atomic.Int64
}

// New creates a Limiter admitting limit concurrent units. Values below 1
// are treated as 1.
func New(limit int) *Limiter {
	limit = max(limit, 1)
	return &Limiter{limit: limit, sem: semaphore.NewWeighted(int64(limit))}
}

// Limit returns the concurrency bound.
func (l *Limiter) Limit() int { return l.limit }

// Running returns the number of units currently admitted.
func (l *Limiter) Running() int { return int(l.running.Load()) }

// Waiting returns the number of units queued for admission.
func (l *Limiter) Waiting() int { return int(l.waiting.Load()) }

// Do waits for a slot and runs fn, returning fn's own error. The slot is
// released when fn returns, admitting the oldest queued unit. If ctx is
// done before fn is admitted, Do returns ctx.Err() without running fn.
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	l.waiting.Add(1)
	err := l.sem.Acquire(ctx, 1)
	l.waiting.Add(-1)
	if err != nil {
		return err
	}

	l.running.Add(1)
	defer func() {
		l.running.Add(-1)
		l.sem.Release(1)
	}()
	return fn(ctx)
}

// Run is the value-returning form of [Limiter.Do].
func Run[T any](ctx context.Context, l *Limiter, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := l.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
