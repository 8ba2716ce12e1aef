// Package concurrent provides the pooling and fan-out primitives used by
// region generation.
package concurrent

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrTaskPanic wraps a panic recovered from a pooled task.
var ErrTaskPanic = errors.New("task panicked")

// ThreadPool bounds the goroutines used for generation work. Region jobs and
// the chunk batches they fan out are limited separately so a region job
// waiting on its batch can never starve that batch of workers.
type ThreadPool struct {
	workers int
	jobs    *semaphore.Weighted
}

// NewThreadPool creates a pool of the given size. workers <= 0 uses GOMAXPROCS.
func NewThreadPool(workers int) *ThreadPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ThreadPool{
		workers: workers,
		jobs:    semaphore.NewWeighted(int64(workers)),
	}
}

// Workers returns the pool size.
func (p *ThreadPool) Workers() int {
	return p.workers
}

// Batcher returns a Batcher for up to size tasks.
func (p *ThreadPool) Batcher(size int) *Batcher {
	b := &Batcher{}
	b.g.SetLimit(max(1, min(p.workers, size)))
	return b
}

// Go runs fn on the pool without waiting. A panic in fn is recovered and
// dropped; callers that need the outcome use Submit.
func (p *ThreadPool) Go(fn func()) {
	go func() {
		_ = p.jobs.Acquire(context.Background(), 1)
		defer p.jobs.Release(1)
		_ = protect(func() error {
			fn()
			return nil
		})
	}()
}

// Submit runs fn on the pool and returns its future without waiting.
func Submit[T any](p *ThreadPool, fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	p.Go(func() {
		f.Complete(Call(fn))
	})
	return f
}

// Call runs fn on the calling goroutine and converts a panic into ErrTaskPanic.
func Call[T any](fn func() (T, error)) (v T, err error) {
	err = protect(func() error {
		var err error
		v, err = fn()
		return err
	})
	return v, err
}

// protect runs fn and converts a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return fn()
}

// Batcher fans a fixed set of tasks out to the pool. Close blocks until every
// submitted task has finished.
type Batcher struct {
	submitted int
	g         errgroup.Group
}

// Submit schedules fn. It blocks while the pool's worker limit is reached.
func (b *Batcher) Submit(fn func()) {
	b.submitted++
	b.g.Go(func() error {
		return protect(func() error {
			fn()
			return nil
		})
	})
}

// Close waits for all submitted tasks and returns the first failure.
func (b *Batcher) Close() error {
	if err := b.g.Wait(); err != nil {
		return fmt.Errorf("batch of %d tasks: %w", b.submitted, err)
	}
	return nil
}
