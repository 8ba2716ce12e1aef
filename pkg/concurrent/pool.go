package concurrent

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ObjectPool hands out exclusive leases on expensive objects. At most capacity
// objects are ever constructed; borrowers beyond that block until one is returned.
type ObjectPool[T any] struct {
	sem    *semaphore.Weighted
	create func() T

	mu      sync.Mutex
	idle    []T
	created atomic.Int64
}

// NewObjectPool creates a pool of at most capacity objects built lazily by create.
func NewObjectPool[T any](capacity int, create func() T) *ObjectPool[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ObjectPool[T]{
		sem:    semaphore.NewWeighted(int64(capacity)),
		create: create,
		idle:   make([]T, 0, capacity),
	}
}

// Get borrows an object, blocking until one is free or ctx is done.
// The caller must Release the lease, typically with defer.
func (p *ObjectPool[T]) Get(ctx context.Context) (*Lease[T], error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire pooled object: %w", err)
	}

	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		v := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return &Lease[T]{pool: p, value: v}, nil
	}
	p.mu.Unlock()

	// Holding a permit guarantees fewer than capacity objects are out.
	defer func() {
		if r := recover(); r != nil {
			p.sem.Release(1)
			panic(r)
		}
	}()
	v := p.create()
	p.created.Add(1)
	return &Lease[T]{pool: p, value: v}, nil
}

// Created returns how many objects the pool has constructed.
func (p *ObjectPool[T]) Created() int {
	return int(p.created.Load())
}

// Idle returns how many constructed objects are waiting to be borrowed.
func (p *ObjectPool[T]) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

func (p *ObjectPool[T]) put(v T) {
	p.mu.Lock()
	p.idle = append(p.idle, v)
	p.mu.Unlock()
	p.sem.Release(1)
}

// Lease is an exclusive borrow of a pooled object.
type Lease[T any] struct {
	pool     *ObjectPool[T]
	value    T
	released atomic.Bool
}

// Value returns the borrowed object. It must not be used after Release.
func (l *Lease[T]) Value() T {
	return l.value
}

// Release returns the object to its pool. Extra calls are no-ops.
func (l *Lease[T]) Release() {
	if l.released.Swap(true) {
		return
	}
	l.pool.put(l.value)
}
