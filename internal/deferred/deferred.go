// Package deferred provides a single-assignment result cell that bridges
// work running on another goroutine to any number of waiters.
package deferred

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyCompleted is returned by Complete-style calls made after the
// handle has already been resolved or rejected.
var ErrAlreadyCompleted = errors.New("deferred: handle already completed")

// Handle is a one-shot result cell. It starts empty, is completed exactly
// once with a value or an error, and can be observed any number of times.
// The zero value is not usable; create handles with New.
type Handle[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// New returns an empty handle.
func New[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// Resolved returns a handle already completed with v.
func Resolved[T any](v T) *Handle[T] {
	h := New[T]()
	_ = h.Resolve(v) //nolint:errcheck // fresh handle
	return h
}

// Rejected returns a handle already completed with err.
func Rejected[T any](err error) *Handle[T] {
	h := New[T]()
	_ = h.Reject(err) //nolint:errcheck // fresh handle
	return h
}

// Complete stores v and err and wakes every waiter. Only the first call has
// any effect; later calls return ErrAlreadyCompleted.
func (h *Handle[T]) Complete(v T, err error) error {
	completed := false
	h.once.Do(func() {
		h.val = v
		h.err = err
		close(h.done)
		completed = true
	})
	if !completed {
		return ErrAlreadyCompleted
	}
	return nil
}

// Resolve completes the handle successfully.
func (h *Handle[T]) Resolve(v T) error {
	return h.Complete(v, nil)
}

// Reject completes the handle with err. A nil err is replaced so that a
// rejected handle is never observed as successful.
func (h *Handle[T]) Reject(err error) error {
	if err == nil {
		err = errors.New("deferred: rejected with nil error")
	}
	var zero T
	return h.Complete(zero, err)
}

// Done returns a channel closed once the handle is completed.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the handle is completed or ctx is done. Giving up on the
// wait does not affect the work that will eventually complete the handle.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.val, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the result without blocking. ok is false while the handle is
// still empty.
func (h *Handle[T]) Peek() (v T, err error, ok bool) {
	select {
	case <-h.done:
		return h.val, h.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Subscribe calls fn with the result once the handle completes. fn runs on
// its own goroutine, so it may be registered before or after completion.
func (h *Handle[T]) Subscribe(fn func(T, error)) {
	go func() {
		<-h.done
		fn(h.val, h.err)
	}()
}
