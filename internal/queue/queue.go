// Package queue provides a bounded FIFO task scheduler: at most Limit
// submitted work items run at once and waiting items start in arrival order.
package queue

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/bamsammich/ferry/internal/deferred"
)

const (
	// DefaultLimit is the concurrency used for generic queueing.
	DefaultLimit = 4

	// FSLimit is the concurrency used for filesystem primitives. They are
	// I/O bound, so many more may be in flight than CPU-bound work.
	FSLimit = 30
)

type taskState int

const (
	pending taskState = iota
	running
	done
)

// task is owned by the queue from Submit until its handle is completed.
type task struct {
	work   func() (any, error)
	handle *deferred.Handle[any]
	state  taskState
}

// Stats is a point-in-time view of a queue.
type Stats struct {
	Limit       int
	Running     int
	Pending     int
	Submitted   int64
	Completed   int64
	Failed      int64
	PeakRunning int
}

// Queue admits at most limit concurrently running work items. Excess items
// wait in submission order. A failing item only fails its own handle.
type Queue struct {
	mu      sync.Mutex
	items   *list.List // of *task, in submission order; done items are removed
	limit   int
	running int
	stats   Stats
}

// New creates a queue. A limit below 1 is treated as 1.
func New(limit int) *Queue {
	if limit < 1 {
		limit = 1
	}
	return &Queue{
		items: list.New(),
		limit: limit,
	}
}

// Limit returns the maximum number of concurrently running items.
func (q *Queue) Limit() int { return q.limit }

// Submit enqueues work and returns its completion handle. Submit never
// fails; errors from work (including panics) surface through the handle.
func (q *Queue) Submit(work func() (any, error)) *deferred.Handle[any] {
	t := &task{work: work, handle: deferred.New[any]()}

	q.mu.Lock()
	q.items.PushBack(t)
	q.stats.Submitted++
	startable := q.schedule()
	q.mu.Unlock()

	q.start(startable)
	return t.handle
}

// Stats returns current counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.stats
	s.Limit = q.limit
	s.Running = q.running
	s.Pending = q.items.Len() - q.running
	return s
}

// schedule marks as many pending items running as fit under the limit and
// returns them. Callers must hold q.mu and start the returned tasks after
// unlocking.
func (q *Queue) schedule() []*list.Element {
	var startable []*list.Element
	for e := q.items.Front(); e != nil && q.running < q.limit; e = e.Next() {
		t := e.Value.(*task) //nolint:forcetypeassert // list only holds *task
		if t.state != pending {
			continue
		}
		t.state = running
		q.running++
		startable = append(startable, e)
	}
	if q.running > q.stats.PeakRunning {
		q.stats.PeakRunning = q.running
	}
	return startable
}

func (q *Queue) start(elems []*list.Element) {
	for _, e := range elems {
		go q.run(e)
	}
}

func (q *Queue) run(e *list.Element) {
	t := e.Value.(*task) //nolint:forcetypeassert // list only holds *task
	v, err := invoke(t.work)
	_ = t.handle.Complete(v, err) //nolint:errcheck // the queue is the only writer

	q.mu.Lock()
	t.state = done
	q.items.Remove(e)
	q.running--
	q.stats.Completed++
	if err != nil {
		q.stats.Failed++
	}
	startable := q.schedule()
	q.mu.Unlock()

	q.start(startable)
}

// invoke runs work, converting a panic into an error so one bad item cannot
// take down the scheduler or leave its slot occupied.
func invoke(work func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queued work panicked: %v", r)
		}
	}()
	return work()
}

// Go submits typed work to q and returns a typed handle.
func Go[T any](q *Queue, work func() (T, error)) *deferred.Handle[T] {
	h := deferred.New[T]()
	q.Submit(func() (any, error) {
		v, err := invoke(func() (any, error) { return work() })
		typed, _ := v.(T)          // v is nil after a panic
		_ = h.Complete(typed, err) //nolint:errcheck // sole writer
		return v, err
	})
	return h
}

// Do submits work to q and waits for its result. If ctx ends first, Do
// returns ctx.Err() while the work still runs to completion.
func Do[T any](ctx context.Context, q *Queue, work func() (T, error)) (T, error) {
	return Go(q, work).Wait(ctx)
}

// Limit wraps fn so that every call is scheduled on q.
func Limit[A, T any](q *Queue, fn func(A) (T, error)) func(A) *deferred.Handle[T] {
	return func(arg A) *deferred.Handle[T] {
		return Go(q, func() (T, error) { return fn(arg) })
	}
}
