// Package engine implements the three-stage producer/worker-pool/serializer
// pipeline: a walker enumerates items, a worker pool transforms them, and a
// librarian persists the results. Termination is sentinel-driven and modeled
// as a tagged variant rather than in-band magic values.
package engine

import "context"

// QueueMsg is the tagged variant flowing through the results channel.
// Exactly one of ItemMsg, CommitMsg or WorkerDoneMsg is ever produced per
// value; the unexported marker method forces every consumer to handle all
// three cases explicitly.
type QueueMsg[T any] interface {
	queueMsg()
}

// ItemMsg carries one completed unit of work from a worker to the librarian.
type ItemMsg[T any] struct {
	Path   any
	Result T
}

func (ItemMsg[T]) queueMsg() {}

// CommitMsg asks the librarian to flush its pending batch. Injected only by
// the commit ticker; the final flush at shutdown is a direct DBCommit call
// by the librarian, not a CommitMsg.
type CommitMsg[T any] struct{}

func (CommitMsg[T]) queueMsg() {}

// WorkerDoneMsg marks a worker's exit. The librarian counts these and exits
// once it has seen one per worker.
type WorkerDoneMsg[T any] struct {
	Worker int
}

func (WorkerDoneMsg[T]) queueMsg() {}

// Queue wraps a buffered Go channel with blocking Put/Get that respect
// context cancellation, matching the bounded multi-producer/multi-consumer
// queue described for the engine's items and results streams.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue with the given capacity. Capacity bounds memory
// consumption: producers are throttled by back-pressure when consumers lag.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Put blocks until there is room, or ctx is cancelled.
func (q *Queue[T]) Put(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get blocks until a value is available, the channel is closed, or ctx is
// cancelled. ok is false when the channel has been closed and drained.
func (q *Queue[T]) Get(ctx context.Context) (v T, ok bool, err error) {
	select {
	case v, ok = <-q.ch:
		return v, ok, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// Len reports the number of values currently buffered (a non-blocking
// hint only, per the bounded-queue contract).
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Close closes the underlying channel. Safe to call at most once.
func (q *Queue[T]) Close() {
	close(q.ch)
}

// Chan exposes the underlying channel for range-based consumption, used by
// the worker and librarian loops.
func (q *Queue[T]) Chan() <-chan T {
	return q.ch
}
