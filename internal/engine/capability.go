package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Capability is the explicit function-value plugin set every application
// supplies to the engine, replacing the original's subclass-and-override
// model. The engine only ever calls through these five fields — it has no
// knowledge of which application it is driving.
type Capability[T any] struct {
	// Walk overrides filesystem enumeration (used only by the comparator,
	// which walks database rows). Nil means "walk Config.Root".
	Walk WalkFunc

	// Init runs once per worker, before that worker's receive loop starts.
	// The engine guarantees Init has returned before the worker's first
	// Work call. A non-nil error here is fatal and aborts the run.
	Init func(workerIndex int) error

	// Validate runs before Work, still inside the worker goroutine. For
	// path-typed items this is typically a stat + regular-file check. A
	// false return silently skips the item (counted, not logged as an
	// error) without ever calling Work. Nil means every item is valid.
	Validate func(item any) bool

	// Work transforms one item. ok=false means the application handled
	// (and logged) the item itself and no result should be emitted. A
	// non-nil err is classified via Classify and logged; no result is
	// emitted either way when err != nil.
	Work func(workerIndex int, item any) (result T, ok bool, err error)

	// DBInsert persists one result record, serially, in the librarian
	// goroutine. Called at most once per item.
	DBInsert func(record ItemMsg[T]) error

	// DBCommit flushes whatever DBInsert has staged. Called on every
	// commit tick and exactly once more at shutdown. Must tolerate being
	// called with nothing staged.
	DBCommit func() error
}

// Config configures one engine run.
type Config struct {
	Root           string
	Workers        int
	QueueCapacity  int
	CommitInterval time.Duration
	PrintInterval  time.Duration
	Logger         *slog.Logger
	// RateLimiter, if non-nil, throttles the default filesystem walker's
	// per-file stat calls. An overriding Walk is not throttled.
	RateLimiter *rate.Limiter
	// OnStatus, if non-nil, is invoked roughly once per PrintInterval with
	// a progress snapshot, so callers can render a status line or bar.
	OnStatus func(Snapshot)
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

func (c Config) queueCapacity() int {
	if c.QueueCapacity <= 0 {
		return 2048
	}
	return c.QueueCapacity
}

func (c Config) commitInterval() time.Duration {
	if c.CommitInterval <= 0 {
		return 5 * time.Second
	}
	return c.CommitInterval
}

func (c Config) printInterval() time.Duration {
	if c.PrintInterval <= 0 {
		return time.Second
	}
	return c.PrintInterval
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// MainChannel is the librarian-to-supervisor channel described in §4.7,
// used by dedup, date-mover, rename and the comparator to surface
// per-item decisions for interactive post-processing. It is only ever
// written to from DBCommit (single-threaded, in the librarian goroutine)
// and only ever read from the supervisor.
type MainChannel struct {
	ch chan any
}

// NewMainChannel allocates a MainChannel with the given buffer.
func NewMainChannel(capacity int) *MainChannel {
	return &MainChannel{ch: make(chan any, capacity)}
}

// Push sends one payload. Safe to call from DBCommit; never blocks the
// supervisor's draining loop since it is a simple buffered send.
func (m *MainChannel) Push(ctx context.Context, v any) error {
	if m == nil {
		return nil
	}
	select {
	case m.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrainAll drains every currently buffered value without blocking, per the
// supervisor's non-blocking-read contract.
func (m *MainChannel) DrainAll(into *[]any) {
	if m == nil {
		return
	}
	for {
		select {
		case v, ok := <-m.ch:
			if !ok {
				return
			}
			*into = append(*into, v)
		default:
			return
		}
	}
}

// Close closes the channel. Called once, by the librarian, after its final
// DBCommit.
func (m *MainChannel) Close() {
	if m != nil {
		close(m.ch)
	}
}

// Chan exposes the underlying channel for callers (tests, or a consumer
// that wants to range over payloads directly instead of via DrainAll).
func (m *MainChannel) Chan() <-chan any {
	return m.ch
}
