package engine

import (
	"context"
	"time"
)

// runCommitTicker pushes a CommitMsg onto results every interval until
// stop is closed. It self-reschedules via time.Ticker and is always
// stopped by the supervisor before the librarian is joined.
func runCommitTicker[T any](ctx context.Context, interval time.Duration, results *Queue[QueueMsg[T]], stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = results.Put(ctx, QueueMsg[T](CommitMsg[T]{}))
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
