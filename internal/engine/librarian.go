package engine

import (
	"fmt"
	"log/slog"
)

// runLibrarian is the single-threaded serializer: idle → accepting →
// final_flush → done. It exits after observing n WorkerDoneMsg values,
// then issues one final DBCommit, matching the original's "commit on
// command or once at the end" contract.
func runLibrarian[T any](results *Queue[QueueMsg[T]], n int, counters *Counters, cap Capability[T], logger *slog.Logger) error {
	logger.Debug("librarian started")

	workersDone := 0
	for msg := range results.Chan() {
		switch m := msg.(type) {
		case WorkerDoneMsg[T]:
			workersDone++
			logger.Debug("worker reported done", "worker", m.Worker, "seen", workersDone, "of", n)
			if workersDone == n {
				goto finalFlush
			}
		case CommitMsg[T]:
			if err := cap.DBCommit(); err != nil {
				logger.Error("commit failed", "err", err)
			}
		case ItemMsg[T]:
			if err := cap.DBInsert(m); err != nil {
				logger.Error("insert failed", "path", fmt.Sprint(m.Path), "err", err)
				continue
			}
			counters.Logged.Add(1)
		}
	}

finalFlush:
	if err := cap.DBCommit(); err != nil {
		logger.Error("final commit failed", "err", err)
		return fmt.Errorf("final commit: %w", err)
	}
	logger.Info("librarian finished", "logged", counters.Logged.Load())
	return nil
}
