package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// runWorker drives one worker's lifecycle: init → running → draining → done.
// It always emits exactly one WorkerDoneMsg on exit, regardless of which
// path it took to get there, so the librarian's N-count is never short.
func runWorker[T any](ctx context.Context, idx int, items *Queue[any], results *Queue[QueueMsg[T]], counters *Counters, cap Capability[T], logger *slog.Logger, fatal func(error)) {
	defer func() {
		// Worker-done is sent on a background context: the engine must
		// never drop this signal even if ctx is already cancelled,
		// otherwise the librarian would block forever.
		_ = results.Put(context.Background(), QueueMsg[T](WorkerDoneMsg[T]{Worker: idx}))
	}()

	if cap.Init != nil {
		if err := cap.Init(idx); err != nil {
			logger.Error("worker init failed, aborting run", "worker", idx, "err", err)
			fatal(fmt.Errorf("worker %d init: %w", idx, err))
			return
		}
	}
	logger.Debug("worker init done", "worker", idx)

	for {
		item, ok, err := items.Get(ctx)
		if err != nil {
			logger.Info("worker stopped by interrupt", "worker", idx)
			return
		}
		if !ok {
			break
		}

		if cap.Validate != nil && !cap.Validate(item) {
			logger.Debug("item failed validation, skipping", "worker", idx, "item", fmt.Sprint(item))
			counters.Skipped.Add(1)
			continue
		}

		result, emit, werr := safeWork(cap.Work, idx, item)
		if werr != nil {
			switch Classify(werr) {
			case SeverityIgnorable:
				logger.Warn("skipping item", "worker", idx, "item", fmt.Sprint(item), "err", werr)
			case SeverityInterrupt:
				logger.Info("worker stopped by interrupt", "worker", idx, "item", fmt.Sprint(item))
				return
			default:
				logger.Error("error processing item", "worker", idx, "item", fmt.Sprint(item), "err", werr)
			}
			continue
		}
		if !emit {
			continue
		}

		counters.Processed[idx].Add(1)
		if err := results.Put(ctx, QueueMsg[T](ItemMsg[T]{Path: item, Result: result})); err != nil {
			return
		}
	}

	logger.Info("worker finished", "worker", idx, "processed", counters.Processed[idx].Load())
}

// safeWork recovers a panic from application code and turns it into the
// programmer/unknown error class, so one buggy Work implementation cannot
// take down the worker loop's termination protocol.
func safeWork[T any](work func(int, any) (T, bool, error), idx int, item any) (result T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic in work(%d, %v): %v", ErrProgrammer, idx, item, r)
		}
	}()
	return work(idx, item)
}
