package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axcxl/hydra/internal/logging"
)

// Result is returned by Run once every stage has terminated: the final
// counters (for callers that want to print a summary) and whatever the
// application pushed onto the main-return channel from DBCommit.
type Result struct {
	Counters *Counters
	MainData []any
}

// Run executes one full engine pass: startup → status_loop → drain_loop →
// caller-driven post-processing. Run itself does not prompt the user or
// perform destructive actions — that is left to the application, which
// reads Result.MainData after Run returns, per the invariant that
// post-processing only begins once the librarian has exited.
func Run[T any](ctx context.Context, cfg Config, cap Capability[T], main *MainChannel) (Result, error) {
	logger := cfg.logger()
	n := cfg.workers()
	counters := NewCounters(n)

	items := NewQueue[any](cfg.queueCapacity())
	results := NewQueue[QueueMsg[T]](cfg.queueCapacity())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fatalOnce sync.Once
	var fatalErr error
	fatal := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancel()
		})
	}

	// Walker: closes items under every exit path, so workers can never
	// block forever on Get even if the walker itself fails or is
	// cancelled.
	walkFn := cap.Walk
	if walkFn == nil {
		walkFn = defaultFilesystemWalk(cfg.Root, counters, cfg.RateLimiter, logger.With(logging.Func("runWalker")))
	} else {
		// An override walk has no access to the counters, so every item it
		// emits is counted as indexed here.
		override := walkFn
		walkFn = func(ctx context.Context, emit func(item any) error) error {
			return override(ctx, func(item any) error {
				counters.Indexed.Add(1)
				return emit(item)
			})
		}
	}
	var walkErr error
	walkerDone := make(chan struct{})
	go func() {
		defer close(walkerDone)
		defer items.Close()
		if err := walkFn(runCtx, func(item any) error {
			return items.Put(runCtx, item)
		}); err != nil && Classify(err) != SeverityInterrupt {
			walkErr = err
		}
	}()

	// Worker pool.
	var workersWG sync.WaitGroup
	workersWG.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer workersWG.Done()
			runWorker(runCtx, idx, items, results, counters, cap, logger.With(logging.Func("runWorker")), fatal)
		}(i)
	}

	// Librarian.
	var librarianErr error
	librarianDone := make(chan struct{})
	go func() {
		defer close(librarianDone)
		librarianErr = runLibrarian(results, n, counters, cap, logger.With(logging.Func("runLibrarian")))
		main.Close()
	}()

	// Commit ticker.
	stopTicker := make(chan struct{})
	go runCommitTicker(runCtx, cfg.commitInterval(), results, stopTicker)

	// Status loop: redraws progress, drains the main-return channel, and
	// watches for all workers to exit.
	var mainData []any
	workersExited := make(chan struct{})
	go func() {
		workersWG.Wait()
		close(workersExited)
	}()

	statusTicker := time.NewTicker(cfg.printInterval())
	defer statusTicker.Stop()

statusLoop:
	for {
		select {
		case <-statusTicker.C:
			main.DrainAll(&mainData)
			if cfg.OnStatus != nil {
				cfg.OnStatus(counters.Snapshot())
			}
		case <-workersExited:
			main.DrainAll(&mainData)
			break statusLoop
		}
	}

	close(stopTicker)
	<-walkerDone

	// Librarian-drain loop: the librarian may still be processing (a
	// heavy DBCommit), so it is joined independently of the workers.
	for {
		select {
		case <-librarianDone:
			main.DrainAll(&mainData)
			goto done
		case <-time.After(cfg.printInterval()):
			main.DrainAll(&mainData)
		}
	}

done:
	if fatalErr != nil {
		return Result{Counters: counters, MainData: mainData}, fatalErr
	}
	if walkErr != nil {
		return Result{Counters: counters, MainData: mainData}, fmt.Errorf("walker: %w", walkErr)
	}
	if librarianErr != nil {
		return Result{Counters: counters, MainData: mainData}, fmt.Errorf("librarian: %w", librarianErr)
	}
	return Result{Counters: counters, MainData: mainData}, nil
}
