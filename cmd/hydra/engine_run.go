package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/progress"
)

// baseContext returns a context cancelled on SIGINT/SIGTERM, so a worker
// mid-Work observes ctx.Done() and breaks its loop cleanly instead of the
// process dying mid-commit.
func baseContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// buildEngineConfig assembles an engine.Config from the loaded cfg plus
// the root being walked, wiring the optional scan-rate limiter and a
// status line that redraws over stdout.
func buildEngineConfig(root string) engine.Config {
	var limiter *rate.Limiter
	if cfg.ScanRate > 0 {
		limiter = engine.NewWalkerRateLimiter(cfg.ScanRate)
	}

	w := progress.NewWriter(os.Stdout)
	return engine.Config{
		Root:           root,
		Workers:        cfg.Workers,
		QueueCapacity:  cfg.QueueCapacity,
		CommitInterval: cfg.CommitInterval,
		PrintInterval:  cfg.PrintInterval,
		Logger:         logger,
		RateLimiter:    limiter,
		OnStatus:       w.Render,
	}
}

// finishStatus writes the trailing newline after the last status redraw,
// so the final line survives once the command exits.
func finishStatus() {
	progress.NewWriter(os.Stdout).Finish()
}

// runEngine drives one engine.Run with no main-return channel, for
// applications that only stage results into a database.
func runEngine[T any](ctx context.Context, root string, cap engine.Capability[T]) (engine.Result, error) {
	defer finishStatus()
	return engine.Run(ctx, buildEngineConfig(root), cap, nil)
}

// runEngineWithMain is runEngine for applications that surface decisions
// on a MainChannel for the supervisor to act on afterwards.
func runEngineWithMain[T any](ctx context.Context, root string, cap engine.Capability[T], main *engine.MainChannel) (engine.Result, error) {
	defer finishStatus()
	return engine.Run(ctx, buildEngineConfig(root), cap, main)
}

// ensureDir creates dir (and parents) if it doesn't already exist.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
