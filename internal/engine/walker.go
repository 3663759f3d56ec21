package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/time/rate"
)

// WalkFunc is the override contract for applications that enumerate from a
// non-filesystem source (the comparator walks database rows instead). It
// must call emit once per item; the engine counts each emitted item as
// indexed and takes care of closing the items channel once WalkFunc
// returns, under every exit path.
type WalkFunc func(ctx context.Context, emit func(item any) error) error

// defaultFilesystemWalk enumerates root depth-first, pre-order, with each
// directory's entries sorted — matching the reference walker's
// os.walk + sorted(files) behavior. Non-regular and zero-size entries are
// counted as skipped and dropped; a stat error on one entry is logged and
// skipped without aborting the run.
func defaultFilesystemWalk(root string, counters *Counters, limiter *rate.Limiter, logger *slog.Logger) WalkFunc {
	return func(ctx context.Context, emit func(item any) error) error {
		return walkDir(ctx, root, counters, limiter, logger, emit)
	}
}

func walkDir(ctx context.Context, dir string, counters *Counters, limiter *rate.Limiter, logger *slog.Logger, emit func(any) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("cannot read directory, skipping", "dir", dir, "err", err)
		return nil
	}

	files := make([]os.DirEntry, 0, len(entries))
	dirs := make([]os.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })

	for _, e := range files {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		full := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			logger.Warn("stat failed, skipping", "path", full, "err", err)
			counters.Skipped.Add(1)
			continue
		}
		if !info.Mode().IsRegular() {
			logger.Info("skipped, not a regular file", "path", full)
			counters.Skipped.Add(1)
			continue
		}
		if info.Size() == 0 {
			logger.Info("skipped, size 0", "path", full)
			counters.Skipped.Add(1)
			continue
		}

		counters.Indexed.Add(1)
		if err := emit(full); err != nil {
			return err
		}
	}

	for _, d := range dirs {
		if err := walkDir(ctx, filepath.Join(dir, d.Name()), counters, limiter, logger, emit); err != nil {
			return err
		}
	}
	return nil
}
