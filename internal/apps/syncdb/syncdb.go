// Package syncdb implements the sync-to-reference-database application,
// grounded on original_source/hydra_synctodb.py: hash each file, look it
// up by hash+basename in a reference database snapshot, and copy it onto
// the local tree at a path rebased from a shared anchor folder. The
// original's db_insert performs the mkdir+copy synchronously with no
// queue-to-main detour at all, so this keeps the same shape instead of
// collecting decisions for a supervisor to act on afterwards.
package syncdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/axcxl/hydra/internal/database"
	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/hashing"
)

// Result is one file's lookup outcome against the reference snapshot.
type Result struct {
	Hash      string
	Found     bool
	Reference database.ReferenceHit
}

// App wires a hasher and a per-worker reference snapshot into a
// Capability. Each worker opens its own Snapshot in Init, matching the
// engine's Init-before-Get contract so lookups never race the backup.
// DBInsert does the actual mkdir+copy, serially, in the librarian
// goroutine, mirroring the original's synchronous db_insert.
type App struct {
	hasher        *hashing.Hasher
	referencePath string
	anchor        string
	destRoot      string
	dryRun        bool
	logger        *slog.Logger

	snapshots []*database.Snapshot

	moved     int
	skipped   int
	unmatched int
}

// New builds the sync-to-db Capability. referencePath is the reference
// SQLite database to snapshot per worker; anchor is the path segment
// shared between reference paths and destRoot (e.g. "Pictures"), used to
// rebase a matched reference path onto the local tree.
func New(hashAlgo, referencePath, anchor, destRoot string, workers int, dryRun bool, logger *slog.Logger) (*App, engine.Capability[Result]) {
	app := &App{
		hasher:        hashing.New(hashAlgo),
		referencePath: referencePath,
		anchor:        anchor,
		destRoot:      destRoot,
		dryRun:        dryRun,
		logger:        logger,
		snapshots:     make([]*database.Snapshot, workers),
	}

	cap := engine.Capability[Result]{
		Init:     app.initWorker,
		Work:     app.work,
		DBInsert: app.insert,
		DBCommit: app.commit,
	}
	return app, cap
}

// Stats summarizes one run's outcome, read back by the CLI after Run
// returns (insert/commit run single-threaded on the librarian goroutine,
// so no synchronization is needed to read it afterwards).
type Stats struct {
	Moved     int
	Skipped   int
	Unmatched int
}

func (a *App) Stats() Stats {
	return Stats{Moved: a.moved, Skipped: a.skipped, Unmatched: a.unmatched}
}

// Close releases every worker's reference snapshot. Call after Run
// returns.
func (a *App) Close() {
	for _, s := range a.snapshots {
		if s != nil {
			_ = s.Close()
		}
	}
}

func (a *App) initWorker(workerIndex int) error {
	snap, err := database.OpenSnapshot(context.Background(), a.referencePath)
	if err != nil {
		return fmt.Errorf("worker %d: %w", workerIndex, err)
	}
	a.snapshots[workerIndex] = snap
	return nil
}

func (a *App) work(workerIndex int, item any) (Result, bool, error) {
	path := item.(string)

	hash, err := a.hasher.HashFile(path)
	if err != nil {
		return Result{}, false, err
	}

	hit, found, err := a.snapshots[workerIndex].FindByHashAndBasename(hash, filepath.Base(path))
	if err != nil {
		return Result{}, false, err
	}
	return Result{Hash: hash, Found: found, Reference: hit}, true, nil
}

// insert mirrors the original's db_insert: a miss only bumps the unmatched
// count, a hit gets its target folder created (unless dry-run) and the
// file copied there directly.
func (a *App) insert(rec engine.ItemMsg[Result]) error {
	path := rec.Path.(string)
	if !rec.Result.Found {
		a.unmatched++
		return nil
	}

	dest := a.rebase(rec.Result.Reference.Path)
	if a.dryRun {
		a.logger.Info("would copy", "path", path, "dest", dest)
		a.moved++
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		a.logger.Warn("failed to create target folder", "dir", filepath.Dir(dest), "err", err)
		a.skipped++
		return nil
	}
	if err := copyFile(path, dest); err != nil {
		a.logger.Warn("failed to copy file", "path", path, "dest", dest, "err", err)
		a.skipped++
		return nil
	}

	a.logger.Info("copied", "path", path, "dest", dest)
	a.moved++
	return nil
}

// commit logs the running total, the extent of the original's db_commit.
func (a *App) commit() error {
	a.logger.Info("sync progress", "moved", a.moved, "skipped", a.skipped, "unmatched", a.unmatched)
	return nil
}

// rebase takes the portion of referencePath after the anchor segment
// (the anchor itself excluded) and joins it onto destRoot, reproducing
// the original's "find anchor folder, keep everything after it" rebasing
// logic. Without an anchor segment, only the basename is kept.
func (a *App) rebase(referencePath string) string {
	parts := strings.Split(filepath.ToSlash(referencePath), "/")
	for i, p := range parts {
		if p == a.anchor {
			tail := filepath.Join(parts[i+1:]...)
			return filepath.Join(a.destRoot, tail)
		}
	}
	return filepath.Join(a.destRoot, filepath.Base(referencePath))
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
