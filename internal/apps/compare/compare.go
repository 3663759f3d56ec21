// Package compare implements the cross-database comparator, grounded on
// original_source/hydra_comparedb.py: walk a source database's rows
// instead of a filesystem, and report every row whose hash is missing
// from a target database snapshot.
package compare

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/axcxl/hydra/internal/database"
	"github.com/axcxl/hydra/internal/engine"
)

// Result is one row's outcome against the target snapshot.
type Result struct {
	Found bool
	Row   database.FileRow
}

// Missing is a main-return payload for one row absent from the target.
type Missing struct {
	Path string
	Hash string
	Size int64
}

// App walks a source database and checks each row's hash against a
// per-worker snapshot of a target database.
type App struct {
	sourceDB *sql.DB
	target   string

	snapshots []*database.Snapshot
	reported  map[string]bool
	pending   []Missing
	main      *engine.MainChannel
	logger    *slog.Logger
}

// New opens sourcePath read-only and builds the comparator Capability.
// targetPath is snapshotted once per worker in Init.
func New(sourcePath, targetPath string, workers int, logger *slog.Logger) (*App, engine.Capability[Result], error) {
	src, err := database.OpenReadOnly(sourcePath)
	if err != nil {
		return nil, engine.Capability[Result]{}, err
	}

	app := &App{
		sourceDB:  src,
		target:    targetPath,
		snapshots: make([]*database.Snapshot, workers),
		reported:  make(map[string]bool),
		main:      engine.NewMainChannel(256),
		logger:    logger,
	}

	cap := engine.Capability[Result]{
		Walk:     app.walk,
		Init:     app.initWorker,
		Work:     app.work,
		DBInsert: app.insert,
		DBCommit: app.commit,
	}
	return app, cap, nil
}

// Main exposes the main-return channel.
func (a *App) Main() *engine.MainChannel { return a.main }

// Close releases the source database handle and every worker's snapshot.
func (a *App) Close() {
	_ = a.sourceDB.Close()
	for _, s := range a.snapshots {
		if s != nil {
			_ = s.Close()
		}
	}
}

func (a *App) walk(ctx context.Context, emit func(item any) error) error {
	return database.WalkRows(ctx, a.sourceDB, func(row database.FileRow) error {
		return emit(row)
	})
}

func (a *App) initWorker(workerIndex int) error {
	snap, err := database.OpenSnapshot(context.Background(), a.target)
	if err != nil {
		return fmt.Errorf("worker %d: %w", workerIndex, err)
	}
	a.snapshots[workerIndex] = snap
	return nil
}

func (a *App) work(workerIndex int, item any) (Result, bool, error) {
	row := item.(database.FileRow)
	found, err := a.snapshots[workerIndex].FindByHash(row.Hash)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Found: found, Row: row}, true, nil
}

func (a *App) insert(rec engine.ItemMsg[Result]) error {
	if !rec.Result.Found {
		row := rec.Result.Row
		a.logger.Warn("row missing from target database", "path", row.Path, "hash", row.Hash)
		if !a.reported[row.Path] {
			a.pending = append(a.pending, Missing{Path: row.Path, Hash: row.Hash, Size: row.Size})
		}
	}
	return nil
}

func (a *App) commit() error {
	if len(a.pending) == 0 {
		return nil
	}
	batch := a.pending
	a.pending = nil

	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	for _, m := range batch {
		a.reported[m.Path] = true
		if err := a.main.Push(context.Background(), m); err != nil {
			return err
		}
	}
	return nil
}
