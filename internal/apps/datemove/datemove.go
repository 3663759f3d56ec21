// Package datemove implements the date-folder relocation application,
// grounded on original_source/hydra_movetodatefolder.py: derive a
// YYYYMMDD key per file (from EXIF, then mtime, with an ambiguity pair
// when --similar finds a same-named file already moved, or a prior EXIF
// date exists for the same worker), then copy files into
// <destination>/<YYYYMMDD>/ with collision suffixes.
package datemove

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/exif"
)

// Result is one file's derived date key, or an ambiguity pair requiring
// the supervisor to ask the user which one to use.
type Result struct {
	FromMtime string
	Ambiguous bool
	Alt       string // FromSimilar or LastExif, only meaningful when Ambiguous
}

// Decision is the main-return payload: one (path, resolved-or-pending)
// pair, sorted by path, matching the original's single sorted-dict push
// from db_commit.
type Decision struct {
	Path      string
	FromMtime string
	Ambiguous bool
	Alt       string
}

// App holds per-worker "last EXIF date seen" state (exactly one worker
// goroutine ever touches each slot, so no lock is needed) and the
// librarian-side accumulated mapping.
type App struct {
	destination string
	similar     bool
	lastExif    []string
	decisions   map[string]Result
	main        *engine.MainChannel
}

// New builds the date-mover Capability. workers must match the engine
// pool size so each worker has its own lastExif slot.
func New(destination string, similar bool, workers int) (*App, engine.Capability[Result]) {
	app := &App{
		destination: destination,
		similar:     similar,
		lastExif:    make([]string, workers),
		decisions:   make(map[string]Result),
		main:        engine.NewMainChannel(256),
	}

	cap := engine.Capability[Result]{
		Work:     app.work,
		DBInsert: app.insert,
		DBCommit: app.commit,
	}
	return app, cap
}

// Main exposes the main-return channel.
func (a *App) Main() *engine.MainChannel { return a.main }

func (a *App) work(workerIndex int, item any) (Result, bool, error) {
	path := item.(string)

	if tags, err := exif.Extract(path); err == nil {
		if t, err := tags.CaptureTime(); err == nil {
			date := t.Format("20060102")
			a.lastExif[workerIndex] = date
			return Result{FromMtime: date}, true, nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, false, err
	}
	mtimeDate := info.ModTime().Format("20060102")

	if a.similar {
		if simDate, found := a.findSimilar(path); found && simDate != mtimeDate {
			return Result{FromMtime: mtimeDate, Ambiguous: true, Alt: simDate}, true, nil
		}
		return Result{FromMtime: mtimeDate}, true, nil
	}

	if last := a.lastExif[workerIndex]; last != "" && last != mtimeDate {
		return Result{FromMtime: mtimeDate, Ambiguous: true, Alt: last}, true, nil
	}

	return Result{FromMtime: mtimeDate}, true, nil
}

// findSimilar looks for a same-named file already moved under any
// <destination>/<date>/ folder, the worker-local cheap stand-in for the
// original's "look_for_similar" destination scan.
func (a *App) findSimilar(path string) (date string, found bool) {
	base := filepath.Base(path)
	entries, err := os.ReadDir(a.destination)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(a.destination, e.Name(), base)); err == nil {
			return e.Name(), true
		}
	}
	return "", false
}

func (a *App) insert(rec engine.ItemMsg[Result]) error {
	a.decisions[rec.Path.(string)] = rec.Result
	return nil
}

func (a *App) commit() error {
	paths := make([]string, 0, len(a.decisions))
	for p := range a.decisions {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		r := a.decisions[p]
		d := Decision{Path: p, FromMtime: r.FromMtime, Ambiguous: r.Ambiguous, Alt: r.Alt}
		if err := a.main.Push(context.Background(), d); err != nil {
			return err
		}
	}
	return nil
}

// DestinationFor computes <destination>/<YYYYMMDD>/<basename>, appending
// "_1", "_2", ... to the basename (before the extension) on collision.
func DestinationFor(destination, date, sourcePath string, exists func(string) bool) string {
	dir := filepath.Join(destination, date)
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := filepath.Join(dir, base)
	for n := 1; exists(candidate); n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	return candidate
}
