// Package rename implements the rename-to-capture-time application,
// grounded on original_source/hydra_renametotime.py. Unlike the original
// (whose shutil.move call was commented out, leaving the rename a no-op),
// this implementation performs the rename once the supervisor confirms it.
package rename

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/exif"
)

// Result is the derived new basename for one file, "HHMMSS.ext" from EXIF
// capture time, or "000000.ext" when no EXIF time is available.
type Result struct {
	NewName string
}

// Decision is one (source path, new name) pair pushed to the main-return
// channel, sorted by source path as the original's sorted dict was.
type Decision struct {
	Path    string
	NewName string
}

// App accumulates the librarian-side rename mapping.
type App struct {
	mapping map[string]Result
	main    *engine.MainChannel
}

// New builds the rename Capability.
func New() (*App, engine.Capability[Result]) {
	app := &App{
		mapping: make(map[string]Result),
		main:    engine.NewMainChannel(256),
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

const noTimeName = "000000"

func (a *App) work(_ int, item any) (Result, bool, error) {
	path := item.(string)
	ext := filepath.Ext(path)

	tags, err := exif.Extract(path)
	if err != nil {
		return Result{NewName: noTimeName + ext}, true, nil
	}
	t, err := tags.CaptureTime()
	if err != nil {
		return Result{NewName: noTimeName + ext}, true, nil
	}
	return Result{NewName: t.Format("150405") + ext}, true, nil
}

func (a *App) insert(rec engine.ItemMsg[Result]) error {
	a.mapping[rec.Path.(string)] = rec.Result
	return nil
}

func (a *App) commit() error {
	paths := make([]string, 0, len(a.mapping))
	for p := range a.mapping {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		d := Decision{Path: p, NewName: a.mapping[p].NewName}
		if err := a.main.Push(context.Background(), d); err != nil {
			return err
		}
	}
	return nil
}

// Apply performs the actual rename within the same directory as path,
// appending "_1", "_2", ... before the extension on collision. It returns
// the final path used.
func Apply(path, newName string) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(newName)
	stem := newName[:len(newName)-len(ext)]

	dest := filepath.Join(dir, newName)
	for n := 1; ; n++ {
		if dest == path {
			return path, nil
		}
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", err
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
