// Package index implements the content indexer, grounded on
// original_source/hydra_indexfiles.py: hash + size + date + EXIF per file,
// staged into SQLite via the librarian.
package index

import (
	"fmt"
	"os"
	"time"

	"github.com/axcxl/hydra/internal/database"
	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/exif"
	"github.com/axcxl/hydra/internal/hashing"
)

// Result is what Work returns for one file: the content hash plus whatever
// EXIF the file carries.
type Result struct {
	Hash string
	Size int64
	Date string
	Tags exif.Tags
}

// App wires a hasher and an output database into an engine.Capability.
type App struct {
	hasher *hashing.Hasher
	db     *database.DB
}

// New opens dbPath (creating files_<stamp>.db's schema) and returns the
// index Capability.
func New(hashAlgo, dbPath string) (*App, engine.Capability[Result], error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, engine.Capability[Result]{}, fmt.Errorf("open index db: %w", err)
	}

	app := &App{hasher: hashing.New(hashAlgo), db: db}

	cap := engine.Capability[Result]{
		Work:     app.work,
		DBInsert: app.insert,
		DBCommit: app.db.Commit,
	}
	return app, cap, nil
}

// DB exposes the underlying database for callers that need RowCount or
// Close after the engine run finishes.
func (a *App) DB() *database.DB { return a.db }

func (a *App) work(_ int, item any) (Result, bool, error) {
	path := item.(string)

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, false, err
	}

	hash, err := a.hasher.HashFile(path)
	if err != nil {
		return Result{}, false, err
	}

	tags, err := exif.Extract(path)
	if err != nil {
		return Result{}, false, err
	}

	date := info.ModTime().Format(time.RFC3339)
	if t, terr := tags.CaptureTime(); terr == nil {
		date = t.Format(time.RFC3339)
	}

	return Result{
		Hash: hash,
		Size: info.Size(),
		Date: date,
		Tags: tags,
	}, true, nil
}

func (a *App) insert(rec engine.ItemMsg[Result]) error {
	r := rec.Result
	row := database.FileRow{
		Path:        rec.Path.(string),
		Hash:        r.Hash,
		Size:        r.Size,
		Date:        r.Date,
		Camera:      r.Tags.Camera,
		Lens:        r.Tags.Lens,
		ExpTime:     r.Tags.ExposureTime,
		ExpFNum:     r.Tags.FNumber,
		ExpISO:      r.Tags.ISOSpeedRatings,
		FocalLength: r.Tags.FocalLength,
		Flash:       r.Tags.Flash,
	}
	return a.db.InsertFile(row)
}
