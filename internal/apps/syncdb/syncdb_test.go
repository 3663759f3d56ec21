package syncdb

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/axcxl/hydra/internal/database"
	"github.com/axcxl/hydra/internal/engine"
)

func TestRebase_JoinsTailAfterAnchor(t *testing.T) {
	app := &App{anchor: "Pictures", destRoot: "/local/Pictures"}
	got := app.rebase("/mnt/ref/Pictures/2024/vacation/img.jpg")
	want := "/local/Pictures/2024/vacation/img.jpg"
	if got != want {
		t.Errorf("rebase = %s, want %s", got, want)
	}
}

func TestRebase_NoAnchorFallsBackToBasename(t *testing.T) {
	app := &App{anchor: "Pictures", destRoot: "/local/Pictures"}
	got := app.rebase("/mnt/ref/other/img.jpg")
	want := "/local/Pictures/img.jpg"
	if got != want {
		t.Errorf("rebase = %s, want %s", got, want)
	}
}

func TestInsert_CopiesMatchedFileToRebasedDest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	destRoot := filepath.Join(dir, "local")

	app := &App{
		anchor:   "Pictures",
		destRoot: destRoot,
		logger:   slog.Default(),
	}

	rec := engine.ItemMsg[Result]{
		Path: src,
		Result: Result{
			Found:     true,
			Reference: database.ReferenceHit{Path: "/mnt/ref/Pictures/a.jpg"},
		},
	}
	if err := app.insert(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	wantDest := filepath.Join(destRoot, "a.jpg")
	got, err := os.ReadFile(wantDest)
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("copied content = %q, want %q", got, "data")
	}
	if app.Stats() != (Stats{Moved: 1}) {
		t.Errorf("stats = %+v, want Moved: 1", app.Stats())
	}
}

func TestInsert_DryRunSkipsCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	destRoot := filepath.Join(dir, "local")

	app := &App{
		anchor:   "Pictures",
		destRoot: destRoot,
		dryRun:   true,
		logger:   slog.Default(),
	}

	rec := engine.ItemMsg[Result]{
		Path: src,
		Result: Result{
			Found:     true,
			Reference: database.ReferenceHit{Path: "/mnt/ref/Pictures/a.jpg"},
		},
	}
	if err := app.insert(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destRoot, "a.jpg")); !os.IsNotExist(err) {
		t.Errorf("dry-run should not have created %s", filepath.Join(destRoot, "a.jpg"))
	}
	if app.Stats() != (Stats{Moved: 1}) {
		t.Errorf("stats = %+v, want Moved: 1", app.Stats())
	}
}

func TestInsert_MissBumpsUnmatched(t *testing.T) {
	app := &App{anchor: "Pictures", destRoot: "/local/Pictures", logger: slog.Default()}

	rec := engine.ItemMsg[Result]{Path: "/src/b.jpg", Result: Result{Found: false}}
	if err := app.insert(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if app.Stats() != (Stats{Unmatched: 1}) {
		t.Errorf("stats = %+v, want Unmatched: 1", app.Stats())
	}
}
