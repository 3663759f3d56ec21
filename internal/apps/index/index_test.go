package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/axcxl/hydra/internal/engine"
)

func TestIndex_EndToEnd_LogsEveryRegularFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "hello")
	mustWrite(t, filepath.Join(dir, "b.txt"), "hello")
	mustWrite(t, filepath.Join(dir, "empty.txt"), "")

	app, cap, err := New("sha512", filepath.Join(dir, "files_test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.DB().Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := engine.Run(ctx, engine.Config{Root: dir, Workers: 2, CommitInterval: time.Hour, PrintInterval: 10 * time.Millisecond}, cap, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := res.Counters.Snapshot()
	if snap.Indexed != 2 {
		t.Errorf("indexed = %d, want 2", snap.Indexed)
	}
	if snap.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", snap.Skipped)
	}

	n, err := app.DB().RowCount()
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 2 {
		t.Errorf("row count = %d, want 2", n)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
