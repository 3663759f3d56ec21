package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// countingCapability is a minimal Capability[string] that records every
// path it inserts, grounded on the testable properties in the invariants
// section: indexed == R, skipped == S, logged == sum(processed) - drops.
func countingCapability(t *testing.T) (Capability[string], *[]string, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	var inserted []string

	cap := Capability[string]{
		Work: func(_ int, item any) (string, bool, error) {
			return item.(string), true, nil
		},
		DBInsert: func(rec ItemMsg[string]) error {
			mu.Lock()
			defer mu.Unlock()
			inserted = append(inserted, rec.Result)
			return nil
		},
		DBCommit: func() error { return nil },
	}
	return cap, &inserted, &mu
}

func TestRun_EmptyInput_TerminatesPromptly(t *testing.T) {
	dir := t.TempDir()
	cap, _, _ := countingCapability(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	res, err := Run(ctx, Config{Root: dir, Workers: 2, CommitInterval: 50 * time.Millisecond, PrintInterval: 10 * time.Millisecond}, cap, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("empty input took too long to terminate: %v", elapsed)
	}
	snap := res.Counters.Snapshot()
	if snap.Indexed != 0 || snap.Logged != 0 {
		t.Fatalf("expected zero indexed/logged, got %+v", snap)
	}
}

func TestRun_IndexedSkippedLoggedInvariant(t *testing.T) {
	dir := t.TempDir()

	// 3 regular non-empty files (R=3) and one empty file that is skipped
	// at the walker level (S=1).
	mustWrite(t, filepath.Join(dir, "a.txt"), "hello")
	mustWrite(t, filepath.Join(dir, "b.txt"), "hello")
	mustWrite(t, filepath.Join(dir, "c.txt"), "world")
	mustWrite(t, filepath.Join(dir, "empty.txt"), "")

	cap, inserted, mu := countingCapability(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := Run(ctx, Config{Root: dir, Workers: 2, CommitInterval: time.Hour, PrintInterval: 10 * time.Millisecond}, cap, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := res.Counters.Snapshot()
	if snap.Indexed != 3 {
		t.Errorf("indexed = %d, want 3", snap.Indexed)
	}
	if snap.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", snap.Skipped)
	}
	if snap.Logged != 3 {
		t.Errorf("logged = %d, want 3", snap.Logged)
	}
	if got := snap.ProcessedTotal(); got != 3 {
		t.Errorf("processed total = %d, want 3", got)
	}

	mu.Lock()
	defer mu.Unlock()
	got := append([]string(nil), *inserted...)
	sort.Strings(got)
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("inserted = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("inserted[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRun_WorkDropReducesLogged(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "keep")
	mustWrite(t, filepath.Join(dir, "b.txt"), "drop")

	cap := Capability[string]{
		Work: func(_ int, item any) (string, bool, error) {
			if filepath.Base(item.(string)) == "b.txt" {
				return "", false, nil
			}
			return item.(string), true, nil
		},
		DBInsert: func(ItemMsg[string]) error { return nil },
		DBCommit: func() error { return nil },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := Run(ctx, Config{Root: dir, Workers: 2, CommitInterval: time.Hour, PrintInterval: 10 * time.Millisecond}, cap, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	snap := res.Counters.Snapshot()
	if snap.Indexed != 2 {
		t.Errorf("indexed = %d, want 2", snap.Indexed)
	}
	if snap.Logged != 1 {
		t.Errorf("logged = %d, want 1 (one dropped by Work)", snap.Logged)
	}
}

func TestMainChannel_CarriesPostProcessingPayload(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "x")

	main := NewMainChannel(8)
	cap := Capability[string]{
		Work: func(_ int, item any) (string, bool, error) { return "ok", true, nil },
		DBInsert: func(ItemMsg[string]) error {
			return nil
		},
		DBCommit: func() error {
			return main.Push(context.Background(), "committed")
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := Run(ctx, Config{Root: dir, Workers: 1, CommitInterval: time.Hour, PrintInterval: 10 * time.Millisecond}, cap, main)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.MainData) == 0 {
		t.Fatalf("expected at least one main-return payload, got none")
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
