package database

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_InsertCommit_RowCount(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "files_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	rows := []FileRow{
		{Path: "/a.txt", Hash: "h1", Size: 5, Date: "2020-01-01"},
		{Path: "/b.txt", Hash: "h2", Size: 10, Date: "2020-01-02"},
	}
	for _, r := range rows {
		if err := db.InsertFile(r); err != nil {
			t.Fatalf("InsertFile: %v", err)
		}
	}
	if err := db.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	n, err := db.RowCount()
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 2 {
		t.Errorf("RowCount = %d, want 2", n)
	}
}

func TestCommit_EmptyBatch_Idempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "files_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.Commit(); err != nil {
		t.Fatalf("first empty commit: %v", err)
	}
	if err := db.Commit(); err != nil {
		t.Fatalf("second empty commit: %v", err)
	}
}

func TestTimestampedName_Format(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2026-08-01T10:04:00Z")
	if err != nil {
		t.Fatal(err)
	}
	got := TimestampedName(ts)
	want := "files_20260801_1004.db"
	if got != want {
		t.Errorf("TimestampedName = %s, want %s", got, want)
	}
}
