package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axcxl/hydra/internal/engine"
)

func TestWork_NoExif_UsesZeroTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, cap := New()
	res, ok, err := cap.Work(0, path)
	if err != nil || !ok {
		t.Fatalf("Work: ok=%v err=%v", ok, err)
	}
	if res.NewName != "000000.txt" {
		t.Errorf("NewName = %s, want 000000.txt", res.NewName)
	}
}

func TestCommit_SortsDecisionsByPath(t *testing.T) {
	app, cap := New()
	insert := func(path, name string) {
		if err := cap.DBInsert(engine.ItemMsg[Result]{Path: path, Result: Result{NewName: name}}); err != nil {
			t.Fatal(err)
		}
	}
	insert("/z.jpg", "000000.jpg")
	insert("/a.jpg", "120000.jpg")

	if err := cap.DBCommit(); err != nil {
		t.Fatalf("DBCommit: %v", err)
	}
	app.main.Close()

	var got []Decision
	for v := range app.main.Chan() {
		got = append(got, v.(Decision))
	}
	if len(got) != 2 || got[0].Path != "/a.jpg" || got[1].Path != "/z.jpg" {
		t.Errorf("decisions not sorted: %+v", got)
	}
}

func TestApply_RenamesAndAvoidsCollision(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	taken := filepath.Join(dir, "120000.jpg")
	if err := os.WriteFile(taken, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest, err := Apply(src, "120000.jpg")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := filepath.Join(dir, "120000_1.jpg")
	if dest != want {
		t.Errorf("dest = %s, want %s", dest, want)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source file still exists after rename")
	}
}

func TestApply_NoopWhenNameUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "000000.jpg")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest, err := Apply(src, "000000.jpg")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if dest != src {
		t.Errorf("dest = %s, want unchanged %s", dest, src)
	}
}
