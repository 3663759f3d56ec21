package datemove

import (
	"testing"
)

func TestCommit_SortsByPathAndCarriesAmbiguity(t *testing.T) {
	app, _ := New(t.TempDir(), false, 2)
	app.decisions = map[string]Result{
		"/z.jpg": {FromMtime: "20240102"},
		"/a.jpg": {FromMtime: "20240101", Ambiguous: true, Alt: "20240105"},
	}
	if err := app.commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	app.main.Close()

	var got []Decision
	for v := range app.main.Chan() {
		got = append(got, v.(Decision))
	}

	if len(got) != 2 {
		t.Fatalf("got %d decisions, want 2", len(got))
	}
	if got[0].Path != "/a.jpg" || got[1].Path != "/z.jpg" {
		t.Errorf("decisions not sorted by path: %+v", got)
	}
	if !got[0].Ambiguous || got[0].Alt != "20240105" {
		t.Errorf("first decision lost ambiguity: %+v", got[0])
	}
	if got[1].Ambiguous {
		t.Errorf("second decision should not be ambiguous: %+v", got[1])
	}
}

func TestDestinationFor_AppendsCollisionSuffix(t *testing.T) {
	taken := map[string]bool{
		"/out/20240101/photo.jpg":   true,
		"/out/20240101/photo_1.jpg": true,
	}
	exists := func(p string) bool { return taken[p] }

	got := DestinationFor("/out", "20240101", "/src/photo.jpg", exists)
	want := "/out/20240101/photo_2.jpg"
	if got != want {
		t.Errorf("DestinationFor = %s, want %s", got, want)
	}
}

func TestDestinationFor_NoCollision(t *testing.T) {
	got := DestinationFor("/out", "20240101", "/src/photo.jpg", func(string) bool { return false })
	want := "/out/20240101/photo.jpg"
	if got != want {
		t.Errorf("DestinationFor = %s, want %s", got, want)
	}
}
