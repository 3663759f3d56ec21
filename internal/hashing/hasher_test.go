package hashing

import (
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestHashFile_SHA512_MatchesStdlib(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	contents := []byte("the quick brown fox jumps over the lazy dog")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatal(err)
	}

	h := New(SHA512)
	got, err := h.HashFile(path)
	if err != nil {
		t.Fatal(err)
	}

	sum := sha512.Sum512(contents)
	want := hex.EncodeToString(sum[:])

	if got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if len(got) != 128 {
		t.Errorf("digest length = %d, want 128 hex chars", len(got))
	}
}

func TestHashFile_IdenticalContentsSameHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	h := New(SHA512)
	ha, err := h.HashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := h.HashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Errorf("identical contents produced different hashes: %s vs %s", ha, hb)
	}
}

func TestHashFile_Blake3_Produces32ByteDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	if err := os.WriteFile(path, []byte("blake3 test payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := New(Blake3)
	got, err := h.HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 64 {
		t.Errorf("blake3 digest length = %d, want 64 hex chars", len(got))
	}
}

func TestHashFile_MissingFile_Errors(t *testing.T) {
	h := New(SHA512)
	if _, err := h.HashFile("/nonexistent/path/x"); err == nil {
		t.Error("expected error for missing file")
	}
}
