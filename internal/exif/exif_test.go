package exif

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExtract_NoExifSegment_ReturnsEmptyTagsNoError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not_an_image.txt")
	if err := os.WriteFile(path, []byte("plain text, no exif here"), 0o644); err != nil {
		t.Fatal(err)
	}

	tags, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if tags.HasExif {
		t.Error("expected HasExif=false for a file with no EXIF segment")
	}
	if tags.Camera != "" || tags.DateTimeDigitized != "" {
		t.Errorf("expected empty fields for a non-EXIF file, got %+v", tags)
	}
}

func TestTags_CaptureTime_ParsesExifTimestamp(t *testing.T) {
	tags := Tags{HasExif: true, DateTimeDigitized: "2020:07:04 10:00:00"}
	got, err := tags.CaptureTime()
	if err != nil {
		t.Fatalf("CaptureTime: %v", err)
	}
	want := time.Date(2020, 7, 4, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CaptureTime = %v, want %v", got, want)
	}
}

func TestTags_CaptureTime_MissingTagErrors(t *testing.T) {
	tags := Tags{HasExif: true, DateTimeDigitized: Missing}
	if _, err := tags.CaptureTime(); err == nil {
		t.Error("expected error when DateTimeDigitized is ERROR")
	}

	tags2 := Tags{HasExif: false}
	if _, err := tags2.CaptureTime(); err == nil {
		t.Error("expected error when file has no EXIF at all")
	}
}
