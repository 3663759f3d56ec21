package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandle_FormatsLegacyLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf))

	logger.With(Func("runWorker")).Warn("permission denied", "path", "/secret.bin")

	line := buf.String()
	if !strings.Contains(line, " - runWorker - WARNING - permission denied") {
		t.Errorf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "path=/secret.bin") {
		t.Errorf("expected path attr in log line: %q", line)
	}
}

func TestHandle_WritesToEveryWriter(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(New(&a, &b))
	logger.Info("hello")

	if a.String() == "" || b.String() == "" {
		t.Fatal("expected both writers to receive the line")
	}
	if a.String() != b.String() {
		t.Errorf("writers diverged: %q vs %q", a.String(), b.String())
	}
}

func TestLevelName_Mapping(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug: "DEBUG",
		slog.LevelInfo:  "INFO",
		slog.LevelWarn:  "WARNING",
		slog.LevelError: "ERROR",
	}
	for level, want := range cases {
		if got := levelName(level); got != want {
			t.Errorf("levelName(%v) = %s, want %s", level, got, want)
		}
	}
}
