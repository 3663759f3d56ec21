// Package progress renders the supervisor's status line, grounded on the
// teacher's snapshot/render split (internal/scanner/progress.go) and on
// ivoronin-dupedog's use of github.com/dustin/go-humanize and
// github.com/schollz/progressbar/v3 for human-readable counters and an
// optional bar.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/axcxl/hydra/internal/engine"
)

// Line renders the spec-mandated single carriage-return-terminated status
// line: "Indexed: N Skipped: N - PROCESSED p0; p1; ... - Logged: N".
func Line(s engine.Snapshot) string {
	var processed strings.Builder
	for _, p := range s.Processed {
		fmt.Fprintf(&processed, "%d; ", p)
	}
	return fmt.Sprintf("Indexed: %d Skipped: %d - PROCESSED %s- Logged: %d",
		s.Indexed, s.Skipped, processed.String(), s.Logged)
}

// Writer renders Line to w, overwriting the previous line with \r, the
// default status renderer used by every subcommand.
type Writer struct {
	out io.Writer
}

// NewWriter builds a plain carriage-return status renderer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Render writes one redraw of the status line.
func (w *Writer) Render(s engine.Snapshot) {
	fmt.Fprintf(w.out, "\r%s", Line(s))
}

// Finish writes a trailing newline so the final status line survives
// after the process exits.
func (w *Writer) Finish() {
	fmt.Fprintln(w.out)
}

// Bar is an alternative renderer backed by progressbar/v3. No hydra
// subcommand or flag selects it; they all render with Writer. It degrades gracefully
// when the total item count isn't known up front (an indeterminate spinner
// bar), matching dupedog's progress.Bar usage pattern.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar builds an indeterminate progress bar writing to out.
func NewBar(out io.Writer) *Bar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Bar{bar: bar}
}

// Render updates the bar's description with a human-readable summary.
func (b *Bar) Render(s engine.Snapshot) {
	b.bar.Describe(fmt.Sprintf("indexed %s, logged %s",
		humanize.Comma(s.Indexed), humanize.Comma(s.Logged)))
	_ = b.bar.Add(0)
}

// Finish completes the bar's render cycle.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

// FormatBytes renders a byte count the way the final run summary does,
// replacing the teacher's hand-rolled stats.FormatSize with go-humanize.
func FormatBytes(n int64) string {
	return humanize.IBytes(uint64(n))
}
