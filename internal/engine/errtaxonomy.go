package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// ErrNonRegular and ErrZeroSize round out the ignorable-per-item class
// alongside the stdlib's os.ErrNotExist / os.ErrPermission. ErrProgrammer
// marks a recovered panic from application code, the one class that
// isn't a plain I/O failure.
var (
	ErrNonRegular = errors.New("not a regular file")
	ErrZeroSize   = errors.New("zero-size file")
	ErrProgrammer = errors.New("programmer error")
)

// Severity classifies an error from Work (or a walker stat) into four of
// the error handling design's classes (fatal errors are not classified
// here; they abort the run directly): ignorable-per-item and
// transient I/O are both skip-and-log, but at different log levels, so they
// are kept distinct here.
type Severity int

const (
	// SeverityIgnorable covers not-found, permission-denied, non-regular,
	// zero-size: logged at WARN, item skipped.
	SeverityIgnorable Severity = iota
	// SeverityTransient covers generic I/O failures: logged at ERROR, item
	// skipped.
	SeverityTransient
	// SeverityUnknown covers anything else from application code: logged at
	// ERROR with the wrapped error as context, item skipped.
	SeverityUnknown
	// SeverityInterrupt marks context cancellation: logged at INFO, the
	// worker loop breaks cleanly.
	SeverityInterrupt
)

// Classify maps an error returned from a worker's Work call (or from the
// walker's per-entry stat) onto a Severity, so every call site shares one
// taxonomy instead of re-deriving it ad hoc.
func Classify(err error) Severity {
	switch {
	case err == nil:
		return SeverityIgnorable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return SeverityInterrupt
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission),
		errors.Is(err, ErrNonRegular), errors.Is(err, ErrZeroSize),
		errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return SeverityIgnorable
	case errors.Is(err, ErrProgrammer):
		return SeverityUnknown
	default:
		return SeverityTransient
	}
}
