// Package database wraps the indexer's output SQLite file and the
// reference-DB lookups used by sync-to-db and the comparator, grounded on
// the teacher's connection-string and WAL/busy-timeout idiom
// (internal/database/db.go) but carrying the spec's own files schema
// rather than the teacher's media-library schema.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// FileRow is one row of the files table, matching spec.md §6 exactly
// including the optional EXIF columns.
type FileRow struct {
	Path        string
	Hash        string
	Size        int64
	Date        string
	Camera      string
	Lens        string
	ExpTime     string
	ExpFNum     string
	ExpISO      string
	FocalLength string
	Flash       string
}

// DB is the indexer's output database, owned exclusively by the librarian
// goroutine — no worker ever touches it directly, per the shared-resource
// policy in SPEC_FULL.md §5.
type DB struct {
	conn       *sql.DB
	tx         *sql.Tx
	insertStmt *sql.Stmt
}

// dsn builds the connection string with WAL mode, a busy timeout and
// foreign keys on, the exact trio the teacher's db.go always sets.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

// Open creates (or opens) path, applies the schema, and starts the first
// write transaction. Indexer rows are staged into this transaction and
// flushed on Commit, matching the librarian's "commit on tick or once at
// the end" contract.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1) // sqlite3 + WAL: one writer, matches librarian single-threaded ownership

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	d := &DB{conn: conn}
	if err := d.beginAndPrepare(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) beginAndPrepare() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO files (path, hash, size, date, camera, lens, exp_time, exp_fnum, exp_iso, focal_length, flash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash=excluded.hash, size=excluded.size, date=excluded.date,
			camera=excluded.camera, lens=excluded.lens, exp_time=excluded.exp_time,
			exp_fnum=excluded.exp_fnum, exp_iso=excluded.exp_iso,
			focal_length=excluded.focal_length, flash=excluded.flash
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	d.tx = tx
	d.insertStmt = stmt
	return nil
}

// InsertFile stages one row into the open transaction. Called from
// DBInsert, serially, in the librarian goroutine.
func (d *DB) InsertFile(row FileRow) error {
	_, err := d.insertStmt.Exec(row.Path, row.Hash, row.Size, row.Date,
		row.Camera, row.Lens, row.ExpTime, row.ExpFNum, row.ExpISO, row.FocalLength, row.Flash)
	if err != nil {
		return fmt.Errorf("insert %s: %w", row.Path, err)
	}
	return nil
}

// Commit flushes the open transaction and starts a new one, so the next
// batch of inserts has somewhere to land. Idempotent with an empty batch:
// committing an empty transaction is a cheap no-op in SQLite.
func (d *DB) Commit() error {
	if d.tx == nil {
		return d.beginAndPrepare()
	}
	d.insertStmt.Close()
	if err := d.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return d.beginAndPrepare()
}

// Close commits any pending work and closes the underlying connection.
func (d *DB) Close() error {
	if d.tx != nil {
		d.insertStmt.Close()
		_ = d.tx.Commit()
	}
	return d.conn.Close()
}

// RowCount returns the number of rows visible to the open transaction
// (every committed row plus any staged since the last Commit), used by
// tests to check the "DB contains exactly logged rows" invariant.
func (d *DB) RowCount() (int64, error) {
	var n int64
	query := d.conn.QueryRow
	if d.tx != nil {
		// The open transaction holds the only connection (SetMaxOpenConns(1)),
		// so the count runs on it rather than waiting for a free one.
		query = d.tx.QueryRow
	}
	err := query(`SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}

// TimestampedName builds the files_<YYYYMMDD_HHMM>.db filename the spec
// mandates for the indexer's output.
func TimestampedName(now time.Time) string {
	return fmt.Sprintf("files_%s.db", now.Format("20060102_1504"))
}

// LogName builds the <appname>_<YYYYMMDD_HHMM>.log filename shared by
// every application's log file.
func LogName(appName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.log", appName, now.Format("20060102_1504"))
}
