package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// OpenReadOnly opens an existing SQLite file read-only, used by the
// comparator to walk rows from a source database instead of a filesystem
// tree (the one application whose Item is a database row per spec.md §3).
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open %s read-only: %w", path, err)
	}
	return db, nil
}

// WalkRows enumerates every row of db's files table, ordered by path (the
// comparator's equivalent of the filesystem walker's sorted, deterministic
// enumeration), invoking emit once per row.
func WalkRows(ctx context.Context, db *sql.DB, emit func(FileRow) error) error {
	rows, err := db.QueryContext(ctx, `SELECT path, hash, size, date, camera, lens, exp_time, exp_fnum, exp_iso, focal_length, flash FROM files ORDER BY path`)
	if err != nil {
		return fmt.Errorf("query source rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r FileRow
		if err := rows.Scan(&r.Path, &r.Hash, &r.Size, &r.Date, &r.Camera, &r.Lens, &r.ExpTime, &r.ExpFNum, &r.ExpISO, &r.FocalLength, &r.Flash); err != nil {
			return fmt.Errorf("scan source row: %w", err)
		}
		if err := emit(r); err != nil {
			return err
		}
	}
	return rows.Err()
}
