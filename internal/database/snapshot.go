package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Snapshot is a per-worker in-memory copy of a reference SQLite database,
// built via SQLite's native backup API. This moves read contention for
// sync-to-db and the comparator out of the hot loop and off a single
// shared connection, per SPEC_FULL.md §5's per-worker snapshot policy.
type Snapshot struct {
	mem *sql.DB
}

// OpenSnapshot backs up referencePath into a private :memory: database and
// returns a handle to it. Called from each worker's Init, before that
// worker's receive loop starts — the engine's Init-before-Get contract
// guarantees this completes before any lookup is attempted.
func OpenSnapshot(ctx context.Context, referencePath string) (*Snapshot, error) {
	src, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", referencePath))
	if err != nil {
		return nil, fmt.Errorf("open reference db %s: %w", referencePath, err)
	}
	defer src.Close()

	mem, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory snapshot: %w", err)
	}

	srcConn, err := src.Conn(ctx)
	if err != nil {
		mem.Close()
		return nil, fmt.Errorf("reference db conn: %w", err)
	}
	defer srcConn.Close()

	dstConn, err := mem.Conn(ctx)
	if err != nil {
		mem.Close()
		return nil, fmt.Errorf("snapshot conn: %w", err)
	}
	defer dstConn.Close()

	backupErr := dstConn.Raw(func(dstDriver any) error {
		return srcConn.Raw(func(srcDriver any) error {
			dc, ok := dstDriver.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected destination driver type %T", dstDriver)
			}
			sc, ok := srcDriver.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected source driver type %T", srcDriver)
			}

			backup, err := dc.Backup("main", sc, "main")
			if err != nil {
				return fmt.Errorf("backup init: %w", err)
			}
			for {
				done, err := backup.Step(-1)
				if err != nil {
					_ = backup.Finish()
					return fmt.Errorf("backup step: %w", err)
				}
				if done {
					break
				}
			}
			return backup.Finish()
		})
	})
	if backupErr != nil {
		mem.Close()
		return nil, fmt.Errorf("snapshot %s: %w", referencePath, backupErr)
	}

	return &Snapshot{mem: mem}, nil
}

// Close releases the in-memory snapshot.
func (s *Snapshot) Close() error {
	return s.mem.Close()
}

// ReferenceHit is one candidate row returned for a hash lookup.
type ReferenceHit struct {
	Path string
	Size int64
	Date string
}

// FindByHash reports whether hash exists anywhere in the snapshot,
// used by the comparator, which only needs a found/not-found answer.
func (s *Snapshot) FindByHash(hash string) (bool, error) {
	var n int
	err := s.mem.QueryRow(`SELECT COUNT(*) FROM files WHERE hash = ?`, hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup hash %s: %w", hash, err)
	}
	return n > 0, nil
}

// FindByHashAndBasename reproduces hydra_synctodb.py's disambiguation
// loop: a hash can map to multiple reference rows (e.g. re-encoded
// duplicates under different names); the first row whose basename matches
// the input file's basename wins. ok=false means no row matched both the
// hash and the basename (a hash match under another basename also gives
// ok=false).
func (s *Snapshot) FindByHashAndBasename(hash, basename string) (hit ReferenceHit, ok bool, err error) {
	rows, err := s.mem.Query(`SELECT path, size, date FROM files WHERE hash = ?`, hash)
	if err != nil {
		return ReferenceHit{}, false, fmt.Errorf("lookup hash %s: %w", hash, err)
	}
	defer rows.Close()

	var first ReferenceHit
	haveFirst := false
	for rows.Next() {
		var r ReferenceHit
		if err := rows.Scan(&r.Path, &r.Size, &r.Date); err != nil {
			return ReferenceHit{}, false, fmt.Errorf("scan row: %w", err)
		}
		if !haveFirst {
			first, haveFirst = r, true
		}
		if filepath.Base(r.Path) == basename {
			return r, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return ReferenceHit{}, false, err
	}
	if haveFirst {
		// No basename match; original falls through with "found" set to
		// whatever fetchone() last returned (possibly nil). Matching that,
		// a hash match with no basename match is still reported as
		// not-found for the rebase step, since a wrong basename means a
		// different original filename entirely.
		return ReferenceHit{}, false, nil
	}
	return ReferenceHit{}, false, nil
}
