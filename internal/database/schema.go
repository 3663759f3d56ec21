package database

// schema is the files table from spec.md §6: the one column set every
// application agrees on, including the optional EXIF columns confirmed by
// the commented-out Photo dataclass in original_source/db/files.py.
const schema = `
CREATE TABLE IF NOT EXISTS files (
	id           INTEGER PRIMARY KEY,
	path         TEXT NOT NULL UNIQUE,
	hash         TEXT NOT NULL,
	size         INTEGER NOT NULL,
	date         TEXT,
	camera       TEXT,
	lens         TEXT,
	exp_time     TEXT,
	exp_fnum     TEXT,
	exp_iso      TEXT,
	focal_length TEXT,
	flash        TEXT
);

CREATE INDEX IF NOT EXISTS idx_files_hash ON files(hash);
`
