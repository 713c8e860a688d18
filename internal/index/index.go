// Package index exports expanded workspaces into a SQLite database so that
// resolved trees can be queried with plain SQL: which nodes inherit from a
// class, where a name resolves, which modules import which.
package index

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Index is the SQLite data access layer.
type Index struct {
	db *sql.DB
}

// Open opens a SQLite database at dbPath with WAL mode enabled.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// DB returns the underlying *sql.DB for ad-hoc queries.
func (ix *Index) DB() *sql.DB {
	return ix.db
}

// Migrate creates the tables and indexes. Idempotent.
func (ix *Index) Migrate() error {
	if _, err := ix.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS modules (
  id              INTEGER PRIMARY KEY,
  name            TEXT NOT NULL UNIQUE,
  path            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
  module_id       INTEGER NOT NULL REFERENCES modules(id),
  level           INTEGER NOT NULL,
  idx             INTEGER NOT NULL,
  parent_level    INTEGER,
  parent_idx      INTEGER,
  name            TEXT,
  kind            TEXT NOT NULL,
  value           TEXT,
  ref_module_id   INTEGER,
  ref_level       INTEGER,
  ref_idx         INTEGER,
  PRIMARY KEY (module_id, level, idx)
);

CREATE TABLE IF NOT EXISTS imports (
  module_id       INTEGER NOT NULL REFERENCES modules(id),
  imported        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(module_id, parent_level, parent_idx);
CREATE INDEX IF NOT EXISTS idx_nodes_ref ON nodes(ref_module_id, ref_level, ref_idx);
CREATE INDEX IF NOT EXISTS idx_imports_imported ON imports(imported);
`
