// Package index keeps a rebuildable SQLite cache of journal entries, their
// projection targets and tag usage, so cross-day queries can be answered
// without reparsing the journal.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS journals (
	path       TEXT PRIMARY KEY,
	checksum   TEXT NOT NULL DEFAULT '',
	synced_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	journal     TEXT NOT NULL REFERENCES journals(path) ON DELETE CASCADE,
	source_date TEXT NOT NULL,
	line_index  INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	target_date TEXT NOT NULL DEFAULT '',
	rule        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
	journal TEXT NOT NULL REFERENCES journals(path) ON DELETE CASCADE,
	key     TEXT NOT NULL,
	tag     TEXT NOT NULL,
	uses    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (journal, key)
);

CREATE INDEX IF NOT EXISTS idx_entries_journal ON entries(journal, source_date, line_index);
CREATE INDEX IF NOT EXISTS idx_entries_target ON entries(journal, target_date);
CREATE INDEX IF NOT EXISTS idx_entries_rule ON entries(journal, rule);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
