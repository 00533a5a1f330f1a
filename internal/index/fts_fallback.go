//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/daybook/internal/journal"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on entries.content.
	return nil
}

func ftsReplace(_ *sql.Tx, _ string, _ []EntryRow) error {
	// Content is already stored in the entries table.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search over entry content (fallback when
// FTS5 is not compiled in).
func (db *DB) Search(path, query string, limit int) ([]journal.FilterEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT source_date, line_index, kind, content
		FROM entries
		WHERE journal = ? AND content LIKE ?
		ORDER BY source_date, line_index
		LIMIT ?
	`, path, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []journal.FilterEntry
	for rows.Next() {
		var (
			source, kind, content string
			line                  int
		)
		if err := rows.Scan(&source, &line, &kind, &content); err != nil {
			return nil, err
		}
		e, err := scanEntry(source, line, kind, content)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
