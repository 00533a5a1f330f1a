//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			journal UNINDEXED,
			source_date UNINDEXED,
			line_index UNINDEXED,
			kind UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsReplace(tx *sql.Tx, path string, rows []EntryRow) error {
	ftsDelete(tx, path)
	for _, r := range rows {
		_, err := tx.Exec(`INSERT INTO entries_fts (journal, source_date, line_index, kind, content) VALUES (?, ?, ?, ?, ?)`,
			path, dates.FormatDay(r.SourceDate), r.LineIndex, r.Type.String(), r.Content)
		if err != nil {
			return fmt.Errorf("index: upsert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM entries_fts WHERE journal = ?`, path)
}

// Search performs an FTS5 full-text search over entry content, best
// matches first.
func (db *DB) Search(path, query string, limit int) ([]journal.FilterEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT source_date, line_index, kind, content
		FROM entries_fts
		WHERE journal = ? AND entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, path, query, limit)
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
