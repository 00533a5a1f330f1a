package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
)

// EntryRow is one indexed entry. TargetDate is zero when the entry carries
// no single resolvable date; Rule is empty when it carries no recurrence.
type EntryRow struct {
	SourceDate time.Time
	LineIndex  int
	Type       journal.EntryType
	Content    string
	TargetDate time.Time
	Rule       string
}

// TagCount is a tag with the number of entries that use it.
type TagCount struct {
	Tag  string
	Uses int
}

// ReplaceJournal swaps every row of the journal at path for rows within a
// transaction and records checksum.
func (db *DB) ReplaceJournal(path, checksum string, rows []EntryRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO journals (path, checksum, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum  = excluded.checksum,
			synced_at = excluded.synced_at
	`, path, checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("index: upsert journal: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE journal = ?`, path); err != nil {
		return fmt.Errorf("index: clear entries: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tags WHERE journal = ?`, path); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}

	if len(rows) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO entries (journal, source_date, line_index, kind, content, target_date, rule)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare entry insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			target := ""
			if !r.TargetDate.IsZero() {
				target = dates.FormatDay(r.TargetDate)
			}
			if _, err := stmt.Exec(path, dates.FormatDay(r.SourceDate), r.LineIndex, r.Type.String(), r.Content, target, r.Rule); err != nil {
				return fmt.Errorf("index: insert entry: %w", err)
			}
		}
	}

	for _, tc := range countTags(rows) {
		if _, err := tx.Exec(`INSERT INTO tags (journal, key, tag, uses) VALUES (?, ?, ?, ?)`,
			path, strings.ToLower(tc.Tag), tc.Tag, tc.Uses); err != nil {
			return fmt.Errorf("index: insert tag: %w", err)
		}
	}

	if err := ftsReplace(tx, path, rows); err != nil {
		return err
	}

	return tx.Commit()
}

// countTags counts the entries using each tag. The spelling of the first
// use wins.
func countTags(rows []EntryRow) []TagCount {
	var out []TagCount
	pos := make(map[string]int)
	for _, r := range rows {
		for _, tag := range parser.Tags(r.Content) {
			key := strings.ToLower(tag)
			if i, ok := pos[key]; ok {
				out[i].Uses++
				continue
			}
			pos[key] = len(out)
			out = append(out, TagCount{Tag: tag, Uses: 1})
		}
	}
	return out
}

// DeleteJournal removes a journal and all of its rows.
func (db *DB) DeleteJournal(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM entries WHERE journal = ?`, path)
	_, _ = tx.Exec(`DELETE FROM tags WHERE journal = ?`, path)
	_, _ = tx.Exec(`DELETE FROM journals WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a journal, or an empty string
// if it has never been indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM journals WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// LaterEntries returns the entries of the journal at path that project onto
// target, ordered by source day and line.
func (db *DB) LaterEntries(path string, target time.Time) ([]journal.LaterEntry, error) {
	day := dates.FormatDay(target)
	rows, err := db.conn.Query(`
		SELECT source_date, line_index, kind, content, target_date, rule
		FROM entries
		WHERE journal = ? AND source_date <> ?
		  AND (target_date = ? OR (rule <> '' AND source_date < ?))
		ORDER BY source_date, line_index
	`, path, day, day, day)
	if err != nil {
		return nil, fmt.Errorf("index: later entries: %w", err)
	}
	defer rows.Close()

	var out []journal.LaterEntry
	for rows.Next() {
		var (
			source, kind, content, targetDate, rule string
			line                                    int
		)
		if err := rows.Scan(&source, &line, &kind, &content, &targetDate, &rule); err != nil {
			return nil, err
		}
		if targetDate != day {
			r, ok := dates.ParseRecurrence(rule)
			if !ok || !r.Matches(target) {
				continue
			}
		}
		e, err := scanEntry(source, line, kind, content)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(source string, line int, kind, content string) (journal.CrossDayEntry, error) {
	date, err := dates.ParseDay(source)
	if err != nil {
		return journal.CrossDayEntry{}, fmt.Errorf("index: bad source date %q: %w", source, err)
	}
	typ, ok := journal.ParseEntryType(kind)
	if !ok {
		return journal.CrossDayEntry{}, fmt.Errorf("index: bad entry kind %q", kind)
	}
	return journal.NewCrossDayEntry(date, line, journal.Entry{Type: typ, Content: content}), nil
}

// Tags returns the distinct tags of the journal at path, sorted without
// regard to case.
func (db *DB) Tags(path string) ([]string, error) {
	counts, err := db.TagCounts(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Tag
	}
	return out, nil
}

// TagCounts returns every tag of the journal at path with its use count.
func (db *DB) TagCounts(path string) ([]TagCount, error) {
	rows, err := db.conn.Query(`SELECT tag, uses FROM tags WHERE journal = ? ORDER BY key`, path)
	if err != nil {
		return nil, fmt.Errorf("index: tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Uses); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
