package index

import (
	"log/slog"

	"github.com/starford/daybook/internal/checksum"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/later"
	"github.com/starford/daybook/internal/storage"
)

// Sync re-reads the journal and brings its rows up to date. A journal whose
// checksum has not changed since the last sync is left alone; a journal file
// that no longer exists loses its rows. It reports whether the index changed.
func Sync(db *DB, j *storage.Journal, logger *slog.Logger) (bool, error) {
	if !j.Exists() {
		return dropMissing(db, j, logger)
	}

	text, err := j.Load()
	if err != nil {
		return false, err
	}
	cs := checksum.Text(text)

	stored, err := db.GetChecksum(j.Path())
	if err != nil {
		return false, err
	}
	if stored == cs {
		logger.Debug("sync: unchanged", slog.String("path", j.Path()))
		return false, nil
	}

	rows := BuildRows(journal.ParseDocument(text).Sorted())
	if err := db.ReplaceJournal(j.Path(), cs, rows); err != nil {
		logger.Warn("sync: index failed", slog.String("path", j.Path()), slog.String("error", err.Error()))
		return false, err
	}
	logger.Debug("sync: indexed", slog.String("path", j.Path()), slog.Int("entries", len(rows)))
	return true, nil
}

func dropMissing(db *DB, j *storage.Journal, logger *slog.Logger) (bool, error) {
	stored, err := db.GetChecksum(j.Path())
	if err != nil || stored == "" {
		return false, err
	}
	if err := db.DeleteJournal(j.Path()); err != nil {
		return false, err
	}
	logger.Info("sync: journal removed", slog.String("path", j.Path()))
	return true, nil
}

// BuildRows flattens days into index rows with their projection targets.
func BuildRows(days []journal.Day) []EntryRow {
	var rows []EntryRow
	for _, d := range days {
		for _, i := range journal.EntryIndices(d.Lines) {
			e := d.Lines[i].Entry
			row := EntryRow{
				SourceDate: d.Date,
				LineIndex:  i,
				Type:       e.Type,
				Content:    e.Content,
			}
			t := later.Resolve(e.Content, d.Date)
			if t.Dated {
				row.TargetDate = t.Date
			}
			if t.Recur {
				row.Rule = t.Rule.String()
			}
			rows = append(rows, row)
		}
	}
	return rows
}
