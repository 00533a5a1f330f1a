// Package testutil provides shared test helpers for setting up journals and
// index databases.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/storage"
)

// TestDB creates a temporary SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "daybook-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestJournal creates a journal file in a temporary directory holding text.
func TestJournal(t *testing.T, text string) *storage.Journal {
	t.Helper()
	j, err := storage.OpenJournal(filepath.Join(t.TempDir(), "journal.md"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		if err := j.Save(text); err != nil {
			t.Fatal(err)
		}
	}
	return j
}

// ReadJournal returns the current text of j.
func ReadJournal(t *testing.T, j *storage.Journal) string {
	t.Helper()
	text, err := j.Load()
	if err != nil {
		t.Fatal(err)
	}
	return text
}

// Clock returns a clock fixed at the given day.
func Clock(year int, month time.Month, day int) func() time.Time {
	d := dates.Of(year, month, day)
	return func() time.Time { return d }
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
