package index

import (
	"time"

	"github.com/starford/daybook/internal/journal"
)

// JournalIndex is the read/write surface of the index. Consumers depend on
// it rather than *DB so tests can substitute the scan-based fallback.
type JournalIndex interface {
	ReplaceJournal(path, checksum string, rows []EntryRow) error
	DeleteJournal(path string) error
	GetChecksum(path string) (string, error)
	LaterEntries(path string, target time.Time) ([]journal.LaterEntry, error)
	Tags(path string) ([]string, error)
	TagCounts(path string) ([]TagCount, error)
	Search(path, query string, limit int) ([]journal.FilterEntry, error)
	Close() error
}

// Verify *DB satisfies JournalIndex at compile time.
var _ JournalIndex = (*DB)(nil)
