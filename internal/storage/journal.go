package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
)

// Journal is one journal file seen as day sections. Every call reads the
// file fresh and every mutation writes the whole file back.
type Journal struct {
	p    Provider
	name string
	path string
}

// NewJournal wraps the file name inside p. path is used for display and
// indexing only.
func NewJournal(p Provider, name, path string) *Journal {
	return &Journal{p: p, name: name, path: path}
}

// OpenJournal returns the journal stored at path, creating its directory if
// needed. The file itself is created on first save.
func OpenJournal(path string) (*Journal, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve journal: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	fsys, err := NewFS(dir)
	if err != nil {
		return nil, err
	}
	return NewJournal(fsys, filepath.Base(abs), abs), nil
}

// Path returns the journal's absolute path.
func (j *Journal) Path() string { return j.path }

// Exists reports whether the journal file has been written.
func (j *Journal) Exists() bool { return j.p.Exists(j.name) }

// Load returns the journal text. A missing file is an empty journal.
func (j *Journal) Load() (string, error) {
	data, err := j.p.Read(j.name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save replaces the journal text.
func (j *Journal) Save(text string) error {
	return j.p.Write(j.name, []byte(text))
}

// Document loads and parses the journal.
func (j *Journal) Document() (*journal.Document, error) {
	text, err := j.Load()
	if err != nil {
		return nil, err
	}
	return journal.ParseDocument(text), nil
}

// Days implements journal.DaySource.
func (j *Journal) Days() ([]journal.Day, error) {
	doc, err := j.Document()
	if err != nil {
		return nil, err
	}
	return doc.Sorted(), nil
}

// LoadDayLines returns the lines of date's section, nil when it is absent.
func (j *Journal) LoadDayLines(date time.Time) ([]journal.Line, error) {
	doc, err := j.Document()
	if err != nil {
		return nil, err
	}
	return doc.Day(date), nil
}

// SaveDayLines replaces date's section and writes the journal.
func (j *Journal) SaveDayLines(date time.Time, lines []journal.Line) error {
	doc, err := j.Document()
	if err != nil {
		return err
	}
	doc.SetDay(date, lines)
	return j.Save(doc.String())
}

// UpdateEntry applies fn to the entry at lineIndex of date and saves.
func (j *Journal) UpdateEntry(date time.Time, lineIndex int, fn func(*journal.Entry) error) error {
	doc, err := j.Document()
	if err != nil {
		return err
	}
	lines, err := entryAt(doc, date, lineIndex, nil)
	if err != nil {
		return err
	}
	if err := fn(lines[lineIndex].Entry); err != nil {
		return err
	}
	doc.SetDay(date, lines)
	return j.Save(doc.String())
}

// UpdateRef applies fn to the entry ref points at. It fails with
// apperr.ErrNotFound when the line no longer holds the entry ref was taken
// from.
func (j *Journal) UpdateRef(ref journal.CrossDayEntry, fn func(*journal.Entry) error) error {
	doc, err := j.Document()
	if err != nil {
		return err
	}
	want := ref.Entry()
	lines, err := entryAt(doc, ref.SourceDate, ref.LineIndex, &want)
	if err != nil {
		return err
	}
	if err := fn(lines[ref.LineIndex].Entry); err != nil {
		return err
	}
	doc.SetDay(ref.SourceDate, lines)
	return j.Save(doc.String())
}

// entryAt returns date's lines once lineIndex is known to hold an entry, and
// one equal to want when want is set.
func entryAt(doc *journal.Document, date time.Time, lineIndex int, want *journal.Entry) ([]journal.Line, error) {
	lines := doc.Day(date)
	if lineIndex < 0 || lineIndex >= len(lines) || !lines[lineIndex].IsEntry() {
		return nil, fmt.Errorf("storage: entry %d on %s: %w", lineIndex, dates.FormatDay(date), apperr.ErrNotFound)
	}
	if want != nil && *lines[lineIndex].Entry != *want {
		return nil, fmt.Errorf("storage: entry %d on %s changed: %w", lineIndex, dates.FormatDay(date), apperr.ErrNotFound)
	}
	return lines, nil
}

// ToggleEntry flips completion of the task at lineIndex.
func (j *Journal) ToggleEntry(date time.Time, lineIndex int) error {
	return j.UpdateEntry(date, lineIndex, func(e *journal.Entry) error {
		if !e.Type.IsTask() {
			return apperr.ErrNotATask
		}
		e.ToggleComplete()
		return nil
	})
}

// EditEntry replaces the content of the entry at lineIndex.
func (j *Journal) EditEntry(date time.Time, lineIndex int, content string) error {
	return j.UpdateEntry(date, lineIndex, func(e *journal.Entry) error {
		e.Content = content
		return nil
	})
}

// CycleEntryType moves the entry at lineIndex to the next type.
func (j *Journal) CycleEntryType(date time.Time, lineIndex int) error {
	return j.UpdateEntry(date, lineIndex, func(e *journal.Entry) error {
		e.Type = e.Type.Cycle()
		return nil
	})
}

// DeleteEntry removes the entry at lineIndex and returns it.
func (j *Journal) DeleteEntry(date time.Time, lineIndex int) (journal.Entry, error) {
	return j.deleteEntry(date, lineIndex, nil)
}

// DeleteRef removes the entry ref points at, with the same staleness check
// as UpdateRef.
func (j *Journal) DeleteRef(ref journal.CrossDayEntry) (journal.Entry, error) {
	want := ref.Entry()
	return j.deleteEntry(ref.SourceDate, ref.LineIndex, &want)
}

func (j *Journal) deleteEntry(date time.Time, lineIndex int, want *journal.Entry) (journal.Entry, error) {
	doc, err := j.Document()
	if err != nil {
		return journal.Entry{}, err
	}
	lines, err := entryAt(doc, date, lineIndex, want)
	if err != nil {
		return journal.Entry{}, err
	}
	removed := *lines[lineIndex].Entry
	doc.SetDay(date, journal.Remove(lines, lineIndex))
	if err := j.Save(doc.String()); err != nil {
		return journal.Entry{}, err
	}
	return removed, nil
}

// InsertEntry inserts e at lineIndex of date, or after the day's last entry
// when lineIndex is negative. It returns the line index used.
func (j *Journal) InsertEntry(date time.Time, lineIndex int, e journal.Entry) (int, error) {
	doc, err := j.Document()
	if err != nil {
		return 0, err
	}
	lines := doc.Day(date)
	if lineIndex < 0 || lineIndex > len(lines) {
		lineIndex = journal.InsertionPoint(lines)
	}
	doc.SetDay(date, journal.Insert(lines, lineIndex, journal.EntryLine(e)))
	if err := j.Save(doc.String()); err != nil {
		return 0, err
	}
	return lineIndex, nil
}
