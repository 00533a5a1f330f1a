// Package session holds one open day of a journal in memory and routes every
// entry, projection, filter and tag operation through it.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/hints"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/later"
	"github.com/starford/daybook/internal/parser"
	"github.com/starford/daybook/internal/storage"
	"github.com/starford/daybook/internal/tags"
)

// Options carries the read-only settings a session consumes.
type Options struct {
	FavoriteTags []string
	Filters      map[string]string
	SortOrder    []string
	// Index answers projection and tag queries when set. It is re-synced
	// before each query.
	Index  *index.DB
	Clock  func() time.Time
	Logger *slog.Logger
}

// deletion is the last removed entry, kept for undo.
type deletion struct {
	date  time.Time
	line  int
	entry journal.Entry
}

// Session is one open day of the active journal. Mutations are written
// through to the journal file immediately.
type Session struct {
	jc      *JournalContext
	opts    Options
	journal *storage.Journal

	date  time.Time
	lines []journal.Line

	lastDelete *deletion
	view       *FilterView
}

// New opens the active journal of jc on today.
func New(jc *JournalContext, opts Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.SortOrder) == 0 {
		opts.SortOrder = journal.DefaultSortOrder
	}
	s := &Session{jc: jc, opts: opts}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, s.Goto(s.today())
}

func (s *Session) open() error {
	path, err := s.jc.ActivePath()
	if err != nil {
		return err
	}
	j, err := storage.OpenJournal(path)
	if err != nil {
		return fmt.Errorf("session: open %s: %w", path, err)
	}
	s.journal = j
	s.lastDelete = nil
	s.view = nil
	return nil
}

func (s *Session) today() time.Time { return dates.Truncate(s.opts.Clock()) }

// Now returns the current day according to the session clock.
func (s *Session) Now() time.Time { return s.today() }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.opts.Logger }

// Journal returns the active journal.
func (s *Session) Journal() *storage.Journal { return s.journal }

// Context returns the journal context the session works on.
func (s *Session) Context() *JournalContext { return s.jc }

// Title returns the title set in the active journal's frontmatter, or "".
func (s *Session) Title() (string, error) {
	doc, err := s.journal.Document()
	if err != nil {
		return "", err
	}
	return parser.Title(journal.Serialize(doc.Preamble)), nil
}

// Date returns the open day.
func (s *Session) Date() time.Time { return s.date }

// Lines returns the open day's lines. Callers must not modify them.
func (s *Session) Lines() []journal.Line { return s.lines }

// Entries returns the open day's entries in document order.
func (s *Session) Entries() []journal.Entry {
	idx := journal.EntryIndices(s.lines)
	out := make([]journal.Entry, len(idx))
	for i, pos := range idx {
		out[i] = *s.lines[pos].Entry
	}
	return out
}

// Goto loads date's lines.
func (s *Session) Goto(date time.Time) error {
	date = dates.Truncate(date)
	lines, err := s.journal.LoadDayLines(date)
	if err != nil {
		return err
	}
	s.date, s.lines = date, lines
	return nil
}

// Today loads the current day.
func (s *Session) Today() error { return s.Goto(s.today()) }

// Reload re-reads the open day from disk.
func (s *Session) Reload() error { return s.Goto(s.date) }

// Save writes the open day back to the journal.
func (s *Session) Save() error {
	return s.journal.SaveDayLines(s.date, s.lines)
}

// Switch makes slot the active journal and reopens the current day in it.
func (s *Session) Switch(slot Slot) error {
	if err := s.jc.Switch(slot); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.Goto(s.date)
}

// Prepare expands favorite tag shortcuts and rewrites relative @dates in
// content as they are about to be stored.
func (s *Session) Prepare(content string) string {
	content = parser.ExpandFavorites(content, s.opts.FavoriteTags)
	return parser.NormalizeDates(content, s.today())
}

// position maps an entry index of the open day to its line position.
func (s *Session) position(i int) (int, error) {
	idx := journal.EntryIndices(s.lines)
	if i < 0 || i >= len(idx) {
		return 0, fmt.Errorf("session: entry %d on %s: %w", i, dates.FormatDay(s.date), apperr.ErrNotFound)
	}
	return idx[i], nil
}

// AddEntry inserts e before the entry at index at, or after the last entry
// when at is negative or past the end. It returns the new entry's index.
func (s *Session) AddEntry(e journal.Entry, at int) (int, error) {
	e.Content = s.Prepare(e.Content)
	idx := journal.EntryIndices(s.lines)
	pos := journal.InsertionPoint(s.lines)
	if at >= 0 && at < len(idx) {
		pos = idx[at]
	}
	s.lines = journal.Insert(s.lines, pos, journal.EntryLine(e))
	if err := s.Save(); err != nil {
		return 0, err
	}
	s.trackInsert(s.date, pos)
	for i, p := range journal.EntryIndices(s.lines) {
		if p == pos {
			return i, nil
		}
	}
	return 0, nil
}

// EditEntry replaces the content of entry i.
func (s *Session) EditEntry(i int, content string) error {
	pos, err := s.position(i)
	if err != nil {
		return err
	}
	s.lines[pos].Entry.Content = s.Prepare(content)
	return s.saveEntry(pos)
}

// ToggleEntry flips completion of task i.
func (s *Session) ToggleEntry(i int) error {
	pos, err := s.position(i)
	if err != nil {
		return err
	}
	e := s.lines[pos].Entry
	if !e.Type.IsTask() {
		return apperr.ErrNotATask
	}
	e.ToggleComplete()
	return s.saveEntry(pos)
}

// CycleEntryType moves entry i to the next type.
func (s *Session) CycleEntryType(i int) error {
	pos, err := s.position(i)
	if err != nil {
		return err
	}
	e := s.lines[pos].Entry
	e.Type = e.Type.Cycle()
	return s.saveEntry(pos)
}

// saveEntry saves the open day after the entry at line pos changed in place.
func (s *Session) saveEntry(pos int) error {
	if err := s.Save(); err != nil {
		return err
	}
	s.trackEdit(s.date, pos, *s.lines[pos].Entry)
	return nil
}

// DeleteEntry removes entry i. It can be restored with Undo.
func (s *Session) DeleteEntry(i int) error {
	pos, err := s.position(i)
	if err != nil {
		return err
	}
	removed := *s.lines[pos].Entry
	s.lines = journal.Remove(s.lines, pos)
	if err := s.Save(); err != nil {
		return err
	}
	s.lastDelete = &deletion{date: s.date, line: pos, entry: removed}
	s.trackDelete(s.date, pos)
	return nil
}

// Undo restores the last deleted entry at its old position.
func (s *Session) Undo() error {
	d := s.lastDelete
	if d == nil {
		return apperr.ErrNothingToUndo
	}
	line := d.line
	if dates.SameDay(d.date, s.date) {
		s.lines = journal.Insert(s.lines, line, journal.EntryLine(d.entry))
		if err := s.Save(); err != nil {
			return err
		}
	} else {
		var err error
		if line, err = s.journal.InsertEntry(d.date, line, d.entry); err != nil {
			return err
		}
	}
	s.lastDelete = nil
	s.trackInsert(d.date, line)
	return nil
}

// SortEntries reorders the open day's entries by the configured sort order.
func (s *Session) SortEntries() error {
	s.lines = journal.SortEntries(s.lines, s.opts.SortOrder)
	if err := s.Save(); err != nil {
		return err
	}
	return s.trackRewrite()
}

// LaterEntries returns the entries of other days that project onto the open
// day.
func (s *Session) LaterEntries() ([]journal.LaterEntry, error) {
	if s.opts.Index != nil {
		if _, err := index.Sync(s.opts.Index, s.journal, s.opts.Logger); err != nil {
			return nil, err
		}
		return s.opts.Index.LaterEntries(s.journal.Path(), s.date)
	}
	return later.Collect(s.journal, s.date)
}

func (s *Session) laterAt(i int) (journal.LaterEntry, error) {
	entries, err := s.LaterEntries()
	if err != nil {
		return journal.LaterEntry{}, err
	}
	if i < 0 || i >= len(entries) {
		return journal.LaterEntry{}, fmt.Errorf("session: later entry %d: %w", i, apperr.ErrNotFound)
	}
	return entries[i], nil
}

// ToggleLater flips completion of later entry i in its source day.
func (s *Session) ToggleLater(i int) error {
	e, err := s.laterAt(i)
	if err != nil {
		return err
	}
	if err := s.writeThrough(e.SourceDate, s.journal.ToggleEntry(e.SourceDate, e.LineIndex)); err != nil {
		return err
	}
	return s.trackReload(e.SourceDate, e.LineIndex)
}

// EditLater replaces the content of later entry i in its source day.
func (s *Session) EditLater(i int, content string) error {
	e, err := s.laterAt(i)
	if err != nil {
		return err
	}
	if err := s.writeThrough(e.SourceDate, s.journal.EditEntry(e.SourceDate, e.LineIndex, s.Prepare(content))); err != nil {
		return err
	}
	return s.trackReload(e.SourceDate, e.LineIndex)
}

// DeleteLater removes later entry i from its source day.
func (s *Session) DeleteLater(i int) error {
	e, err := s.laterAt(i)
	if err != nil {
		return err
	}
	removed, err := s.journal.DeleteEntry(e.SourceDate, e.LineIndex)
	return s.deleted(e.SourceDate, e.LineIndex, removed, err)
}

// deleted records a write-through delete of line on date for undo and the
// filter view.
func (s *Session) deleted(date time.Time, line int, removed journal.Entry, err error) error {
	if err := s.writeThrough(date, err); err != nil {
		return err
	}
	s.lastDelete = &deletion{date: date, line: line, entry: removed}
	s.trackDelete(date, line)
	return nil
}

// writeThrough reloads the open day when a write to date touched it.
func (s *Session) writeThrough(date time.Time, err error) error {
	if err != nil {
		return err
	}
	if dates.SameDay(date, s.date) {
		return s.Reload()
	}
	return nil
}

// DeleteTag removes tag from every entry of the journal and returns the
// number of occurrences removed.
func (s *Session) DeleteTag(tag string) (int, error) {
	text, err := s.journal.Load()
	if err != nil {
		return 0, err
	}
	out, n := tags.Delete(text, tag)
	return n, s.rewrite(out, n)
}

// RenameTag renames old to new across the journal and returns the number of
// occurrences renamed. Invalid names are rejected before anything changes.
func (s *Session) RenameTag(old, new string) (int, error) {
	text, err := s.journal.Load()
	if err != nil {
		return 0, err
	}
	out, n, err := tags.Rename(text, old, new)
	if err != nil {
		return 0, err
	}
	return n, s.rewrite(out, n)
}

func (s *Session) rewrite(text string, n int) error {
	if n == 0 {
		return nil
	}
	if err := s.journal.Save(text); err != nil {
		return err
	}
	s.lastDelete = nil
	if err := s.Reload(); err != nil {
		return err
	}
	return s.trackRewrite()
}

// JournalTags returns the distinct tags used in the journal.
func (s *Session) JournalTags() ([]string, error) {
	if s.opts.Index != nil {
		if _, err := index.Sync(s.opts.Index, s.journal, s.opts.Logger); err != nil {
			return nil, err
		}
		return s.opts.Index.Tags(s.journal.Path())
	}
	text, err := s.journal.Load()
	if err != nil {
		return nil, err
	}
	return tags.Collect(text), nil
}

// SavedFilterNames returns the names of the saved filters, sorted.
func (s *Session) SavedFilterNames() []string {
	names := make([]string, 0, len(s.opts.Filters))
	for name := range s.opts.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hints computes completions for input typed in mode. A journal that cannot
// be read contributes no tags.
func (s *Session) Hints(input string, mode hints.Mode) hints.Context {
	journalTags, err := s.JournalTags()
	if err != nil {
		s.opts.Logger.Debug("session: tags unavailable", slog.String("error", err.Error()))
	}
	return hints.Compute(input, mode, journalTags, s.SavedFilterNames())
}
