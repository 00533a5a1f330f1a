package session

import (
	"fmt"
	"time"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/filter"
	"github.com/starford/daybook/internal/journal"
)

// FilterView is the result of a filter query. Entries point at their storage
// location and are kept in step with edits made through the session.
type FilterView struct {
	Query   string
	Spec    *filter.Spec
	Entries []journal.FilterEntry
}

// Filter runs query over the whole journal and makes the result the current
// view.
func (s *Session) Filter(query string) (*FilterView, error) {
	spec := filter.Parse(query, s.opts.Filters, s.today())
	entries, err := filter.Collect(spec, s.journal)
	if err != nil {
		return nil, err
	}
	s.view = &FilterView{Query: query, Spec: spec, Entries: entries}
	return s.view, nil
}

// View returns the current filter view, or nil.
func (s *Session) View() *FilterView { return s.view }

// RefreshFilter re-runs the current view's query.
func (s *Session) RefreshFilter() (*FilterView, error) {
	if s.view == nil {
		return nil, fmt.Errorf("session: no filter: %w", apperr.ErrNotFound)
	}
	return s.Filter(s.view.Query)
}

func (s *Session) filteredAt(i int) (*journal.FilterEntry, error) {
	if s.view == nil || i < 0 || i >= len(s.view.Entries) {
		return nil, fmt.Errorf("session: filtered entry %d: %w", i, apperr.ErrNotFound)
	}
	return &s.view.Entries[i], nil
}

// ToggleFiltered flips completion of filtered entry i in its source day.
// An entry that no longer sits where the view recorded it is not touched.
func (s *Session) ToggleFiltered(i int) error {
	e, err := s.filteredAt(i)
	if err != nil {
		return err
	}
	err = s.journal.UpdateRef(*e, func(entry *journal.Entry) error {
		if !entry.Type.IsTask() {
			return apperr.ErrNotATask
		}
		entry.ToggleComplete()
		return nil
	})
	if err := s.writeThrough(e.SourceDate, err); err != nil {
		return err
	}
	e.Completed = !e.Completed
	e.Type.Completed = e.Completed
	return nil
}

// EditFiltered replaces the content of filtered entry i in its source day.
func (s *Session) EditFiltered(i int, content string) error {
	e, err := s.filteredAt(i)
	if err != nil {
		return err
	}
	content = s.Prepare(content)
	err = s.journal.UpdateRef(*e, func(entry *journal.Entry) error {
		entry.Content = content
		return nil
	})
	if err := s.writeThrough(e.SourceDate, err); err != nil {
		return err
	}
	e.Content = content
	return nil
}

// DeleteFiltered removes filtered entry i from its source day and from the
// view.
func (s *Session) DeleteFiltered(i int) error {
	e, err := s.filteredAt(i)
	if err != nil {
		return err
	}
	removed, err := s.journal.DeleteRef(*e)
	return s.deleted(e.SourceDate, e.LineIndex, removed, err)
}

// trackInsert moves view entries stored on date at or below line down by one.
func (s *Session) trackInsert(date time.Time, line int) {
	if s.view == nil {
		return
	}
	for k := range s.view.Entries {
		e := &s.view.Entries[k]
		if dates.SameDay(e.SourceDate, date) && e.LineIndex >= line {
			e.LineIndex++
		}
	}
}

// trackDelete drops the view entry stored at line of date and moves the ones
// below it up by one.
func (s *Session) trackDelete(date time.Time, line int) {
	if s.view == nil {
		return
	}
	kept := s.view.Entries[:0]
	for _, e := range s.view.Entries {
		if dates.SameDay(e.SourceDate, date) {
			if e.LineIndex == line {
				continue
			}
			if e.LineIndex > line {
				e.LineIndex--
			}
		}
		kept = append(kept, e)
	}
	s.view.Entries = kept
}

// trackEdit copies the entry now stored at line of date into the view.
func (s *Session) trackEdit(date time.Time, line int, entry journal.Entry) {
	if s.view == nil {
		return
	}
	for k := range s.view.Entries {
		e := &s.view.Entries[k]
		if dates.SameDay(e.SourceDate, date) && e.LineIndex == line {
			*e = journal.NewCrossDayEntry(e.SourceDate, line, entry)
		}
	}
}

// trackReload re-reads date and copies the entry at line into the view.
func (s *Session) trackReload(date time.Time, line int) error {
	if s.view == nil {
		return nil
	}
	lines, err := s.journal.LoadDayLines(date)
	if err != nil {
		return err
	}
	if line >= 0 && line < len(lines) && lines[line].IsEntry() {
		s.trackEdit(date, line, *lines[line].Entry)
	}
	return nil
}

// trackRewrite re-runs the view's query after changes that move lines in
// ways the view cannot follow.
func (s *Session) trackRewrite() error {
	if s.view == nil {
		return nil
	}
	_, err := s.Filter(s.view.Query)
	return err
}
