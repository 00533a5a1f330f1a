package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
)

// Matches reports whether e, stored on source, satisfies every populated
// category of s.
func (s *Spec) Matches(e journal.Entry, source time.Time) bool {
	for _, tf := range s.Types {
		if !tf.Matches(e.Type) {
			return false
		}
	}
	for _, tf := range s.ExcludedTypes {
		if tf.Matches(e.Type) {
			return false
		}
	}

	for _, tag := range s.Tags {
		if !parser.HasTag(e.Content, tag) {
			return false
		}
	}
	for _, tag := range s.ExcludedTags {
		if parser.HasTag(e.Content, tag) {
			return false
		}
	}

	lower := strings.ToLower(e.Content)
	if len(s.Text) > 0 {
		found := false
		for _, t := range s.Text {
			if strings.Contains(lower, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, t := range s.ExcludedText {
		if strings.Contains(lower, t) {
			return false
		}
	}

	if s.Before != nil || s.After != nil {
		eff := source
		if d, ok := parser.EntryDate(e.Content, source); ok {
			eff = d
		}
		if s.Before != nil && !eff.Before(*s.Before) {
			return false
		}
		if s.After != nil && !eff.After(*s.After) {
			return false
		}
	}
	if s.Overdue {
		d, ok := parser.EntryDate(e.Content, source)
		if !ok || !d.Before(s.today) {
			return false
		}
	}
	return true
}

// Collect returns every entry in src that matches s, ordered by source date
// and then by position within the day.
func Collect(s *Spec, src journal.DaySource) ([]journal.FilterEntry, error) {
	days, err := src.Days()
	if err != nil {
		return nil, fmt.Errorf("filter: collect: %w", err)
	}
	var out []journal.FilterEntry
	for _, day := range days {
		for _, i := range journal.EntryIndices(day.Lines) {
			e := *day.Lines[i].Entry
			if s.Matches(e, day.Date) {
				out = append(out, journal.NewCrossDayEntry(day.Date, i, e))
			}
		}
	}
	return out, nil
}
