// Package later finds entries stored on one day whose @date places them on
// another, so they can be shown on the day they are due.
package later

import (
	"fmt"
	"time"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
)

// Target is where an entry projects: one resolved day, a recurrence, or both
// when the entry carries a date and a rule.
type Target struct {
	Date  time.Time
	Dated bool
	Rule  dates.Recurrence
	Recur bool
}

// Resolve inspects the @date tokens of content stored on source. The first
// single-date token and the first recurrence token are kept.
func Resolve(content string, source time.Time) Target {
	var t Target
	for _, tok := range parser.DateTokens(content) {
		if !t.Recur {
			if r, ok := dates.ParseRecurrence(tok); ok {
				t.Rule, t.Recur = r, true
				continue
			}
		}
		if !t.Dated {
			if d, ok := dates.Resolve(tok, source, dates.ContextEntry); ok {
				t.Date, t.Dated = d, true
			}
		}
	}
	return t
}

// Projects reports whether t places its entry on day, given it is stored on
// source. An entry never projects onto its own storage day, and recurrences
// only project forward from it.
func (t Target) Projects(source, day time.Time) bool {
	if dates.SameDay(source, day) {
		return false
	}
	if t.Dated && dates.SameDay(t.Date, day) {
		return true
	}
	return t.Recur && day.After(source) && t.Rule.Matches(day)
}

// Targets reports whether content stored on source projects onto day.
func Targets(content string, source, day time.Time) bool {
	return Resolve(content, source).Projects(source, day)
}

// Collect scans every day in src for entries that project onto day. Results
// point at the storage location of each entry.
func Collect(src journal.DaySource, day time.Time) ([]journal.LaterEntry, error) {
	days, err := src.Days()
	if err != nil {
		return nil, fmt.Errorf("later: collect: %w", err)
	}
	day = dates.Truncate(day)
	var out []journal.LaterEntry
	for _, d := range days {
		if dates.SameDay(d.Date, day) {
			continue
		}
		for _, i := range journal.EntryIndices(d.Lines) {
			e := *d.Lines[i].Entry
			if Targets(e.Content, d.Date, day) {
				out = append(out, journal.NewCrossDayEntry(d.Date, i, e))
			}
		}
	}
	return out, nil
}
