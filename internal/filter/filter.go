// Package filter parses filter queries and evaluates them against the
// entries of every day in a journal.
package filter

import (
	"strings"
	"time"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
	"github.com/starford/daybook/internal/registry"
)

// TypeFilter selects entries by type.
type TypeFilter int

const (
	OpenTasks TypeFilter = iota
	DoneTasks
	AllTasks
	Notes
	Events
)

var typeBySyntax = map[string]TypeFilter{
	"!tasks":      OpenTasks,
	"!tasks/done": DoneTasks,
	"!tasks/all":  AllTasks,
	"!notes":      Notes,
	"!events":     Events,
}

// Matches reports whether an entry of type t passes f.
func (f TypeFilter) Matches(t journal.EntryType) bool {
	switch f {
	case OpenTasks:
		return t.IsTask() && !t.Completed
	case DoneTasks:
		return t.IsTask() && t.Completed
	case AllTasks:
		return t.IsTask()
	case Notes:
		return t.Kind == journal.KindNote
	case Events:
		return t.Kind == journal.KindEvent
	}
	return false
}

func (f TypeFilter) String() string {
	for s, tf := range typeBySyntax {
		if tf == f {
			return s
		}
	}
	return "!unknown"
}

const negationPrefix = "not:"

// Spec is a parsed filter query. All populated categories must match.
type Spec struct {
	// Query is the query text after saved filter expansion.
	Query string

	Types         []TypeFilter
	ExcludedTypes []TypeFilter
	Tags          []string
	ExcludedTags  []string
	// Text holds lowercased substrings; any one of them may match.
	Text         []string
	ExcludedText []string

	Before  *time.Time
	After   *time.Time
	Overdue bool

	// InvalidTokens lists tokens that were not understood. They are reported
	// and otherwise ignored.
	InvalidTokens []string

	today time.Time
}

// IsEmpty reports whether s has no predicates and so matches everything.
func (s *Spec) IsEmpty() bool {
	return len(s.Types) == 0 && len(s.ExcludedTypes) == 0 &&
		len(s.Tags) == 0 && len(s.ExcludedTags) == 0 &&
		len(s.Text) == 0 && len(s.ExcludedText) == 0 &&
		s.Before == nil && s.After == nil && !s.Overdue
}

// Expand substitutes $name tokens with the saved query stored under name.
// Substituted text is not expanded again. Unknown names are returned and left
// in place.
func Expand(query string, saved map[string]string) (string, []string) {
	fields := strings.Fields(query)
	var unknown []string
	for i, tok := range fields {
		name, ok := strings.CutPrefix(tok, "$")
		if !ok {
			continue
		}
		if q, found := saved[name]; found && name != "" {
			fields[i] = q
			continue
		}
		unknown = append(unknown, tok)
	}
	return strings.Join(fields, " "), unknown
}

// Parse expands saved filters in query and classifies every token. Parsing
// never fails: unknown tokens are collected in InvalidTokens.
func Parse(query string, saved map[string]string, today time.Time) *Spec {
	expanded, unknown := Expand(query, saved)
	s := &Spec{Query: expanded, today: dates.Truncate(today)}
	s.InvalidTokens = append(s.InvalidTokens, unknown...)

	isUnknown := make(map[string]bool, len(unknown))
	for _, u := range unknown {
		isUnknown[u] = true
	}
	for _, tok := range strings.Fields(expanded) {
		if isUnknown[tok] {
			continue
		}
		if !s.add(tok) {
			s.InvalidTokens = append(s.InvalidTokens, tok)
		}
	}
	return s
}

// add classifies one token and reports whether it was understood.
func (s *Spec) add(tok string) bool {
	if rest, ok := strings.CutPrefix(strings.ToLower(tok), negationPrefix); ok {
		return s.addNegated(tok[len(negationPrefix):], rest)
	}
	switch tok[0] {
	case '!':
		tf, ok := lookupType(tok)
		if ok {
			s.Types = append(s.Types, tf)
		}
		return ok
	case '#':
		name := tok[1:]
		if !parser.TagNameRe.MatchString(name) {
			return false
		}
		s.Tags = append(s.Tags, name)
		return true
	case '@':
		return s.addDateOp(tok[1:])
	case '$':
		return false
	}
	s.Text = append(s.Text, strings.ToLower(tok))
	return true
}

func (s *Spec) addNegated(raw, lower string) bool {
	if raw == "" {
		return false
	}
	switch raw[0] {
	case '!':
		tf, ok := lookupType(raw)
		if ok {
			s.ExcludedTypes = append(s.ExcludedTypes, tf)
		}
		return ok
	case '#':
		name := raw[1:]
		if !parser.TagNameRe.MatchString(name) {
			return false
		}
		s.ExcludedTags = append(s.ExcludedTags, name)
		return true
	case '@', '$':
		return false
	}
	s.ExcludedText = append(s.ExcludedText, lower)
	return true
}

func (s *Spec) addDateOp(op string) bool {
	lower := strings.ToLower(op)
	if lower == "overdue" {
		s.Overdue = true
		return true
	}
	name, value, ok := strings.Cut(lower, ":")
	if !ok {
		return false
	}
	d, ok := dates.Resolve(value, s.today, dates.ContextFilter)
	if !ok {
		return false
	}
	switch name {
	case "before":
		s.Before = &d
	case "after":
		s.After = &d
	default:
		return false
	}
	return true
}

func lookupType(tok string) (TypeFilter, bool) {
	f, ok := registry.LookupEntryType(tok)
	if !ok {
		return 0, false
	}
	tf, ok := typeBySyntax[f.Syntax]
	return tf, ok
}
