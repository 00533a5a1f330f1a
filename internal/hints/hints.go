// Package hints computes completion candidates for partially typed command,
// filter and entry input.
package hints

import (
	"strings"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/registry"
)

// Mode is the kind of input being typed.
type Mode int

const (
	ModeCommand Mode = iota
	ModeFilter
	ModeEntry
)

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(name) {
	case "command", "cmd":
		return ModeCommand, true
	case "filter", "query":
		return ModeFilter, true
	case "entry", "edit":
		return ModeEntry, true
	}
	return 0, false
}

// Kind discriminates Context.
type Kind int

const (
	Inactive Kind = iota
	Guidance
	Tags
	Commands
	FilterTypes
	DateOps
	DateValues
	SavedFilters
	Negation
)

var kindNames = [...]string{"inactive", "guidance", "tags", "commands", "filter_types", "date_ops", "date_values", "saved_filters", "negation"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Context is the result of a hint computation. Which fields are set depends
// on Kind: Candidates for every completing kind, Commands, Syntax or Values
// for the registry-backed kinds, Message for Guidance and Inner for Negation.
type Context struct {
	Kind Kind
	// Prefix is the part of the current token typed so far, without sigil.
	Prefix string
	// Candidates are complete tokens (without sigil) that extend Prefix.
	Candidates []string

	Commands []registry.Command
	Syntax   []registry.FilterSyntax
	Values   []dates.DateValue
	Message  string
	Inner    *Context
}

// Active reports whether there is anything to show.
func (c Context) Active() bool { return c.Kind != Inactive }

// FirstCompletion returns the text that accepting the first candidate would
// insert after the cursor.
func (c Context) FirstCompletion() (string, bool) {
	switch c.Kind {
	case Inactive, Guidance:
		return "", false
	case Negation:
		if c.Inner == nil {
			return "", false
		}
		return c.Inner.FirstCompletion()
	}
	if len(c.Candidates) == 0 || len(c.Prefix) > len(c.Candidates[0]) {
		return "", false
	}
	return c.Candidates[0][len(c.Prefix):], true
}

const negationPrefix = "not:"

// Compute returns the hints for input typed in mode.
func Compute(input string, mode Mode, journalTags, savedFilters []string) Context {
	switch mode {
	case ModeCommand:
		return commandHints(input)
	case ModeFilter:
		return filterHints(lastToken(input), journalTags, savedFilters)
	case ModeEntry:
		return entryHints(lastToken(input), journalTags)
	}
	return Context{}
}

// lastToken returns the whitespace-delimited token under the cursor, or ""
// when the input ends in whitespace.
func lastToken(input string) string {
	if input == "" || strings.HasSuffix(input, " ") || strings.HasSuffix(input, "\t") {
		return ""
	}
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// collapse turns an empty result, or a single candidate equal to what was
// typed, into Inactive.
func collapse(c Context) Context {
	if len(c.Candidates) == 0 {
		return Context{}
	}
	if len(c.Candidates) == 1 && strings.EqualFold(c.Candidates[0], c.Prefix) {
		return Context{}
	}
	return c
}

func commandHints(input string) Context {
	prefix := strings.TrimSpace(input)
	if strings.ContainsAny(prefix, " \t") {
		return Context{}
	}
	c := Context{Kind: Commands, Prefix: prefix}
	for _, cmd := range registry.Commands {
		cand := ""
		if hasPrefixFold(cmd.Name, prefix) {
			cand = cmd.Name
		} else {
			for _, a := range cmd.Aliases {
				if hasPrefixFold(a, prefix) {
					cand = a
					break
				}
			}
		}
		if cand == "" {
			continue
		}
		c.Commands = append(c.Commands, cmd)
		c.Candidates = append(c.Candidates, cand)
	}
	return collapse(c)
}

func filterHints(tok string, journalTags, savedFilters []string) Context {
	if tok == "" {
		return Context{}
	}
	if hasPrefixFold(tok, negationPrefix) {
		rest := tok[len(negationPrefix):]
		if rest == "" {
			guide := Context{Kind: Guidance, Message: "exclude a #tag, an !type or a word"}
			return Context{Kind: Negation, Syntax: registry.Syntax(registry.CategoryNegation), Inner: &guide}
		}
		inner := filterHints(rest, journalTags, savedFilters)
		if !inner.Active() || inner.Kind == Negation || inner.Kind == SavedFilters || inner.Kind == DateOps {
			return Context{}
		}
		return Context{Kind: Negation, Prefix: inner.Prefix, Inner: &inner}
	}

	switch tok[0] {
	case '#':
		return tagHints(tok[1:], journalTags)
	case '!':
		return filterTypeHints(tok[1:])
	case '@':
		rest := tok[1:]
		if op, value, ok := strings.Cut(rest, ":"); ok {
			if !strings.EqualFold(op, "before") && !strings.EqualFold(op, "after") {
				return Context{}
			}
			return dateValueHints(value, dates.ScopeFilter)
		}
		return dateOpHints(rest)
	case '$':
		return savedFilterHints(tok[1:], savedFilters)
	}
	return Context{}
}

func entryHints(tok string, journalTags []string) Context {
	if tok == "" {
		return Context{}
	}
	switch tok[0] {
	case '#':
		return tagHints(tok[1:], journalTags)
	case '@':
		return dateValueHints(tok[1:], dates.ScopeEntry)
	}
	return Context{}
}

func tagHints(prefix string, journalTags []string) Context {
	c := Context{Kind: Tags, Prefix: prefix}
	for _, t := range journalTags {
		if hasPrefixFold(t, prefix) {
			c.Candidates = append(c.Candidates, t)
		}
	}
	return collapse(c)
}

func filterTypeHints(prefix string) Context {
	c := Context{Kind: FilterTypes, Prefix: prefix}
	for _, f := range registry.Syntax(registry.CategoryEntryType) {
		cand := ""
		if hasPrefixFold(f.Syntax[1:], prefix) {
			cand = f.Syntax[1:]
		} else {
			for _, a := range f.Aliases {
				if hasPrefixFold(a[1:], prefix) {
					cand = a[1:]
					break
				}
			}
		}
		if cand == "" {
			continue
		}
		c.Syntax = append(c.Syntax, f)
		c.Candidates = append(c.Candidates, cand)
	}
	return collapse(c)
}

func dateOpHints(prefix string) Context {
	c := Context{Kind: DateOps, Prefix: prefix}
	for _, f := range registry.Syntax(registry.CategoryDateOp) {
		if hasPrefixFold(f.Syntax[1:], prefix) {
			c.Syntax = append(c.Syntax, f)
			c.Candidates = append(c.Candidates, f.Syntax[1:])
		}
	}
	return collapse(c)
}

// dateValueHints lists each vocabulary item once, with one concrete
// completion per item.
func dateValueHints(prefix string, scope dates.Scope) Context {
	c := Context{Kind: DateValues, Prefix: prefix}
	for _, v := range dates.ValuesFor(scope) {
		cand, ok := v.Complete(prefix)
		if !ok {
			continue
		}
		c.Values = append(c.Values, v)
		c.Candidates = append(c.Candidates, cand)
	}
	return collapse(c)
}

func savedFilterHints(prefix string, names []string) Context {
	c := Context{Kind: SavedFilters, Prefix: prefix}
	for _, n := range names {
		if hasPrefixFold(n, prefix) {
			c.Candidates = append(c.Candidates, n)
		}
	}
	return collapse(c)
}
