// Package tags renames and deletes #tags across a whole journal text.
package tags

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
)

// ValidateName checks that name can be written as a #tag.
func ValidateName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("tag name is required"),
		validation.Match(parser.TagNameRe).Error("tag must start with a letter and contain only letters, digits, _ or -"),
	)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", apperr.ErrInvalidTag, name, err)
	}
	return nil
}

func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[ \t]+)#` + regexp.QuoteMeta(tag))
}

// boundary reports whether the tag match ending at end is a whole tag name.
func boundary(line string, end int) bool {
	return end >= len(line) || !parser.IsTagChar(line[end])
}

// Count returns the number of #tag occurrences in text.
func Count(text, tag string) int {
	if tag == "" {
		return 0
	}
	re := tagPattern(tag)
	n := 0
	for _, line := range strings.Split(text, "\n") {
		for _, m := range re.FindAllStringIndex(line, -1) {
			if boundary(line, m[1]) {
				n++
			}
		}
	}
	return n
}

// Delete removes every #tag occurrence together with the whitespace before
// it. Entries left without content are dropped.
func Delete(text, tag string) (string, int) {
	if tag == "" {
		return text, 0
	}
	re := tagPattern(tag)
	return rewrite(text, func(line string) (string, int) {
		return replace(line, re, func(lead string) string { return "" })
	})
}

// Rename rewrites every #old occurrence to #new. The new name is validated
// first; an invalid name leaves text untouched.
func Rename(text, old, new string) (string, int, error) {
	if err := ValidateName(new); err != nil {
		return text, 0, err
	}
	if old == "" {
		return text, 0, fmt.Errorf("%w: empty tag", apperr.ErrInvalidTag)
	}
	re := tagPattern(old)
	out, n := rewrite(text, func(line string) (string, int) {
		return replace(line, re, func(lead string) string { return lead + "#" + new })
	})
	return out, n, nil
}

// replace substitutes whole-tag matches in one line. A tag deleted at the
// start of a line also takes one following space.
func replace(line string, re *regexp.Regexp, with func(lead string) string) (string, int) {
	var b strings.Builder
	last, n := 0, 0
	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		if !boundary(line, m[1]) {
			continue
		}
		lead := line[m[2]:m[3]]
		b.WriteString(line[last:m[0]])
		rep := with(lead)
		b.WriteString(rep)
		last = m[1]
		if rep == "" && lead == "" && last < len(line) && line[last] == ' ' {
			last++
		}
		n++
	}
	if n == 0 {
		return line, 0
	}
	b.WriteString(line[last:])
	return b.String(), n
}

// rewrite applies fn to every line, drops entry lines that fn left empty and
// collapses blank lines made adjacent by a drop.
func rewrite(text string, fn func(string) (string, int)) (string, int) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	total := 0
	dropped := false
	for _, line := range lines {
		next, n := fn(line)
		total += n
		if n > 0 && emptyEntry(next) {
			dropped = true
			continue
		}
		if dropped && isBlank(next) && len(out) > 0 && isBlank(out[len(out)-1]) {
			dropped = false
			continue
		}
		dropped = false
		out = append(out, next)
	}
	if total == 0 {
		return text, 0
	}
	return strings.Join(out, "\n"), total
}

func emptyEntry(line string) bool {
	// A marker whose trailing space went with the tag, e.g. "- [ ]".
	switch strings.TrimSpace(line) {
	case "-", "*", "- [ ]", "- [x]":
		return true
	}
	l := journal.ParseLine(line)
	return l.IsEntry() && strings.TrimSpace(l.Entry.Content) == ""
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Collect returns the distinct tags used in text, sorted case-insensitively.
func Collect(text string) []string {
	out := parser.Tags(text)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
