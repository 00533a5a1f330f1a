// Package parser extracts inline #tags and @date tokens from entry content,
// rewrites them on save, and reads YAML frontmatter from a journal preamble.
package parser

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/daybook/internal/dates"
)

// TagName is the grammar of a tag name, the part after '#'.
const TagName = `[A-Za-z][A-Za-z0-9_-]*`

// TagNameRe matches a whole string that is a valid tag name.
var TagNameRe = regexp.MustCompile(`^` + TagName + `$`)

var (
	tagRe  = regexp.MustCompile(`(?:^|\s)#(` + TagName + `)`)
	dateRe = regexp.MustCompile(`(^|\s)@([A-Za-z0-9][A-Za-z0-9/+-]*)`)
	absRe  = regexp.MustCompile(`^[0-9/]+$`)
)

// Result holds the inline tokens of one entry.
type Result struct {
	Tags  []string
	Dates []string
}

// Parse extracts tags and date tokens from entry content.
func Parse(content string) Result {
	return Result{
		Tags:  Tags(content),
		Dates: DateTokens(content),
	}
}

// Tags returns the #tags in content without the sigil, deduplicated
// case-insensitively, keeping the first spelling seen.
func Tags(content string) []string {
	matches := tagRe.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		key := strings.ToLower(m[1])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// HasTag reports whether content carries #tag, compared case-insensitively.
func HasTag(content, tag string) bool {
	for _, t := range Tags(content) {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DateTokens returns the @date tokens in content without the sigil.
func DateTokens(content string) []string {
	matches := dateRe.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[2])
	}
	return out
}

// EntryDate returns the first @date token that resolves to a single day,
// interpreted relative to ref with a future bias.
func EntryDate(content string, ref time.Time) (time.Time, bool) {
	for _, tok := range DateTokens(content) {
		if d, ok := dates.Resolve(tok, ref, dates.ContextEntry); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// NormalizeDates rewrites relative @date tokens (tomorrow, weekdays, dN) into
// absolute ones so they keep their meaning after today has passed. Absolute
// dates and recurrences are left alone.
func NormalizeDates(content string, today time.Time) string {
	return dateRe.ReplaceAllStringFunc(content, func(match string) string {
		sub := dateRe.FindStringSubmatch(match)
		lead, tok := sub[1], sub[2]
		if absRe.MatchString(tok) {
			return match
		}
		if _, ok := dates.ParseRecurrence(tok); ok {
			return match
		}
		d, ok := dates.Resolve(tok, today, dates.ContextEntry)
		if !ok {
			return match
		}
		short := dates.FormatShort(d)
		if back, ok := dates.Resolve(short, today, dates.ContextEntry); !ok || !back.Equal(d) {
			short = d.Format("01/02/06")
		}
		return lead + "@" + short
	})
}

// ExpandFavorites replaces #1..#9 with the first nine favorite tags and #0
// with the tenth. Digits without a configured favorite are kept.
func ExpandFavorites(content string, favorites []string) string {
	if len(favorites) == 0 || !strings.Contains(content, "#") {
		return content
	}
	var b strings.Builder
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '#' && (i == 0 || isSpace(content[i-1])) && i+1 < len(content) && isDigit(content[i+1]) &&
			(i+2 == len(content) || !IsTagChar(content[i+2])) {
			slot := int(content[i+1] - '1')
			if content[i+1] == '0' {
				slot = 9
			}
			if slot < len(favorites) && favorites[slot] != "" {
				b.WriteByte('#')
				b.WriteString(favorites[slot])
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsTagChar reports whether c can continue a tag name.
func IsTagChar(c byte) bool {
	return isDigit(c) || c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Frontmatter separates YAML frontmatter (between leading --- delimiters)
// from the rest of text. If no frontmatter is found the entire text is body.
func Frontmatter(text string) (map[string]interface{}, string) {
	const delim = "---"
	data := []byte(text)
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, text
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, text
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML falls back to body only.
		return nil, text
	}
	return fm, body
}

// Title returns the "title" frontmatter field of a journal preamble, if any.
func Title(preamble string) string {
	fm, _ := Frontmatter(preamble)
	if fm == nil {
		return ""
	}
	if s, ok := fm["title"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
