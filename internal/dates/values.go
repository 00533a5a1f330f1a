package dates

import (
	"strconv"
	"strings"
)

// ValueKind is the shape of a date vocabulary item.
type ValueKind int

const (
	// ValueEnum is a fixed set of words.
	ValueEnum ValueKind = iota
	// ValuePattern is a literal prefix followed by a number in a range.
	ValuePattern
	// ValueLiteral is a digit syntax such as MM/DD.
	ValueLiteral
)

// Scope says where a date form is legal. It is a bit set.
type Scope uint8

const (
	ScopeEntry Scope = 1 << iota
	ScopeFilter

	ScopeAll = ScopeEntry | ScopeFilter
)

// Has reports whether s includes o.
func (s Scope) Has(o Scope) bool { return s&o != 0 }

// DateValue describes one recognized date expression form.
type DateValue struct {
	Kind  ValueKind
	Scope Scope
	// Label is the display form, e.g. "d[1-999]".
	Label string
	// Hint is a human readable description.
	Hint string

	// Words holds the members of an enum.
	Words []string
	// Prefix, Min and Max describe a pattern.
	Prefix   string
	Min, Max int
	// Bias allows a trailing "+" or "-" after a full match.
	Bias bool
	// Syntax is the literal layout, groups of MM, DD, YY separated by "/".
	Syntax string
}

// Values is the date vocabulary in display order.
var Values = []DateValue{
	{
		Kind: ValueEnum, Scope: ScopeAll,
		Label: "today|tomorrow|yesterday", Hint: "relative day",
		Words: []string{"today", "tomorrow", "yesterday"},
	},
	{
		Kind: ValueEnum, Scope: ScopeAll, Bias: true,
		Label: "mon..sun", Hint: "nearest weekday (+ future, - past)",
		Words: []string{
			"mon", "monday", "tue", "tuesday", "wed", "wednesday", "thu", "thursday",
			"fri", "friday", "sat", "saturday", "sun", "sunday",
		},
	},
	{
		Kind: ValuePattern, Scope: ScopeAll, Bias: true,
		Label: "d[1-999]", Hint: "N days away (+ future, - past)",
		Prefix: "d", Min: 1, Max: 999,
	},
	{
		Kind: ValuePattern, Scope: ScopeEntry,
		Label: "every-[1-31]", Hint: "monthly on day N",
		Prefix: recurPrefix, Min: 1, Max: 31,
	},
	{
		Kind: ValueEnum, Scope: ScopeEntry,
		Label: "every-mon..every-sun", Hint: "weekly on a weekday",
		Words: []string{
			"every-mon", "every-monday", "every-tue", "every-tuesday", "every-wed", "every-wednesday",
			"every-thu", "every-thursday", "every-fri", "every-friday", "every-sat", "every-saturday",
			"every-sun", "every-sunday",
		},
	},
	{
		Kind: ValueLiteral, Scope: ScopeAll,
		Label: "MM/DD", Hint: "day of month",
		Syntax: "MM/DD",
	},
	{
		Kind: ValueLiteral, Scope: ScopeAll,
		Label: "MM/DD/YY", Hint: "day with year",
		Syntax: "MM/DD/YY",
	},
}

// ValuesFor returns the vocabulary items legal in scope.
func ValuesFor(scope Scope) []DateValue {
	var out []DateValue
	for _, v := range Values {
		if v.Scope.Has(scope) {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether s is a complete instance of v.
func (v DateValue) Matches(s string) bool {
	s = strings.ToLower(s)
	switch v.Kind {
	case ValueEnum:
		if v.Bias {
			s = trimBias(s)
		}
		for _, w := range v.Words {
			if w == s {
				return true
			}
		}
		return false
	case ValuePattern:
		rest, ok := strings.CutPrefix(s, v.Prefix)
		if !ok {
			return false
		}
		if v.Bias {
			rest = trimBias(rest)
		}
		n, ok := number(rest)
		return ok && n >= v.Min && n <= v.Max
	default:
		return v.literalMatch(s, false)
	}
}

// MatchesPrefix reports whether s can still be extended into a complete
// instance of v.
func (v DateValue) MatchesPrefix(s string) bool {
	s = strings.ToLower(s)
	switch v.Kind {
	case ValueEnum:
		if v.Bias && s != trimBias(s) {
			return v.Matches(s)
		}
		for _, w := range v.Words {
			if strings.HasPrefix(w, s) {
				return true
			}
		}
		return false
	case ValuePattern:
		if len(s) <= len(v.Prefix) {
			return strings.HasPrefix(v.Prefix, s)
		}
		rest, ok := strings.CutPrefix(s, v.Prefix)
		if !ok {
			return false
		}
		if v.Bias && rest != trimBias(rest) {
			return v.Matches(s)
		}
		n, ok := number(rest)
		if !ok {
			return false
		}
		for x := n; x <= v.Max; x *= 10 {
			if x >= v.Min {
				return true
			}
		}
		return false
	default:
		return v.literalMatch(s, true)
	}
}

// Complete returns a complete instance of v that starts with s. It reports
// false when s is not a valid prefix.
func (v DateValue) Complete(s string) (string, bool) {
	if !v.MatchesPrefix(s) {
		return "", false
	}
	lower := strings.ToLower(s)
	switch v.Kind {
	case ValueEnum:
		if v.Matches(lower) {
			return s, true
		}
		for _, w := range v.Words {
			if strings.HasPrefix(w, lower) {
				return s + w[len(lower):], true
			}
		}
	case ValuePattern:
		if len(lower) <= len(v.Prefix) {
			return s + v.Prefix[len(lower):] + strconv.Itoa(v.Min), true
		}
		if v.Matches(lower) {
			return s, true
		}
		n, _ := number(lower[len(v.Prefix):])
		tail := ""
		for n < v.Min {
			n *= 10
			tail += "0"
		}
		return s + tail, true
	default:
		return v.completeLiteral(s), true
	}
	return "", false
}

func trimBias(s string) string {
	if n := len(s); n > 1 && (s[n-1] == '+' || s[n-1] == '-') {
		return s[:n-1]
	}
	return s
}

// number parses a decimal without sign or leading zero.
func number(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func (v DateValue) groups() []string {
	return strings.Split(v.Syntax, "/")
}

func groupInRange(group string, n int) bool {
	switch group {
	case "MM":
		return n >= 1 && n <= 12
	case "DD":
		return n >= 1 && n <= 31
	default:
		return n >= 0 && n <= 99
	}
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// literalMatch checks s against the digit groups of v. With partial set, the
// last group may be empty or incomplete and fewer groups may be present.
func (v DateValue) literalMatch(s string, partial bool) bool {
	groups := v.groups()
	parts := strings.Split(s, "/")
	if len(parts) > len(groups) || (!partial && len(parts) != len(groups)) {
		return false
	}
	for i, p := range parts {
		g := groups[i]
		last := i == len(parts)-1
		if !digits(p) || len(p) > 2 {
			return false
		}
		if partial && last && len(p) < 2 {
			// One digit can always be completed: 0 to 01, any other digit stands.
			continue
		}
		if g == "YY" && len(p) != 2 {
			return false
		}
		if p == "" {
			return false
		}
		n, _ := strconv.Atoi(p)
		if !groupInRange(g, n) {
			return false
		}
	}
	return true
}

func (v DateValue) completeLiteral(s string) string {
	groups := v.groups()
	parts := strings.Split(s, "/")
	var b strings.Builder
	b.WriteString(s)
	last := parts[len(parts)-1]
	g := groups[len(parts)-1]
	switch {
	case last == "" && g == "YY":
		b.WriteString("00")
	case last == "":
		b.WriteString("01")
	case last == "0" && g != "YY":
		b.WriteString("1")
	case len(last) == 1 && g == "YY":
		b.WriteString("0")
	}
	for _, g := range groups[len(parts):] {
		if g == "YY" {
			b.WriteString("/00")
		} else {
			b.WriteString("/01")
		}
	}
	return b.String()
}
