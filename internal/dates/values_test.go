package dates

import (
	"strings"
	"testing"
)

func value(t *testing.T, label string) DateValue {
	t.Helper()
	for _, v := range Values {
		if v.Label == label {
			return v
		}
	}
	t.Fatalf("no date value labelled %q", label)
	return DateValue{}
}

func TestDateValue_MatchesPrefix(t *testing.T) {
	tests := []struct {
		label string
		in    string
		want  bool
	}{
		{"d[1-999]", "", true},
		{"d[1-999]", "d", true},
		{"d[1-999]", "d1", true},
		{"d[1-999]", "d99", true},
		{"d[1-999]", "d999", true},
		{"d[1-999]", "d0", false},
		{"d[1-999]", "d1000", false},
		{"d[1-999]", "d3+", true},
		{"d[1-999]", "dx", false},
		{"every-[1-31]", "every-", true},
		{"every-[1-31]", "ev", true},
		{"every-[1-31]", "every-3", true},
		{"every-[1-31]", "every-0", false},
		{"every-[1-31]", "every-4", true},
		{"every-[1-31]", "every-32", false},
		{"every-mon..every-sun", "every-", true},
		{"every-mon..every-sun", "every-fr", true},
		{"mon..sun", "TH", true},
		{"mon..sun", "fri-", true},
		{"mon..sun", "fr-", false},
		{"MM/DD", "", true},
		{"MM/DD", "1", true},
		{"MM/DD", "12/", true},
		{"MM/DD", "12/3", true},
		{"MM/DD", "13", false},
		{"MM/DD", "00", false},
		{"MM/DD", "0/", false},
		{"MM/DD", "12/31/", false},
		{"MM/DD/YY", "12/31/", true},
		{"MM/DD/YY", "12/31/2", true},
		{"MM/DD/YY", "12/32", false},
	}
	for _, tt := range tests {
		v := value(t, tt.label)
		if got := v.MatchesPrefix(tt.in); got != tt.want {
			t.Errorf("%s MatchesPrefix(%q) = %v, want %v", tt.label, tt.in, got, tt.want)
		}
	}
}

func TestDateValue_Matches(t *testing.T) {
	tests := []struct {
		label string
		in    string
		want  bool
	}{
		{"d[1-999]", "d1", true},
		{"d[1-999]", "d", false},
		{"d[1-999]", "d7-", true},
		{"every-[1-31]", "every-31", true},
		{"every-[1-31]", "every-3+", false},
		{"today|tomorrow|yesterday", "Tomorrow", true},
		{"today|tomorrow|yesterday", "tom", false},
		{"MM/DD", "1/5", true},
		{"MM/DD", "1/", false},
		{"MM/DD/YY", "01/05/2", false},
		{"MM/DD/YY", "01/05/27", true},
	}
	for _, tt := range tests {
		v := value(t, tt.label)
		if got := v.Matches(tt.in); got != tt.want {
			t.Errorf("%s Matches(%q) = %v, want %v", tt.label, tt.in, got, tt.want)
		}
	}
}

// Every accepted prefix must have a completion that fully matches.
func TestDateValue_PrefixConsistency(t *testing.T) {
	prefixes := []string{
		"", "d", "d1", "d9", "d10", "d99", "d100", "d999", "d5+", "D2",
		"e", "ev", "every", "every-", "every-1", "every-3", "every-4", "every-31", "every-w", "every-thursday",
		"t", "to", "tom", "y", "m", "s", "sun-", "Fr",
		"0", "1", "2", "9", "1/", "01/", "1/0", "1/3", "12/31", "12/31/", "12/31/9",
	}
	for _, v := range Values {
		for _, p := range prefixes {
			if !v.MatchesPrefix(p) {
				continue
			}
			c, ok := v.Complete(p)
			if !ok {
				t.Errorf("%s: Complete(%q) ok = false for an accepted prefix", v.Label, p)
				continue
			}
			if !strings.HasPrefix(c, p) {
				t.Errorf("%s: Complete(%q) = %q does not extend the prefix", v.Label, p, c)
			}
			if !v.Matches(c) {
				t.Errorf("%s: Complete(%q) = %q does not match", v.Label, p, c)
			}
		}
	}
}

func TestDateValue_CompleteRejected(t *testing.T) {
	v := value(t, "d[1-999]")
	if _, ok := v.Complete("d0"); ok {
		t.Error("Complete(d0) ok = true, want false")
	}
}

func TestValuesFor(t *testing.T) {
	for _, v := range ValuesFor(ScopeFilter) {
		if strings.HasPrefix(v.Label, "every-") {
			t.Errorf("filter scope includes recurrence %q", v.Label)
		}
	}
	if got := len(ValuesFor(ScopeEntry)); got != len(Values) {
		t.Errorf("len(ValuesFor(ScopeEntry)) = %d, want %d", got, len(Values))
	}
}
