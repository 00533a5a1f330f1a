package dates

import (
	"testing"
	"time"
)

// 2026/10/17 is a Saturday.
var today = Of(2026, 10, 17)

func TestResolve(t *testing.T) {
	tests := []struct {
		expr string
		ctx  Context
		want time.Time
	}{
		{"today", ContextEntry, today},
		{"t", ContextFilter, today},
		{"tomorrow", ContextFilter, Of(2026, 10, 18)},
		{"Yesterday", ContextEntry, Of(2026, 10, 16)},

		{"mon", ContextEntry, Of(2026, 10, 19)},
		{"mon", ContextFilter, Of(2026, 10, 12)},
		{"mon+", ContextFilter, Of(2026, 10, 19)},
		{"mon-", ContextEntry, Of(2026, 10, 12)},
		{"sat", ContextEntry, Of(2026, 10, 24)},
		{"sat", ContextFilter, Of(2026, 10, 10)},
		{"tu", ContextEntry, Of(2026, 10, 20)},
		{"th", ContextEntry, Of(2026, 10, 22)},
		{"friday", ContextEntry, Of(2026, 10, 23)},

		{"d1", ContextEntry, Of(2026, 10, 18)},
		{"d7", ContextFilter, Of(2026, 10, 10)},
		{"d7+", ContextFilter, Of(2026, 10, 24)},
		{"d999", ContextEntry, today.AddDate(0, 0, 999)},

		{"10/20", ContextEntry, Of(2026, 10, 20)},
		{"01/20", ContextEntry, Of(2027, 1, 20)},
		{"01/20", ContextFilter, Of(2026, 1, 20)},
		{"12/01", ContextFilter, Of(2026, 12, 1)},
		{"10/17", ContextEntry, today},
		{"1/5/27", ContextEntry, Of(2027, 1, 5)},
		{"01/05/25", ContextFilter, Of(2025, 1, 5)},
		{"2026/02/03", ContextEntry, Of(2026, 2, 3)},

		{"01/20", ContextInterface, Of(2027, 1, 20)},
		{"06/01", ContextInterface, Of(2026, 6, 1)},
		{"10/10", ContextInterface, Of(2026, 10, 10)},
	}
	for _, tt := range tests {
		got, ok := Resolve(tt.expr, today, tt.ctx)
		if !ok {
			t.Errorf("Resolve(%q, %d) ok = false", tt.expr, tt.ctx)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Resolve(%q, %d) = %s, want %s", tt.expr, tt.ctx, FormatDay(got), FormatDay(tt.want))
		}
	}
}

func TestResolve_Rejects(t *testing.T) {
	for _, expr := range []string{
		"", "d0", "d01", "d1000", "s", "someday", "13/01", "02/30", "every-5", "every-mon",
		"today+", "01/20+", "2026/02/29",
	} {
		if got, ok := Resolve(expr, today, ContextEntry); ok {
			t.Errorf("Resolve(%q) = %s, want rejection", expr, FormatDay(got))
		}
	}
}

func TestResolve_LeapDayEntryRollsToNextLeapYear(t *testing.T) {
	got, ok := Resolve("02/29", today, ContextEntry)
	if !ok {
		t.Fatal("Resolve(02/29) ok = false")
	}
	if want := Of(2028, 2, 29); !got.Equal(want) {
		t.Errorf("Resolve(02/29) = %s, want %s", FormatDay(got), FormatDay(want))
	}
}

func TestLookupWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"m": time.Monday, "tu": time.Tuesday, "w": time.Wednesday, "th": time.Thursday,
		"f": time.Friday, "sa": time.Saturday, "su": time.Sunday, "SUNDAY": time.Sunday,
	}
	for in, want := range tests {
		got, ok := LookupWeekday(in)
		if !ok || got != want {
			t.Errorf("LookupWeekday(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"t", "s", "x", "mondays"} {
		if _, ok := LookupWeekday(in); ok {
			t.Errorf("LookupWeekday(%q) ok = true, want false", in)
		}
	}
}

func TestRecurrence(t *testing.T) {
	r, ok := ParseRecurrence("every-31")
	if !ok {
		t.Fatal("ParseRecurrence(every-31) ok = false")
	}
	tests := []struct {
		date time.Time
		want bool
	}{
		{Of(2026, 1, 31), true},
		{Of(2026, 2, 28), true},
		{Of(2026, 4, 30), true},
		{Of(2026, 4, 29), false},
		{Of(2028, 2, 28), false},
		{Of(2028, 2, 29), true},
	}
	for _, tt := range tests {
		if got := r.Matches(tt.date); got != tt.want {
			t.Errorf("every-31 Matches(%s) = %v, want %v", FormatDay(tt.date), got, tt.want)
		}
	}

	w, ok := ParseRecurrence("every-fri")
	if !ok {
		t.Fatal("ParseRecurrence(every-fri) ok = false")
	}
	if !w.Matches(Of(2026, 10, 23)) || w.Matches(today) {
		t.Error("every-fri matched the wrong days")
	}
	if w.String() != "every-fri" {
		t.Errorf("String() = %q, want %q", w.String(), "every-fri")
	}
}

func TestParseRecurrence_Rejects(t *testing.T) {
	for _, expr := range []string{"every-", "every-0", "every-32", "every-05", "every-t", "every-s", "monthly"} {
		if _, ok := ParseRecurrence(expr); ok {
			t.Errorf("ParseRecurrence(%q) ok = true, want false", expr)
		}
	}
}
