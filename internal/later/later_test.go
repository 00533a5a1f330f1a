package later

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
)

func TestCollect_ProjectsDatedEntry(t *testing.T) {
	src := journal.TextSource("# 2026/01/10\n- [ ] Call Bob @01/20\n- [ ] today only\n")
	got, err := Collect(src, dates.Of(2026, 1, 20))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !dates.SameDay(got[0].SourceDate, dates.Of(2026, 1, 10)) {
		t.Errorf("SourceDate = %s, want 2026/01/10", dates.FormatDay(got[0].SourceDate))
	}
	if got[0].Content != "Call Bob @01/20" {
		t.Errorf("Content = %q", got[0].Content)
	}
	if got[0].LineIndex != 0 {
		t.Errorf("LineIndex = %d, want 0", got[0].LineIndex)
	}
}

func TestCollect_SkipsStorageDay(t *testing.T) {
	src := journal.TextSource("# 2026/01/20\n- [ ] same day @01/20\n")
	got, err := Collect(src, dates.Of(2026, 1, 20))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want none", len(got))
	}
}

func TestCollect_Recurrence(t *testing.T) {
	text := "# 2026/01/10\n- [ ] pay rent @every-1\n* gym @every-mon\n"
	src := journal.TextSource(text)

	var hits []string
	for d := dates.Of(2026, 1, 1); d.Before(dates.Of(2026, 2, 10)); d = d.AddDate(0, 0, 1) {
		got, err := Collect(src, d)
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		for _, e := range got {
			hits = append(hits, dates.FormatDay(d)+" "+e.Content)
		}
	}
	want := []string{
		"2026/01/12 gym @every-mon",
		"2026/01/19 gym @every-mon",
		"2026/01/26 gym @every-mon",
		"2026/02/01 pay rent @every-1",
		"2026/02/02 gym @every-mon",
		"2026/02/09 gym @every-mon",
	}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_NoDuplication(t *testing.T) {
	text := "# 2026/01/10\n- [ ] a @01/20\n\n# 2026/01/11\n- [ ] b @01/20\n"
	src := journal.TextSource(text)
	got, err := Collect(src, dates.Of(2026, 1, 20))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	days, _ := src.Days()
	if n := len(journal.EntryIndices(days[0].Lines)) + len(journal.EntryIndices(days[1].Lines)); n != 2 {
		t.Errorf("storage holds %d entries, want 2", n)
	}
}

func TestTargets(t *testing.T) {
	src := dates.Of(2026, 1, 10)
	tests := []struct {
		content string
		day     int
		want    bool
	}{
		{"x @01/20", 20, true},
		{"x @01/20", 21, false},
		{"x @tomorrow", 11, true},
		{"x @d5", 15, true},
		{"x @nope", 20, false},
		{"x @every-15", 15, true},
		{"x @every-5", 5, false},
		{"x @01/25 @every-sat", 25, true},
		{"x @01/25 @every-sat", 17, true},
	}
	for _, tt := range tests {
		if got := Targets(tt.content, src, dates.Of(2026, 1, tt.day)); got != tt.want {
			t.Errorf("Targets(%q, 01/%02d) = %v, want %v", tt.content, tt.day, got, tt.want)
		}
	}
}
