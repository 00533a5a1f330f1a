package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/daybook/internal/dates"
)

func TestParse_TagsAndDates(t *testing.T) {
	r := Parse("Call Bob #work @01/20 about #Work and #work-trip")
	if diff := cmp.Diff([]string{"work", "work-trip"}, r.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"01/20"}, r.Dates); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}
}

func TestTags_IgnoresMidWordHash(t *testing.T) {
	got := Tags("issue#12 and a#b but #ok")
	if diff := cmp.Diff([]string{"ok"}, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestTags_MustStartWithLetter(t *testing.T) {
	if got := Tags("#1 #_x #9lives"); len(got) != 0 {
		t.Errorf("tags = %v, want none", got)
	}
}

func TestHasTag_CaseInsensitiveExact(t *testing.T) {
	if !HasTag("buy milk #Errand", "errand") {
		t.Error("HasTag(#Errand, errand) = false, want true")
	}
	if HasTag("go to #workshop", "work") {
		t.Error("HasTag(#workshop, work) = true, want false")
	}
}

func TestDateTokens_StopsAtPunctuation(t *testing.T) {
	got := DateTokens("due @fri, then @d3+. mail me@host")
	if diff := cmp.Diff([]string{"fri", "d3+"}, got); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryDate_FirstResolvable(t *testing.T) {
	ref := dates.Of(2026, 1, 10)
	d, ok := EntryDate("plan @every-5 then @01/20", ref)
	if !ok {
		t.Fatal("EntryDate ok = false, want true")
	}
	if want := dates.Of(2026, 1, 20); !d.Equal(want) {
		t.Errorf("EntryDate = %v, want %v", d, want)
	}
}

func TestNormalizeDates(t *testing.T) {
	today := dates.Of(2026, 10, 17) // Saturday
	tests := []struct {
		in, want string
	}{
		{"call @tomorrow", "call @10/18"},
		{"review @mon #work", "review @10/19 #work"},
		{"ship @d3", "ship @10/20"},
		{"keep @01/20", "keep @01/20"},
		{"pay @every-1", "pay @every-1"},
		{"unknown @someday", "unknown @someday"},
		{"far @d400", "far @11/21/27"},
	}
	for _, tt := range tests {
		if got := NormalizeDates(tt.in, today); got != tt.want {
			t.Errorf("NormalizeDates(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandFavorites(t *testing.T) {
	favs := []string{"feature", "bug", "idea", "", "", "", "", "", "", "tenth"}
	tests := []struct {
		in, want string
	}{
		{"fix #2 now", "fix #bug now"},
		{"#1 #3", "#feature #idea"},
		{"last #0", "last #tenth"},
		{"empty slot #4", "empty slot #4"},
		{"not a slot #12 or x#1", "not a slot #12 or x#1"},
	}
	for _, tt := range tests {
		if got := ExpandFavorites(tt.in, favs); got != tt.want {
			t.Errorf("ExpandFavorites(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFrontmatter(t *testing.T) {
	fm, body := Frontmatter("---\ntitle: Work log\n---\n# 2026/01/10\n")
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if fm["title"] != "Work log" {
		t.Errorf("title = %v, want %q", fm["title"], "Work log")
	}
	if body != "# 2026/01/10\n" {
		t.Errorf("body = %q", body)
	}
}

func TestFrontmatter_InvalidYAMLFallback(t *testing.T) {
	in := "---\n: invalid: yaml: {{{\n---\nBody\n"
	fm, body := Frontmatter(in)
	if fm != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if body != in {
		t.Errorf("body = %q, want input unchanged", body)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("---\ntitle: ' Daybook '\n---\n"); got != "Daybook" {
		t.Errorf("Title = %q, want %q", got, "Daybook")
	}
	if got := Title("just prose"); got != "" {
		t.Errorf("Title = %q, want empty", got)
	}
}
