package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
)

const seed = "# 2026/01/10\n- [ ] Call Bob @01/20\n- note\n\n# 2026/01/12\n* standup\n"

func seeded(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "journal.md")
	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if err := j.Save(seed); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return j
}

func text(t *testing.T, j *Journal) string {
	t.Helper()
	s, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestJournal_MissingFileIsEmpty(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.md"))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if j.Exists() {
		t.Error("Exists() = true before first save")
	}
	got, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "" {
		t.Errorf("Load = %q, want empty", got)
	}
	days, err := j.Days()
	if err != nil || len(days) != 0 {
		t.Errorf("Days = %v, %v; want none", days, err)
	}
}

func TestJournal_ReadErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "journal.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	j, err := OpenJournal(filepath.Join(dir, "journal.md"))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if _, err := j.Load(); err == nil {
		t.Error("Load of a directory succeeded")
	}
}

func TestJournal_DayLines(t *testing.T) {
	j := seeded(t)
	lines, err := j.LoadDayLines(dates.Of(2026, 1, 10))
	if err != nil {
		t.Fatalf("LoadDayLines: %v", err)
	}
	lines = journal.Insert(lines, -1, journal.EntryLine(journal.NewTask("new")))
	if err := j.SaveDayLines(dates.Of(2026, 1, 10), lines); err != nil {
		t.Fatalf("SaveDayLines: %v", err)
	}
	want := "# 2026/01/10\n- [ ] Call Bob @01/20\n- note\n- [ ] new\n\n# 2026/01/12\n* standup\n"
	if got := text(t, j); got != want {
		t.Errorf("journal = %q, want %q", got, want)
	}
}

func TestJournal_WriteThrough(t *testing.T) {
	j := seeded(t)
	day := dates.Of(2026, 1, 10)

	if err := j.ToggleEntry(day, 0); err != nil {
		t.Fatalf("ToggleEntry: %v", err)
	}
	if err := j.EditEntry(day, 1, "edited note"); err != nil {
		t.Fatalf("EditEntry: %v", err)
	}
	if err := j.CycleEntryType(dates.Of(2026, 1, 12), 0); err != nil {
		t.Fatalf("CycleEntryType: %v", err)
	}
	want := "# 2026/01/10\n- [x] Call Bob @01/20\n- edited note\n\n# 2026/01/12\n- [ ] standup\n"
	if got := text(t, j); got != want {
		t.Errorf("journal = %q, want %q", got, want)
	}
}

func TestJournal_ToggleNoteFails(t *testing.T) {
	j := seeded(t)
	err := j.ToggleEntry(dates.Of(2026, 1, 10), 1)
	if !errors.Is(err, apperr.ErrNotATask) {
		t.Errorf("err = %v, want ErrNotATask", err)
	}
	if got := text(t, j); got != seed {
		t.Errorf("journal changed: %q", got)
	}
}

func TestJournal_BadIndex(t *testing.T) {
	j := seeded(t)
	day := dates.Of(2026, 1, 10)
	for _, idx := range []int{-1, 2, 99} {
		if err := j.EditEntry(day, idx, "x"); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("EditEntry(%d) err = %v, want ErrNotFound", idx, err)
		}
	}
	if _, err := j.DeleteEntry(dates.Of(2026, 1, 11), 0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("DeleteEntry(missing day) err = %v, want ErrNotFound", err)
	}
}

func TestJournal_DeleteAndInsert(t *testing.T) {
	j := seeded(t)
	removed, err := j.DeleteEntry(dates.Of(2026, 1, 12), 0)
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if removed.Content != "standup" {
		t.Errorf("removed = %+v", removed)
	}
	if got, want := text(t, j), "# 2026/01/10\n- [ ] Call Bob @01/20\n- note\n"; got != want {
		t.Errorf("after delete = %q, want %q", got, want)
	}

	idx, err := j.InsertEntry(dates.Of(2026, 1, 11), -1, journal.Entry{Type: journal.Event(), Content: "demo"})
	if err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	if idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
	if got, want := text(t, j), "# 2026/01/10\n- [ ] Call Bob @01/20\n- note\n\n# 2026/01/11\n* demo\n"; got != want {
		t.Errorf("after insert = %q, want %q", got, want)
	}
}

func TestJournal_RefRejectsMovedEntry(t *testing.T) {
	j := seeded(t)
	day := dates.Of(2026, 1, 10)
	ref := journal.NewCrossDayEntry(day, 0, journal.NewTask("Call Bob @01/20"))

	// The task moves down a line, so its old position now holds something else.
	if _, err := j.InsertEntry(day, 0, journal.Entry{Type: journal.Note(), Content: "first"}); err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	before := text(t, j)

	err := j.UpdateRef(ref, func(e *journal.Entry) error {
		e.Content = "overwritten"
		return nil
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdateRef err = %v, want ErrNotFound", err)
	}
	if _, err := j.DeleteRef(ref); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("DeleteRef err = %v, want ErrNotFound", err)
	}
	if got := text(t, j); got != before {
		t.Errorf("journal changed: %q", got)
	}

	ref.LineIndex = 1
	removed, err := j.DeleteRef(ref)
	if err != nil {
		t.Fatalf("DeleteRef: %v", err)
	}
	if removed.Content != "Call Bob @01/20" {
		t.Errorf("removed = %+v", removed)
	}
}
