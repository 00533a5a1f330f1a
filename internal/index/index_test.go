package index

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/later"
	"github.com/starford/daybook/internal/storage"
)

const fixture = `# 2026/01/10
- [ ] Pay rent @01/14 #home
- standup notes #work
* Retro @every-15
- [x] Water plants @every-mon #Home

# 2026/01/14
- [ ] Call Bob #work
`

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testJournal(t *testing.T, text string) *storage.Journal {
	t.Helper()
	j, err := storage.OpenJournal(filepath.Join(t.TempDir(), "journal.md"))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if err := j.Save(text); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return j
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func synced(t *testing.T) (*DB, *storage.Journal) {
	t.Helper()
	db := testDB(t)
	j := testJournal(t, fixture)
	if _, err := Sync(db, j, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return db, j
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"journals", "entries", "tags"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	db, j := synced(t)

	cs, err := db.GetChecksum(j.Path())
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs == "" {
		t.Fatal("checksum not stored")
	}

	changed, err := Sync(db, j, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if changed {
		t.Error("second Sync reported a change")
	}

	if err := j.Save(fixture + "- extra\n"); err != nil {
		t.Fatal(err)
	}
	changed, err = Sync(db, j, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !changed {
		t.Error("Sync after edit reported no change")
	}
}

func TestGetChecksum_Unknown(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("/nowhere/journal.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "" {
		t.Errorf("checksum = %q, want empty", cs)
	}
}

func TestLaterEntries(t *testing.T) {
	db, j := synced(t)

	cases := []struct {
		day  string
		want []string
	}{
		{"2026/01/14", []string{"Pay rent @01/14 #home"}},
		{"2026/01/15", []string{"Retro @every-15"}},
		{"2026/01/12", []string{"Water plants @every-mon #Home"}},
		{"2026/01/10", nil},
		{"2026/01/05", nil},
	}
	for _, tc := range cases {
		day, _ := dates.ParseDay(tc.day)
		got, err := db.LaterEntries(j.Path(), day)
		if err != nil {
			t.Fatalf("LaterEntries(%s): %v", tc.day, err)
		}
		var contents []string
		for _, e := range got {
			contents = append(contents, e.Content)
		}
		if diff := cmp.Diff(tc.want, contents); diff != "" {
			t.Errorf("LaterEntries(%s) mismatch (-want +got):\n%s", tc.day, diff)
		}
	}
}

func TestLaterEntries_MatchesScan(t *testing.T) {
	db, j := synced(t)
	for day := dates.Of(2026, 1, 1); day.Before(dates.Of(2026, 4, 1)); day = dates.AddDays(day, 1) {
		want, err := later.Collect(journal.TextSource(fixture), day)
		if err != nil {
			t.Fatal(err)
		}
		got, err := db.LaterEntries(j.Path(), day)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-scan +index):\n%s", dates.FormatDay(day), diff)
		}
	}
}

func TestTags(t *testing.T) {
	db, j := synced(t)

	got, err := db.Tags(j.Path())
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if diff := cmp.Diff([]string{"home", "work"}, got); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}

	counts, err := db.TagCounts(j.Path())
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	want := []TagCount{{Tag: "home", Uses: 2}, {Tag: "work", Uses: 2}}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("TagCounts mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	db, j := synced(t)
	got, err := db.Search(j.Path(), "plants", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].LineIndex != 3 || !got[0].Completed {
		t.Errorf("result = %+v", got[0])
	}
	if !dates.SameDay(got[0].SourceDate, dates.Of(2026, 1, 10)) {
		t.Errorf("source = %s", dates.FormatDay(got[0].SourceDate))
	}
}

func TestDeleteJournal(t *testing.T) {
	db, j := synced(t)
	if err := db.DeleteJournal(j.Path()); err != nil {
		t.Fatalf("DeleteJournal: %v", err)
	}
	cs, _ := db.GetChecksum(j.Path())
	if cs != "" {
		t.Errorf("checksum after delete = %q", cs)
	}
	tags, _ := db.Tags(j.Path())
	if len(tags) != 0 {
		t.Errorf("tags after delete = %v", tags)
	}
}

func TestSync_DropsRemovedJournal(t *testing.T) {
	db, j := synced(t)
	if err := os.Remove(j.Path()); err != nil {
		t.Fatal(err)
	}
	changed, err := Sync(db, j, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !changed {
		t.Error("Sync after remove reported no change")
	}
	if cs, _ := db.GetChecksum(j.Path()); cs != "" {
		t.Errorf("checksum after remove = %q, want empty", cs)
	}
	if changed, _ := Sync(db, j, quietLogger()); changed {
		t.Error("second Sync of a missing journal reported a change")
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(journal.ParseDocument(fixture).Sorted())
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if !dates.SameDay(rows[0].TargetDate, dates.Of(2026, 1, 14)) {
		t.Errorf("rows[0].TargetDate = %v", rows[0].TargetDate)
	}
	if rows[2].Rule != "every-15" {
		t.Errorf("rows[2].Rule = %q, want %q", rows[2].Rule, "every-15")
	}
	if rows[3].Rule != "every-mon" {
		t.Errorf("rows[3].Rule = %q, want %q", rows[3].Rule, "every-mon")
	}
	if !rows[1].TargetDate.IsZero() || rows[1].Rule != "" {
		t.Errorf("rows[1] = %+v, want no target", rows[1])
	}
}
