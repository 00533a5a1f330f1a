package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"

	"github.com/starford/daybook/internal/session"
	"github.com/starford/daybook/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	if !strings.HasPrefix(cfg.Journal.GlobalPath, home) {
		t.Errorf("global path = %q, want it under %q", cfg.Journal.GlobalPath, home)
	}
	if got := cfg.Filters["t"]; got != "!tasks" {
		t.Errorf("filters[t] = %q, want %q", got, "!tasks")
	}
}

func TestJournalConfig_EmptyActiveDefaultsGlobal(t *testing.T) {
	cfg := JournalConfig{GlobalPath: "/tmp/j.md"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty active should default to global: %v", err)
	}
	if cfg.Active != JournalGlobal {
		t.Errorf("active = %q, want %q", cfg.Active, JournalGlobal)
	}
}

func TestJournalConfig_ProjectWithoutPath(t *testing.T) {
	cfg := JournalConfig{GlobalPath: "/tmp/j.md", Active: JournalProject}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("project journal without path should fail")
	}
	if !strings.Contains(err.Error(), "project_path is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestJournalConfig_InvalidActive(t *testing.T) {
	cfg := JournalConfig{GlobalPath: "/tmp/j.md", Active: "elsewhere"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid active journal should fail validation")
	}
}

func TestJournalConfig_Context(t *testing.T) {
	cfg := JournalConfig{GlobalPath: "/tmp/g.md", ProjectPath: "/tmp/p.md", Active: JournalProject}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	jc, err := cfg.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if jc.Active != session.SlotProject {
		t.Errorf("Active = %v, want project", jc.Active)
	}
	if p, _ := jc.ActivePath(); p != "/tmp/p.md" {
		t.Errorf("ActivePath = %q", p)
	}
}

func TestConfig_BadSortOrder(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SortOrder = []string{"completed", "completed", "notes", "events"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("duplicate sort key should fail validation")
	}
}

func TestConfig_BadFavoriteTag(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.FavoriteTags = []string{"ok", "not ok"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid favorite tag should fail validation")
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DAYBOOK_TEST_DIR", dir)
	file := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  log_level: debug
journal:
  global_path: ${DAYBOOK_TEST_DIR}/journal.md
favorite_tags: [work, home]
filters:
  w: "#work"
`
	if err := os.WriteFile(file, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := config.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Journal.GlobalPath, filepath.Join(dir, "journal.md"); got != want {
		t.Errorf("global path = %q, want %q", got, want)
	}
	if got := cfg.FavoriteTags; len(got) != 2 || got[0] != "work" {
		t.Errorf("favorite tags = %v", got)
	}
	if cfg.Filters["w"] != "#work" || cfg.Filters["t"] != "!tasks" {
		t.Errorf("filters = %v, want defaults plus w", cfg.Filters)
	}
	opts := cfg.SessionOptions()
	if len(opts.SortOrder) != 4 {
		t.Errorf("sort order = %v", opts.SortOrder)
	}
}
