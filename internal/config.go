package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"

	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/session"
	"github.com/starford/daybook/internal/tags"
)

// Journal slot names.
const (
	JournalGlobal  = "global"
	JournalProject = "project"
)

// Config represents the application configuration.
type Config struct {
	App          ApplicationConfig `yaml:"app"`
	Journal      JournalConfig     `yaml:"journal"`
	Index        IndexConfig       `yaml:"index"`
	SortOrder    []string          `yaml:"sort_order"`
	FavoriteTags []string          `yaml:"favorite_tags"`
	Filters      map[string]string `yaml:"filters"`
}

// Validate validates the configuration and expands ~ in paths.
func (c *Config) Validate() error {
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if len(c.SortOrder) == 0 {
		c.SortOrder = journal.DefaultSortOrder
	}
	if err := journal.ValidateSortOrder(c.SortOrder); err != nil {
		return fmt.Errorf("sort_order: %w", err)
	}
	if len(c.FavoriteTags) > 10 {
		return fmt.Errorf("favorite_tags: at most 10 tags, got %d", len(c.FavoriteTags))
	}
	for _, t := range c.FavoriteTags {
		if t == "" {
			continue
		}
		if err := tags.ValidateName(t); err != nil {
			return fmt.Errorf("favorite_tags: %w", err)
		}
	}
	for name := range c.Filters {
		if err := validation.Validate(name, validation.Required, validation.Length(1, 32)); err != nil {
			return fmt.Errorf("filters: name %q: %w", name, err)
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// JournalConfig locates the global and project journals.
type JournalConfig struct {
	GlobalPath  string `yaml:"global_path"`
	ProjectPath string `yaml:"project_path"`
	Active      string `yaml:"active"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	if c.Active == "" {
		c.Active = JournalGlobal
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.GlobalPath, validation.Required),
		validation.Field(&c.Active, validation.In(JournalGlobal, JournalProject)),
	); err != nil {
		return err
	}
	if c.Active == JournalProject && c.ProjectPath == "" {
		return fmt.Errorf("journal: active is %q but project_path is empty", JournalProject)
	}
	var err error
	if c.GlobalPath, err = expandPath(c.GlobalPath); err != nil {
		return err
	}
	c.ProjectPath, err = expandPath(c.ProjectPath)
	return err
}

// Context builds the journal context the session works on.
func (c *JournalConfig) Context() (*session.JournalContext, error) {
	slot, err := session.ParseSlot(c.Active)
	if err != nil {
		return nil, err
	}
	return &session.JournalContext{GlobalPath: c.GlobalPath, ProjectPath: c.ProjectPath, Active: slot}, nil
}

// IndexConfig holds the SQLite reverse index location. An empty path
// disables the index.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether the index is configured.
func (c *IndexConfig) Enabled() bool { return c.Path != "" }

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	var err error
	c.Path, err = expandPath(c.Path)
	return err
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return filepath.Clean(expanded), nil
}

// SessionOptions returns the session settings carried by the configuration.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		FavoriteTags: c.FavoriteTags,
		Filters:      c.Filters,
		SortOrder:    c.SortOrder,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Journal: JournalConfig{
			GlobalPath: "~/.config/daybook/journal.md",
			Active:     JournalGlobal,
		},
		Index: IndexConfig{
			Path: "~/.config/daybook/index.db",
		},
		SortOrder:    journal.DefaultSortOrder,
		FavoriteTags: []string{"feature", "bug", "idea"},
		Filters: map[string]string{
			"t": "!tasks",
			"n": "!notes",
			"e": "!events",
		},
	}
}
