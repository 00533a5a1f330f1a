package session

import (
	"fmt"
	"strings"

	"github.com/starford/daybook/internal/apperr"
)

// Slot names one of the two journals a session can work on.
type Slot int

// Journal slots.
const (
	SlotGlobal Slot = iota
	SlotProject
)

// String returns the slot's configuration name.
func (s Slot) String() string {
	if s == SlotProject {
		return "project"
	}
	return "global"
}

// ParseSlot maps a configuration name to a Slot. The empty string is global.
func ParseSlot(name string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "global":
		return SlotGlobal, nil
	case "project":
		return SlotProject, nil
	}
	return SlotGlobal, fmt.Errorf("session: unknown journal %q", name)
}

// JournalContext says which journal file is active. It is owned by the
// caller and passed to the session explicitly.
type JournalContext struct {
	GlobalPath  string
	ProjectPath string
	Active      Slot
}

// ActivePath returns the path of the active journal.
func (c *JournalContext) ActivePath() (string, error) {
	if c.Active == SlotProject {
		if c.ProjectPath == "" {
			return "", apperr.ErrNoProjectJournal
		}
		return c.ProjectPath, nil
	}
	return c.GlobalPath, nil
}

// Switch makes slot active. Switching to an unconfigured project journal
// fails and leaves the context unchanged.
func (c *JournalContext) Switch(slot Slot) error {
	if slot == SlotProject && c.ProjectPath == "" {
		return apperr.ErrNoProjectJournal
	}
	c.Active = slot
	return nil
}
