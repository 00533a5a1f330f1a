package session

import (
	"fmt"
	"strings"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/registry"
)

// Result reports the effect of an executed command.
type Result struct {
	Command string
	Quit    bool
}

// Execute runs a command line such as ":goto 01/20". The leading colon is
// optional.
func (s *Session) Execute(line string) (Result, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("session: empty command: %w", apperr.ErrNotFound)
	}
	cmd, ok := registry.LookupCommand(fields[0])
	if !ok {
		return Result{}, fmt.Errorf("session: command %q: %w", fields[0], apperr.ErrNotFound)
	}
	arg := strings.Join(fields[1:], " ")
	res := Result{Command: cmd.Name}

	var err error
	switch cmd.Name {
	case "quit":
		res.Quit = true
	case "goto":
		date, ok := dates.Resolve(arg, s.today(), dates.ContextInterface)
		if !ok {
			return res, fmt.Errorf("session: goto %q: %w", arg, apperr.ErrInvalidDate)
		}
		err = s.Goto(date)
	case "open":
		if arg == "" {
			return res, fmt.Errorf("session: open: missing path")
		}
		prev := *s.jc
		s.jc.ProjectPath = arg
		if err = s.Switch(SlotProject); err != nil {
			*s.jc = prev
		}
	case "global":
		err = s.Switch(SlotGlobal)
	case "project":
		err = s.Switch(SlotProject)
	case "sort":
		err = s.SortEntries()
	case "undo":
		err = s.Undo()
	}
	return res, err
}
