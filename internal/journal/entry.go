// Package journal models a journal's lines as typed entries and opaque raw
// markdown, and round-trips them to text without losing content.
package journal

import (
	"strings"
	"time"
)

// Kind is the category of an entry.
type Kind int

// Entry kinds.
const (
	KindTask Kind = iota
	KindNote
	KindEvent
)

// Entry markers, most specific first.
const (
	PrefixTaskDone = "- [x] "
	PrefixTaskOpen = "- [ ] "
	PrefixEvent    = "* "
	PrefixNote     = "- "
)

// EntryType is the type of an entry. Completed is only meaningful for tasks.
type EntryType struct {
	Kind      Kind
	Completed bool
}

// Task returns a task type.
func Task(completed bool) EntryType { return EntryType{Kind: KindTask, Completed: completed} }

// Note returns the note type.
func Note() EntryType { return EntryType{Kind: KindNote} }

// Event returns the event type.
func Event() EntryType { return EntryType{Kind: KindEvent} }

// IsTask reports whether t is a task (open or done).
func (t EntryType) IsTask() bool { return t.Kind == KindTask }

// Prefix returns the markdown marker written before the content.
func (t EntryType) Prefix() string {
	switch t.Kind {
	case KindTask:
		if t.Completed {
			return PrefixTaskDone
		}
		return PrefixTaskOpen
	case KindEvent:
		return PrefixEvent
	default:
		return PrefixNote
	}
}

// Cycle returns the next type in the order task, note, event, task.
// A cycled-in task always starts open.
func (t EntryType) Cycle() EntryType {
	switch t.Kind {
	case KindTask:
		return Note()
	case KindNote:
		return Event()
	default:
		return Task(false)
	}
}

// String returns a short name for t.
func (t EntryType) String() string {
	switch t.Kind {
	case KindTask:
		if t.Completed {
			return "done"
		}
		return "task"
	case KindEvent:
		return "event"
	default:
		return "note"
	}
}

// MarshalText encodes t by name.
func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseEntryType maps a user-facing type name to an EntryType.
func ParseEntryType(name string) (EntryType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "task", "t":
		return Task(false), true
	case "done", "completed":
		return Task(true), true
	case "note", "n":
		return Note(), true
	case "event", "e":
		return Event(), true
	}
	return EntryType{}, false
}

// Entry is one typed journal item.
type Entry struct {
	Type    EntryType
	Content string
}

// NewTask returns an open task with the given content.
func NewTask(content string) Entry {
	return Entry{Type: Task(false), Content: content}
}

// ToggleComplete flips completion on tasks and is a no-op otherwise.
func (e *Entry) ToggleComplete() {
	if e.Type.IsTask() {
		e.Type.Completed = !e.Type.Completed
	}
}

// String renders the entry as a journal line.
func (e Entry) String() string {
	return e.Type.Prefix() + e.Content
}

// Line is either an Entry or a Raw markdown line. Exactly one of the two is
// meaningful: Entry is non-nil for entries, Raw holds the text otherwise.
type Line struct {
	Entry *Entry
	Raw   string
}

// EntryLine wraps e in a Line.
func EntryLine(e Entry) Line { return Line{Entry: &e} }

// RawLine wraps s in a Line.
func RawLine(s string) Line { return Line{Raw: s} }

// IsEntry reports whether l holds an entry.
func (l Line) IsEntry() bool { return l.Entry != nil }

// String renders l as journal text.
func (l Line) String() string {
	if l.Entry != nil {
		return l.Entry.String()
	}
	return l.Raw
}

// Clone returns a deep copy of l so the entry pointer is not shared.
func (l Line) Clone() Line {
	if l.Entry == nil {
		return l
	}
	e := *l.Entry
	return Line{Entry: &e}
}

var markers = []struct {
	prefix string
	typ    EntryType
}{
	{PrefixTaskDone, Task(true)},
	{PrefixTaskOpen, Task(false)},
	{PrefixEvent, Event()},
	{PrefixNote, Note()},
}

// ParseLine classifies a single line. Indentation before a marker is dropped.
func ParseLine(line string) Line {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range markers {
		if content, ok := strings.CutPrefix(trimmed, m.prefix); ok {
			return EntryLine(Entry{Type: m.typ, Content: content})
		}
	}
	return RawLine(line)
}

// Parse splits text on "\n" and classifies every line. It never fails: lines
// that are not entries are kept verbatim as Raw. A trailing newline yields a
// final empty Raw line so that Serialize restores it.
func Parse(text string) []Line {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = ParseLine(p)
	}
	return lines
}

// Serialize joins lines with "\n".
func Serialize(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// EntryIndices returns the positions of entry lines in document order.
// Callers recompute it after every insert, remove, or swap.
func EntryIndices(lines []Line) []int {
	out := make([]int, 0, len(lines))
	for i, l := range lines {
		if l.IsEntry() {
			out = append(out, i)
		}
	}
	return out
}

// CrossDayEntry references an entry stored in another day's section.
// LineIndex is a line position in the source day, not an entry index.
type CrossDayEntry struct {
	SourceDate time.Time `json:"source_date"`
	LineIndex  int       `json:"line_index"`
	Content    string    `json:"content"`
	Type       EntryType `json:"type"`
	Completed  bool      `json:"completed"`
}

// FilterEntry is a CrossDayEntry produced by a filter query.
type FilterEntry = CrossDayEntry

// LaterEntry is a CrossDayEntry projected onto another day by its @date.
type LaterEntry = CrossDayEntry

// NewCrossDayEntry builds a reference to e stored at (source, lineIndex).
func NewCrossDayEntry(source time.Time, lineIndex int, e Entry) CrossDayEntry {
	return CrossDayEntry{
		SourceDate: source,
		LineIndex:  lineIndex,
		Content:    e.Content,
		Type:       e.Type,
		Completed:  e.Type.IsTask() && e.Type.Completed,
	}
}

// Entry returns the entry value the reference points at.
func (c CrossDayEntry) Entry() Entry {
	return Entry{Type: c.Type, Content: c.Content}
}

// InsertionPoint returns the position after the last entry of lines, or
// before any trailing blank lines when there is no entry.
func InsertionPoint(lines []Line) int {
	if idx := EntryIndices(lines); len(idx) > 0 {
		return idx[len(idx)-1] + 1
	}
	n := len(lines)
	for n > 0 && !lines[n-1].IsEntry() && strings.TrimSpace(lines[n-1].Raw) == "" {
		n--
	}
	return n
}

// Insert returns lines with l inserted at pos. A negative or out of range pos
// inserts at InsertionPoint.
func Insert(lines []Line, pos int, l Line) []Line {
	if pos < 0 || pos > len(lines) {
		pos = InsertionPoint(lines)
	}
	out := make([]Line, 0, len(lines)+1)
	out = append(out, lines[:pos]...)
	out = append(out, l)
	return append(out, lines[pos:]...)
}

// Remove returns lines without the line at pos.
func Remove(lines []Line, pos int) []Line {
	out := make([]Line, 0, len(lines))
	out = append(out, lines[:pos]...)
	return append(out, lines[pos+1:]...)
}
