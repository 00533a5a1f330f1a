package journal

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/starford/daybook/internal/dates"
)

var headerRe = regexp.MustCompile(`^# (\d{4}/\d{2}/\d{2})\s*$`)

// Day is one day section of a journal: its header line and the lines
// that follow it up to the next header.
type Day struct {
	Date   time.Time
	Header string
	Lines  []Line
}

// Document is a whole journal file: free lines before the first day header,
// followed by day sections in file order.
type Document struct {
	Preamble []Line
	Days     []Day
}

// HeaderFor returns the section header line for date.
func HeaderFor(date time.Time) string {
	return "# " + dates.FormatDay(date)
}

// ParseHeader reports whether line is a day header and returns its date.
func ParseHeader(line string) (time.Time, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	d, err := dates.ParseDay(m[1])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseDocument splits journal text into day sections.
func ParseDocument(text string) *Document {
	doc := &Document{}
	var cur *Day
	for _, l := range Parse(text) {
		if !l.IsEntry() {
			if d, ok := ParseHeader(l.Raw); ok {
				doc.Days = append(doc.Days, Day{Date: d, Header: l.Raw})
				cur = &doc.Days[len(doc.Days)-1]
				continue
			}
		}
		if cur == nil {
			doc.Preamble = append(doc.Preamble, l)
		} else {
			cur.Lines = append(cur.Lines, l)
		}
	}
	return doc
}

// String serializes the document back to journal text.
func (d *Document) String() string {
	lines := make([]Line, 0, len(d.Preamble)+len(d.Days)*4)
	lines = append(lines, d.Preamble...)
	for _, day := range d.Days {
		lines = append(lines, RawLine(day.Header))
		lines = append(lines, day.Lines...)
	}
	return Serialize(lines)
}

func (d *Document) find(date time.Time) int {
	for i, day := range d.Days {
		if dates.SameDay(day.Date, date) {
			return i
		}
	}
	return -1
}

// Day returns a copy of the lines stored under date, or nil when the journal
// has no section for it.
func (d *Document) Day(date time.Time) []Line {
	i := d.find(date)
	if i < 0 {
		return nil
	}
	return cloneLines(d.Days[i].Lines)
}

// SetDay replaces the lines stored under date. A missing section is created in
// ascending date position; a section left with only blank lines is removed.
func (d *Document) SetDay(date time.Time, lines []Line) {
	i := d.find(date)
	if blank(lines) {
		if i >= 0 {
			d.Days = append(d.Days[:i], d.Days[i+1:]...)
		}
		return
	}
	lines = cloneLines(lines)
	if i >= 0 {
		if endsBlank(d.Days[i].Lines) && !endsBlank(lines) {
			lines = append(lines, RawLine(""))
		}
		d.Days[i].Lines = lines
		return
	}

	pos := sort.Search(len(d.Days), func(j int) bool { return d.Days[j].Date.After(date) })
	if pos < len(d.Days) {
		if !endsBlank(lines) {
			lines = append(lines, RawLine(""))
		}
	} else if d.endsWithNewline() {
		lines = append(lines, RawLine(""))
	}
	day := Day{Date: dates.Truncate(date), Header: HeaderFor(date), Lines: lines}
	d.Days = append(d.Days, Day{})
	copy(d.Days[pos+1:], d.Days[pos:])
	d.Days[pos] = day
}

// Sorted returns the day sections ordered by ascending date. Sections sharing
// a date keep their file order.
func (d *Document) Sorted() []Day {
	out := make([]Day, len(d.Days))
	copy(out, d.Days)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (d *Document) endsWithNewline() bool {
	var last []Line
	if n := len(d.Days); n > 0 {
		last = d.Days[n-1].Lines
	} else {
		if len(d.Preamble) == 0 {
			return true
		}
		last = d.Preamble
	}
	return endsBlank(last)
}

func endsBlank(lines []Line) bool {
	if len(lines) == 0 {
		return false
	}
	l := lines[len(lines)-1]
	return !l.IsEntry() && strings.TrimSpace(l.Raw) == ""
}

func blank(lines []Line) bool {
	for _, l := range lines {
		if l.IsEntry() || strings.TrimSpace(l.Raw) != "" {
			return false
		}
	}
	return true
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// DaySource yields the day sections of a journal, read fresh on every call,
// ordered by ascending date.
type DaySource interface {
	Days() ([]Day, error)
}

// TextSource serves the days of an in-memory journal text.
type TextSource string

// Days implements DaySource.
func (s TextSource) Days() ([]Day, error) {
	return ParseDocument(string(s)).Sorted(), nil
}
