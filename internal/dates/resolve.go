package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Context selects the direction used to resolve ambiguous expressions.
type Context int

const (
	// ContextEntry resolves to the nearest future occurrence, as when an
	// entry is dated for later.
	ContextEntry Context = iota
	// ContextInterface resolves MM/DD to the nearest occurrence in either
	// direction, ties going to the future. Used by goto.
	ContextInterface
	// ContextFilter resolves to the nearest past occurrence unless the
	// expression ends in "+".
	ContextFilter
)

type bias int

const (
	biasFuture bias = iota
	biasPast
)

func (c Context) bias() bias {
	if c == ContextFilter {
		return biasPast
	}
	return biasFuture
}

var (
	shortRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	withYYRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	fullRe    = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	relDaysRe = regexp.MustCompile(`^d([1-9]\d{0,2})$`)
)

var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// LookupWeekday maps a weekday name or an unambiguous prefix of one to its
// weekday. "t" is not a weekday: it is reserved for today.
func LookupWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(s)
	if s == "" || s == "t" {
		return 0, false
	}
	found := -1
	for i, w := range weekdayNames {
		if strings.HasPrefix(w.name, s) {
			if found >= 0 {
				return 0, false
			}
			found = i
		}
	}
	if found < 0 {
		return 0, false
	}
	return weekdayNames[found].day, true
}

// Resolve turns a single-date expression into a calendar day relative to
// today. Recurrence expressions are not single dates and are rejected; see
// ParseRecurrence.
func Resolve(expr string, today time.Time, ctx Context) (time.Time, bool) {
	today = Truncate(today)
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return time.Time{}, false
	}

	b := ctx.bias()
	forced := false
	if n := len(s); n > 1 && (s[n-1] == '+' || s[n-1] == '-') {
		if s[n-1] == '+' {
			b = biasFuture
		} else {
			b = biasPast
		}
		s = s[:n-1]
		forced = true
	}

	if m := relDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if b == biasPast {
			n = -n
		}
		return AddDays(today, n), true
	}
	if wd, ok := LookupWeekday(s); ok {
		return nearestWeekday(today, wd, b), true
	}
	if forced {
		return time.Time{}, false
	}

	switch s {
	case "today", "t":
		return today, true
	case "tomorrow":
		return AddDays(today, 1), true
	case "yesterday":
		return AddDays(today, -1), true
	}

	if m := fullRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return exact(y, m[2], m[3])
	}
	if m := withYYRe.FindStringSubmatch(s); m != nil {
		yy, _ := strconv.Atoi(m[3])
		return exact(2000+yy, m[1], m[2])
	}
	if m := shortRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return monthDay(month, day, today, ctx)
	}
	return time.Time{}, false
}

func exact(year int, ms, ds string) (time.Time, bool) {
	month, _ := strconv.Atoi(ms)
	day, _ := strconv.Atoi(ds)
	if !valid(year, month, day) {
		return time.Time{}, false
	}
	return Of(year, time.Month(month), day), true
}

// monthDay picks the year for an MM/DD expression.
func monthDay(month, day int, today time.Time, ctx Context) (time.Time, bool) {
	y := today.Year()
	switch ctx {
	case ContextEntry:
		// Feb 29 may need up to four years to find a valid candidate.
		for i := 0; i <= 4; i++ {
			if !valid(y+i, month, day) {
				continue
			}
			t := Of(y+i, time.Month(month), day)
			if !t.Before(today) {
				return t, true
			}
		}
		return time.Time{}, false
	case ContextInterface:
		var best time.Time
		var bestDist time.Duration = -1
		for _, cy := range []int{y + 1, y, y - 1} {
			if !valid(cy, month, day) {
				continue
			}
			t := Of(cy, time.Month(month), day)
			d := t.Sub(today)
			if d < 0 {
				d = -d
			}
			// Candidates are visited future first so ties keep the future one.
			if bestDist < 0 || d < bestDist {
				best, bestDist = t, d
			}
		}
		return best, bestDist >= 0
	default:
		if !valid(y, month, day) {
			return time.Time{}, false
		}
		return Of(y, time.Month(month), day), true
	}
}

// nearestWeekday returns the closest day strictly after (or before) today
// that falls on wd.
func nearestWeekday(today time.Time, wd time.Weekday, b bias) time.Time {
	if b == biasPast {
		back := (int(today.Weekday()) - int(wd) + 7) % 7
		if back == 0 {
			back = 7
		}
		return AddDays(today, -back)
	}
	ahead := (int(wd) - int(today.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return AddDays(today, ahead)
}
