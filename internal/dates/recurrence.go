package dates

import (
	"strconv"
	"strings"
	"time"
)

const recurPrefix = "every-"

// Recurrence is a repeating date rule: a day of the month or a weekday.
type Recurrence struct {
	// DayOfMonth is 1-31 for monthly rules and 0 for weekly ones.
	DayOfMonth int
	Weekday    time.Weekday
}

// ParseRecurrence parses every-<1-31> and every-<weekday>.
func ParseRecurrence(expr string) (Recurrence, bool) {
	s := strings.ToLower(strings.TrimSpace(expr))
	rest, ok := strings.CutPrefix(s, recurPrefix)
	if !ok || rest == "" {
		return Recurrence{}, false
	}
	if rest[0] >= '0' && rest[0] <= '9' {
		if rest[0] == '0' {
			return Recurrence{}, false
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 31 {
			return Recurrence{}, false
		}
		return Recurrence{DayOfMonth: n}, true
	}
	wd, ok := LookupWeekday(rest)
	if !ok {
		return Recurrence{}, false
	}
	return Recurrence{Weekday: wd}, true
}

// Monthly reports whether r repeats on a day of the month.
func (r Recurrence) Monthly() bool { return r.DayOfMonth > 0 }

// Matches reports whether date is an occurrence of r. A monthly rule for a
// day the month does not have falls on the month's last day.
func (r Recurrence) Matches(date time.Time) bool {
	if !r.Monthly() {
		return date.Weekday() == r.Weekday
	}
	day := r.DayOfMonth
	if last := daysIn(date.Year(), date.Month()); day > last {
		day = last
	}
	return date.Day() == day
}

// String renders r in its canonical every-<x> form.
func (r Recurrence) String() string {
	if r.Monthly() {
		return recurPrefix + strconv.Itoa(r.DayOfMonth)
	}
	return recurPrefix + strings.ToLower(r.Weekday.String()[:3])
}
