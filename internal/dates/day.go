// Package dates resolves date expressions used inside entries and filter
// queries, and describes the vocabulary of recognized forms for completion.
package dates

import (
	"fmt"
	"time"
)

// DayLayout is the layout of day section headers and full dates.
const DayLayout = "2006/01/02"

// ShortLayout is the layout written into entries by date normalization.
const ShortLayout = "01/02"

// Of returns midnight UTC of the given calendar day.
func Of(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock and location of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Of(y, m, d)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// FormatDay renders t as YYYY/MM/DD.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// FormatShort renders t as MM/DD.
func FormatShort(t time.Time) string {
	return t.Format(ShortLayout)
}

// ParseDay parses a YYYY/MM/DD string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: parse day %q: %w", s, err)
	}
	return t, nil
}

// valid reports whether year/month/day names a real calendar day.
func valid(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := Of(year, time.Month(month), day)
	return t.Month() == time.Month(month) && t.Day() == day
}

func daysIn(year int, month time.Month) int {
	return Of(year, month+1, 0).Day()
}
