package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/hints"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/journal"
)

var (
	titleStyle = color.New(color.Bold, color.Underline)
	faintStyle = color.New(color.Faint, color.Italic)
	doneStyle  = color.New(color.Faint)
	eventStyle = color.New(color.FgCyan)
	tagStyle   = color.New(color.FgYellow)
	dateStyle  = color.New(color.FgHiYellow, color.Italic)
)

func marker(t journal.EntryType) string {
	return strings.TrimSpace(t.Prefix())
}

// render colors the tags and dates of e's content.
func render(e journal.Entry) string {
	words := strings.Fields(e.Content)
	for i, w := range words {
		switch {
		case strings.HasPrefix(w, "#") && len(w) > 1:
			words[i] = tagStyle.Sprint(w)
		case strings.HasPrefix(w, "@") && len(w) > 1:
			words[i] = dateStyle.Sprint(w)
		}
	}
	line := strings.Join(words, " ")
	switch {
	case e.Type.IsTask() && e.Type.Completed:
		return doneStyle.Sprint(line)
	case e.Type.Kind == journal.KindEvent:
		return eventStyle.Sprint(line)
	}
	return line
}

func printDay(w io.Writer, date time.Time, entries []journal.Entry, later []journal.LaterEntry) {
	_, _ = titleStyle.Fprintln(w, dates.FormatDay(date)+" "+date.Weekday().String())
	if len(entries) == 0 {
		_, _ = faintStyle.Fprintln(w, "no entries")
	} else {
		tbl := uitable.New()
		tbl.Separator = " "
		for i, e := range entries {
			tbl.AddRow(i, marker(e.Type), render(e))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}
	if len(later) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = titleStyle.Fprintln(w, "Later")
		printCrossDay(w, date, later)
	}
}

// age describes source relative to ref, e.g. "5 days ago".
func age(source, ref time.Time) string {
	if dates.SameDay(source, ref) {
		return "today"
	}
	return humanize.RelTime(source, ref, "ago", "ahead")
}

// printCrossDay lists entries with their storage day, aged against ref.
func printCrossDay(w io.Writer, ref time.Time, entries []journal.CrossDayEntry) {
	if len(entries) == 0 {
		_, _ = faintStyle.Fprintln(w, "no matches")
		return
	}
	tbl := uitable.New()
	tbl.Separator = " "
	for i, e := range entries {
		tbl.AddRow(i, faintStyle.Sprint(dates.FormatDay(e.SourceDate)), faintStyle.Sprint(age(e.SourceDate, ref)), marker(e.Type), render(e.Entry()))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printTags(w io.Writer, counts []index.TagCount) {
	if len(counts) == 0 {
		_, _ = faintStyle.Fprintln(w, "no tags")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range counts {
		tbl.AddRow(tagStyle.Sprint("#"+c.Tag), c.Uses)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printHints(w io.Writer, h hints.Context) {
	if !h.Active() {
		_, _ = faintStyle.Fprintln(w, "no hints")
		return
	}
	shown := h
	if h.Kind == hints.Negation && h.Inner != nil {
		shown = *h.Inner
	}
	_, _ = titleStyle.Fprintln(w, h.Kind.String())
	if shown.Message != "" {
		_, _ = faintStyle.Fprintln(w, shown.Message)
	}
	syntax := shown.Syntax
	if len(syntax) == 0 {
		syntax = h.Syntax
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	switch {
	case len(shown.Commands) > 0:
		for _, c := range shown.Commands {
			tbl.AddRow(":"+c.Name, c.Args, faintStyle.Sprint(c.Description))
		}
	case len(syntax) > 0:
		for _, f := range syntax {
			tbl.AddRow(f.Syntax, strings.Join(f.Aliases, " "), faintStyle.Sprint(f.Description))
		}
	case len(shown.Values) > 0:
		for _, v := range shown.Values {
			tbl.AddRow(v.Label, faintStyle.Sprint(v.Hint))
		}
	default:
		for _, c := range shown.Candidates {
			tbl.AddRow(c)
		}
	}
	_, _ = fmt.Fprintln(w, tbl)
	if completion, ok := h.FirstCompletion(); ok && completion != "" {
		_, _ = fmt.Fprintf(w, "tab completes %q\n", completion)
	}
}
