// Package registry holds the static tables of commands and filter syntax
// shared by the filter interpreter, the hint engine and the help output.
package registry

import "strings"

// Command is a named command with optional short aliases.
type Command struct {
	Name        string
	Aliases     []string
	Args        string
	Description string
}

// Commands in display order.
var Commands = []Command{
	{Name: "quit", Aliases: []string{"q"}, Description: "Save and quit"},
	{Name: "goto", Aliases: []string{"g"}, Args: "<date>", Description: "Go to a day"},
	{Name: "open", Aliases: []string{"o"}, Args: "<path>", Description: "Open a journal file"},
	{Name: "global", Description: "Switch to the global journal"},
	{Name: "project", Description: "Switch to the project journal"},
	{Name: "sort", Description: "Sort entries of the current day"},
	{Name: "undo", Description: "Restore the last deleted entry"},
}

// LookupCommand finds a command by exact name or alias.
func LookupCommand(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, true
			}
		}
	}
	return Command{}, false
}

// Category groups filter syntax.
type Category int

const (
	CategoryEntryType Category = iota
	CategoryDateOp
	CategoryNegation
)

// FilterSyntax is one documented filter token form.
type FilterSyntax struct {
	Syntax      string
	Aliases     []string
	Category    Category
	Description string
}

// Filter syntax in display order.
var FilterSyntaxes = []FilterSyntax{
	{Syntax: "!tasks", Aliases: []string{"!t"}, Category: CategoryEntryType, Description: "Incomplete tasks"},
	{Syntax: "!tasks/done", Aliases: []string{"!completed"}, Category: CategoryEntryType, Description: "Completed tasks"},
	{Syntax: "!tasks/all", Category: CategoryEntryType, Description: "All tasks"},
	{Syntax: "!notes", Aliases: []string{"!n"}, Category: CategoryEntryType, Description: "Notes"},
	{Syntax: "!events", Aliases: []string{"!e"}, Category: CategoryEntryType, Description: "Events"},
	{Syntax: "@before:", Category: CategoryDateOp, Description: "Dated before a day"},
	{Syntax: "@after:", Category: CategoryDateOp, Description: "Dated after a day"},
	{Syntax: "@overdue", Category: CategoryDateOp, Description: "Dated before today"},
	{Syntax: "not:#", Category: CategoryNegation, Description: "Exclude a tag"},
	{Syntax: "not:!", Category: CategoryNegation, Description: "Exclude an entry type"},
	{Syntax: "not:", Category: CategoryNegation, Description: "Exclude text"},
}

// Syntax returns the filter syntax of category c.
func Syntax(c Category) []FilterSyntax {
	var out []FilterSyntax
	for _, f := range FilterSyntaxes {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// LookupEntryType resolves an entry type token such as "!t" to its canonical
// syntax entry. Matching is case-insensitive.
func LookupEntryType(tok string) (FilterSyntax, bool) {
	tok = strings.ToLower(tok)
	for _, f := range FilterSyntaxes {
		if f.Category != CategoryEntryType {
			continue
		}
		if f.Syntax == tok {
			return f, true
		}
		for _, a := range f.Aliases {
			if a == tok {
				return f, true
			}
		}
	}
	return FilterSyntax{}, false
}
