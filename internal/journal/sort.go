package journal

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort keys accepted in a sort order.
const (
	SortCompleted   = "completed"
	SortUncompleted = "uncompleted"
	SortNotes       = "notes"
	SortEvents      = "events"
)

// DefaultSortOrder is used when no sort order is configured.
var DefaultSortOrder = []string{SortCompleted, SortEvents, SortNotes, SortUncompleted}

// ValidateSortOrder checks that order names each sort key exactly once.
func ValidateSortOrder(order []string) error {
	return validation.Validate(order,
		validation.Required.Error("sort order must list completed, uncompleted, notes and events"),
		validation.Length(4, 4).Error("sort order must list completed, uncompleted, notes and events"),
		validation.Each(validation.In(SortCompleted, SortUncompleted, SortNotes, SortEvents).Error("unknown sort key")),
		validation.By(distinctKeys),
	)
}

func distinctKeys(value interface{}) error {
	seen := make(map[string]bool)
	for _, k := range value.([]string) {
		if seen[k] {
			return fmt.Errorf("duplicate sort key %q", k)
		}
		seen[k] = true
	}
	return nil
}

func sortKey(t EntryType) string {
	switch t.Kind {
	case KindTask:
		if t.Completed {
			return SortCompleted
		}
		return SortUncompleted
	case KindEvent:
		return SortEvents
	default:
		return SortNotes
	}
}

// SortEntries reorders the entries of lines by order, keeping raw lines in
// place. Entries with the same key keep their relative order. Sorting moves
// entries between the existing entry positions only.
func SortEntries(lines []Line, order []string) []Line {
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	idx := EntryIndices(lines)
	entries := make([]Line, len(idx))
	for i, p := range idx {
		entries[i] = lines[p].Clone()
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return rank[sortKey(entries[a].Entry.Type)] < rank[sortKey(entries[b].Entry.Type)]
	})

	out := make([]Line, len(lines))
	copy(out, lines)
	for i, p := range idx {
		out[p] = entries[i]
	}
	return out
}
