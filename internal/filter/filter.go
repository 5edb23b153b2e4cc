package filter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort selects the ordering of a filtered list
type Sort string

const (
	SortNewest       Sort = "newest"
	SortOldest       Sort = "oldest"
	SortAlphabetical Sort = "alphabetical"
	SortStatus       Sort = "status"
)

// Sorts lists the sort modes in filter-bar cycle order
var Sorts = []Sort{SortNewest, SortOldest, SortAlphabetical, SortStatus}

// All is the pass-through sentinel for type and status filters
const All = "all"

// Options mirrors the dashboard filter bar. Zero-valued Type/Status
// behave like All.
type Options struct {
	Search string
	Type   string
	Status string
	Date   *time.Time
	Sort   Sort
}

// Defaults returns the filter bar's reset state
func Defaults() Options {
	return Options{Type: All, Status: All, Sort: SortNewest}
}

// Active reports whether any narrowing filter is set
func (o Options) Active() bool {
	return o.Search != "" ||
		(o.Type != "" && o.Type != All) ||
		(o.Status != "" && o.Status != All) ||
		o.Date != nil
}

// Fields is the projection of an item the filter operates on. Description
// is the entity's second searchable field (a beneficiary's address, an
// expert's specialty).
type Fields struct {
	Name        string
	Description string
	Type        string
	Status      string
	UpdatedAt   time.Time
}

// Apply derives a filtered, ordered view of items. The derivation is pure:
// the input slice is never reordered in place.
//
// Search keeps an item when the term appears in its name OR description;
// it is dropped only when both fields miss.
func Apply[T any](items []T, fields func(T) Fields, opts Options) []T {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		f := fields(item)

		if search != "" &&
			!strings.Contains(strings.ToLower(f.Name), search) &&
			!strings.Contains(strings.ToLower(f.Description), search) {
			continue
		}
		if opts.Type != "" && opts.Type != All && f.Type != opts.Type {
			continue
		}
		if opts.Status != "" && opts.Status != All && f.Status != opts.Status {
			continue
		}
		if opts.Date != nil && !sameDay(f.UpdatedAt, *opts.Date) {
			continue
		}

		out = append(out, item)
	}

	sortItems(out, fields, opts.Sort)
	return out
}

// sameDay matches calendar day only; time of day is ignored
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sortItems[T any](items []T, fields func(T) Fields, mode Sort) {
	var col *collate.Collator
	if mode == SortAlphabetical {
		col = collate.New(language.French, collate.IgnoreCase)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := fields(items[i]), fields(items[j])
		switch mode {
		case SortOldest:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case SortAlphabetical:
			return col.CompareString(a.Name, b.Name) < 0
		case SortStatus:
			return a.Status < b.Status
		default: // newest
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
}
