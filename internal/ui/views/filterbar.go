package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projadm/internal/filter"
	"projadm/internal/models"
	"projadm/internal/ui/styles"
)

// filterBar is the shared search/filter/sort strip above every entity
// list. Type and status selectors only appear on lists that carry enums
// (projects); the rest get search, date, and sort.
type filterBar struct {
	styles *styles.Styles

	search textinput.Model
	date   textinput.Model

	withEnums bool
	typeIdx   int // 0 = all, then models.ProjectTypes
	statusIdx int // 0 = all, then models.ProjectStatuses
	sortIdx   int

	searching  bool
	datePicked bool
}

func newFilterBar(s *styles.Styles, withEnums bool, placeholder string) *filterBar {
	search := textinput.New()
	search.Placeholder = placeholder
	search.CharLimit = 100

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10

	return &filterBar{styles: s, search: search, date: date, withEnums: withEnums}
}

// options derives the current filter spec from the bar's state
func (f *filterBar) options() filter.Options {
	opts := filter.Defaults()
	opts.Search = f.search.Value()
	opts.Sort = filter.Sorts[f.sortIdx]

	if f.withEnums {
		if f.typeIdx > 0 {
			opts.Type = string(models.ProjectTypes[f.typeIdx-1])
		}
		if f.statusIdx > 0 {
			opts.Status = string(models.ProjectStatuses[f.statusIdx-1])
		}
	}

	if raw := strings.TrimSpace(f.date.Value()); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			opts.Date = &parsed
		}
	}
	return opts
}

func (f *filterBar) cycleType() {
	f.typeIdx = (f.typeIdx + 1) % (len(models.ProjectTypes) + 1)
}

func (f *filterBar) cycleStatus() {
	f.statusIdx = (f.statusIdx + 1) % (len(models.ProjectStatuses) + 1)
}

func (f *filterBar) cycleSort() {
	f.sortIdx = (f.sortIdx + 1) % len(filter.Sorts)
}

// clear resets every filter to its default
func (f *filterBar) clear() {
	f.search.Reset()
	f.date.Reset()
	f.typeIdx = 0
	f.statusIdx = 0
	f.sortIdx = 0
	f.searching = false
	f.datePicked = false
	f.search.Blur()
	f.date.Blur()
}

func (f *filterBar) focusSearch() tea.Cmd {
	f.searching = true
	f.datePicked = false
	f.date.Blur()
	f.search.Focus()
	return textinput.Blink
}

func (f *filterBar) focusDate() tea.Cmd {
	f.datePicked = true
	f.searching = false
	f.search.Blur()
	f.date.Focus()
	return textinput.Blink
}

func (f *filterBar) blur() {
	f.searching = false
	f.datePicked = false
	f.search.Blur()
	f.date.Blur()
}

// editing reports whether a text input currently owns the keyboard
func (f *filterBar) editing() bool {
	return f.searching || f.datePicked
}

// handleKey feeds a key to whichever input is focused
func (f *filterBar) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if f.searching {
		f.search, cmd = f.search.Update(msg)
	} else if f.datePicked {
		f.date, cmd = f.date.Update(msg)
	}
	return cmd
}

func (f *filterBar) view(width int) string {
	s := f.styles

	searchStyle := s.Input
	if f.searching {
		searchStyle = s.InputFocused
	}
	dateStyle := s.Input
	if f.datePicked {
		dateStyle = s.InputFocused
	}

	searchWidth := clamp(width-60, 14, 30)
	parts := []string{searchStyle.Width(searchWidth).Render(f.search.View())}

	if f.withEnums {
		typeLabel := filter.All
		if f.typeIdx > 0 {
			typeLabel = string(models.ProjectTypes[f.typeIdx-1])
		}
		statusLabel := filter.All
		if f.statusIdx > 0 {
			statusLabel = string(models.ProjectStatuses[f.statusIdx-1])
		}
		parts = append(parts,
			s.TitleMuted.Render(fmt.Sprintf(" type:%s", typeLabel)),
			s.TitleMuted.Render(fmt.Sprintf(" status:%s", statusLabel)),
		)
	}

	parts = append(parts,
		dateStyle.Width(12).Render(f.date.View()),
		s.TitleMuted.Render(fmt.Sprintf(" sort:%s", filter.Sorts[f.sortIdx])),
	)

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
