package styles

import (
	"github.com/charmbracelet/lipgloss"

	"projadm/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum content width for the app
const MaxWidth = 100

// ContentWidth returns the actual content width to use
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally when the terminal is wider
// than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// StatusColor maps a project status to its badge color
func StatusColor(status models.ProjectStatus) lipgloss.Color {
	switch status {
	case models.StatusActive:
		return Current.Success
	case models.StatusCompleted:
		return Current.Info
	case models.StatusOnHold:
		return Current.Warning
	case models.StatusCancelled:
		return Current.Error
	default:
		return Current.ForegroundDim
	}
}

// Styles holds the pre-computed styles for the UI
type Styles struct {
	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Navigation bar
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style

	// Lists and tables
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	TableHeader  lipgloss.Style

	// Filter bar
	FilterBar lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Badges
	Badge lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style

	// Notices (toast equivalent)
	NoticeSuccess lipgloss.Style
	NoticeError   lipgloss.Style
	NoticeInfo    lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		NavItem: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		NavItemActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Padding(0, 1).
			Bold(true).
			Underline(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Padding(0, 2).
			Bold(true),

		FilterBar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		NoticeSuccess: lipgloss.NewStyle().
			Foreground(t.Success).
			Padding(0, 1),

		NoticeError: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		NoticeInfo: lipgloss.NewStyle().
			Foreground(t.Info).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}
