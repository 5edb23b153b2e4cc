package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"projadm/internal/ui/styles"
	"projadm/internal/ui/views"
)

// View identifies which page is active
type View int

const (
	ViewLogin View = iota
	ViewProjects
	ViewBeneficiaries
	ViewExperts
	ViewUsers
	ViewProjectDetail
)

// SessionExpiredMsg is sent from outside the program when a protected
// request comes back 401/403 and the token has been cleared.
type SessionExpiredMsg struct{}

const lastSectionKey = "last_section"

var sections = []struct {
	view  View
	label string
}{
	{ViewProjects, "1 Projects"},
	{ViewBeneficiaries, "2 Beneficiaries"},
	{ViewExperts, "3 Experts"},
	{ViewUsers, "4 Users"},
}

// capturer is implemented by every page; true means the page owns raw
// keyboard input and global shortcuts must stay out of the way.
type capturer interface {
	Capturing() bool
}

// App is the top level model. It owns navigation between pages and
// forwards everything else to the active one.
type App struct {
	deps   *views.Deps
	styles *styles.Styles

	current View
	active  tea.Model

	width  int
	height int
}

// NewApp creates the application, restoring the last visited section when
// a valid session exists.
func NewApp(deps *views.Deps) *App {
	app := &App{
		deps:   deps,
		styles: styles.NewStyles(),
	}

	if deps.Settings.HasValidToken() {
		app.current = app.restoreSection()
	} else {
		app.current = ViewLogin
	}
	app.active = app.build(app.current)
	return app
}

// restoreSection reads the last visited section from settings
func (a *App) restoreSection() View {
	raw, err := a.deps.Settings.Get(lastSectionKey)
	if err != nil || raw == "" {
		return ViewProjects
	}
	for _, s := range sections {
		if raw == fmt.Sprint(int(s.view)) {
			return s.view
		}
	}
	return ViewProjects
}

func (a *App) build(view View) tea.Model {
	switch view {
	case ViewLogin:
		return views.NewLoginView(a.deps)
	case ViewProjects:
		return views.NewProjectListView(a.deps)
	case ViewBeneficiaries:
		return views.NewBeneficiaryListView(a.deps)
	case ViewExperts:
		return views.NewExpertListView(a.deps)
	case ViewUsers:
		return views.NewUserListView(a.deps)
	default:
		return views.NewProjectListView(a.deps)
	}
}

// switchTo replaces the active page and replays the terminal size so the
// new page lays itself out immediately.
func (a *App) switchTo(view View, model tea.Model) tea.Cmd {
	a.current = view
	a.active = model

	for _, s := range sections {
		if s.view == view {
			if err := a.deps.Settings.Set(lastSectionKey, fmt.Sprint(int(view))); err != nil {
				a.deps.Log.Error("persist section", zap.Error(err))
			}
			break
		}
	}

	cmds := []tea.Cmd{a.active.Init()}
	if a.width > 0 {
		_, cmd := a.active.Update(tea.WindowSizeMsg{Width: a.width, Height: a.contentHeight()})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) contentHeight() int {
	if a.current == ViewLogin {
		return a.height
	}
	// Nav bar takes two rows
	return max(a.height-2, 1)
}

func (a *App) Init() tea.Cmd {
	return a.active.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.active, cmd = a.active.Update(tea.WindowSizeMsg{Width: msg.Width, Height: a.contentHeight()})
		return a, cmd

	case SessionExpiredMsg:
		if a.current == ViewLogin {
			return a, nil
		}
		a.deps.Log.Info("session expired, showing login")
		return a, a.switchTo(ViewLogin, views.NewLoginView(a.deps))

	case views.LoggedIn:
		return a, a.switchTo(ViewProjects, views.NewProjectListView(a.deps))

	case views.SelectedProject:
		return a, a.switchTo(ViewProjectDetail, views.NewProjectDetailView(a.deps, msg.Project))

	case views.BackToProjects:
		return a, a.switchTo(ViewProjects, views.NewProjectListView(a.deps))

	case tea.KeyMsg:
		if a.current != ViewLogin && !a.capturing() {
			switch msg.String() {
			case "1":
				return a, a.switchTo(ViewProjects, views.NewProjectListView(a.deps))
			case "2":
				return a, a.switchTo(ViewBeneficiaries, views.NewBeneficiaryListView(a.deps))
			case "3":
				return a, a.switchTo(ViewExperts, views.NewExpertListView(a.deps))
			case "4":
				return a, a.switchTo(ViewUsers, views.NewUserListView(a.deps))
			case "ctrl+l":
				a.deps.Client.Logout()
				return a, a.switchTo(ViewLogin, views.NewLoginView(a.deps))
			}
		}
	}

	var cmd tea.Cmd
	a.active, cmd = a.active.Update(msg)
	return a, cmd
}

func (a *App) capturing() bool {
	if c, ok := a.active.(capturer); ok {
		return c.Capturing()
	}
	return false
}

func (a *App) View() string {
	content := a.active.View()
	if a.current == ViewLogin {
		return content
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.navBar(), content)
}

func (a *App) navBar() string {
	s := a.styles

	items := make([]string, 0, len(sections)+1)
	for _, section := range sections {
		if section.view == a.current {
			items = append(items, s.NavItemActive.Render(section.label))
		} else {
			items = append(items, s.NavItem.Render(section.label))
		}
	}
	items = append(items, s.NavItem.Render("ctrl+l logout"))

	bar := lipgloss.JoinHorizontal(lipgloss.Center, items...)
	if a.width > styles.MaxWidth {
		return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, bar)
	}
	return bar
}
