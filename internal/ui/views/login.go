package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projadm/internal/api"
	"projadm/internal/models"
	"projadm/internal/ui/keys"
	"projadm/internal/ui/styles"
)

// LoggedIn signals a successful login to the app
type LoggedIn struct{}

// LoginView is the email/password form shown while unauthenticated
type LoginView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit

	submitting  bool
	fieldErrors map[string]string
	notice      notice

	width  int
	height int
}

// NewLoginView creates the login form
func NewLoginView(deps *Deps) *LoginView {
	s := styles.NewStyles()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		deps:     deps,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginDoneMsg struct {
	err error
}

func (v *LoginView) submit() tea.Cmd {
	creds := models.Credentials{
		Email:    v.email.Value(),
		Password: v.password.Value(),
	}

	if errs := checkPayload(v.deps.Validate, creds); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil
	v.submitting = true

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := v.deps.Client.Login(ctx, creds)
		return loginDoneMsg{err: err}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginDoneMsg:
		v.submitting = false
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
			return v, nil
		}
		return v, func() tea.Msg { return LoggedIn{} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()

		case msg.String() == "ctrl+s":
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	emailStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 40)

	rows := []string{
		s.Title.Render("Sign in"),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
	}
	if msg, ok := v.fieldErrors["Email"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}
	rows = append(rows,
		"",
		"Password:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
	)
	if msg, ok := v.fieldErrors["Password"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}

	submitLabel := " Sign in "
	if v.submitting {
		submitLabel = " Signing in… "
	}
	rows = append(rows,
		"",
		btnStyle.Render(submitLabel),
	)
	if v.notice.level != noticeNone {
		rows = append(rows, "", v.notice.render(s))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵: submit"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}
