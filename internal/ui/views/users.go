package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projadm/internal/api"
	"projadm/internal/filter"
	"projadm/internal/models"
	"projadm/internal/query"
	"projadm/internal/ui/keys"
	"projadm/internal/ui/styles"
)

var userRoles = []string{"admin", "manager", "user"}

// UserListView manages dashboard accounts
type UserListView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	items    []models.User
	loaded   bool
	fetching bool

	cursor  int
	scrollY int
	bar     *filterBar
	notice  notice

	editing     bool
	editingID   string
	origName    string
	origEmail   string
	origRole    string
	inName      textinput.Model
	inEmail     textinput.Model
	inPassword  textinput.Model
	roleIdx     int
	focusIdx    int // 0 name, 1 email, 2 password (create only), 3 role, 4 save
	fieldErrors map[string]string
	saving      bool

	confirmingDelete bool
	deleteTarget     models.User
}

// NewUserListView creates the users page
func NewUserListView(deps *Deps) *UserListView {
	s := styles.NewStyles()

	inName := textinput.New()
	inName.Placeholder = "Name"
	inName.CharLimit = 100

	inEmail := textinput.New()
	inEmail.Placeholder = "email@example.com"
	inEmail.CharLimit = 100

	inPassword := textinput.New()
	inPassword.Placeholder = "password"
	inPassword.CharLimit = 100
	inPassword.EchoMode = textinput.EchoPassword
	inPassword.EchoCharacter = '•'

	return &UserListView{
		deps:       deps,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		bar:        newFilterBar(s, false, "Search users..."),
		inName:     inName,
		inEmail:    inEmail,
		inPassword: inPassword,
	}
}

func (v *UserListView) Init() tea.Cmd {
	return v.load
}

type usersLoadedMsg struct {
	items []models.User
	err   error
}

type userMutationMsg struct {
	notice string
	err    error
}

func (v *UserListView) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	items, err := query.Collection(ctx, v.deps.Cache, query.KeyUsers, v.deps.Client.ListUsers)
	return usersLoadedMsg{items: items, err: err}
}

func (v *UserListView) visibleItems() []models.User {
	return filter.Apply(v.items, func(u models.User) filter.Fields {
		return filter.Fields{
			Name:        u.Name,
			Description: u.Email,
			Status:      u.Status,
			UpdatedAt:   u.UpdatedAt,
		}
	}, v.bar.options())
}

func (v *UserListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case usersLoadedMsg:
		v.fetching = false
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
			if msg.items != nil {
				v.items = msg.items
			}
			v.loaded = true
			return v, nil
		}
		v.items = msg.items
		v.loaded = true
		v.clampCursor()
		return v, nil

	case userMutationMsg:
		v.saving = false
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
			return v, nil
		}
		v.editing = false
		v.confirmingDelete = false
		v.notice = successNotice(msg.notice)
		v.fetching = true
		return v, v.load

	case tea.KeyMsg:
		if v.confirmingDelete {
			switch msg.String() {
			case "y", "Y":
				return v, v.deleteItem()
			case "n", "N", "esc":
				v.confirmingDelete = false
			}
			return v, nil
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *UserListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.bar.editing() {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.bar.blur()
			v.clampCursor()
			return v, nil
		default:
			cmd := v.bar.handleKey(msg)
			v.clampCursor()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visibleItems())-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.New):
		v.startCreate()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		visible := v.visibleItems()
		if v.cursor < len(visible) {
			v.startEdit(visible[v.cursor])
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		visible := v.visibleItems()
		if v.cursor < len(visible) {
			v.confirmingDelete = true
			v.deleteTarget = visible[v.cursor]
		}

	case key.Matches(msg, v.keys.Search):
		return v, v.bar.focusSearch()

	case msg.String() == ".":
		return v, v.bar.focusDate()

	case key.Matches(msg, v.keys.Sort):
		v.bar.cycleSort()

	case msg.String() == "x":
		v.bar.clear()
		v.clampCursor()

	case key.Matches(msg, v.keys.Refresh):
		v.deps.Cache.Invalidate(query.KeyUsers)
		v.fetching = true
		return v, v.load
	}

	return v, nil
}

// nextSlot skips the password slot when editing an existing account
func (v *UserListView) nextSlot(idx, dir int) int {
	idx = (idx + dir + 5) % 5
	if v.editingID != "" && idx == 2 {
		idx = (idx + dir + 5) % 5
	}
	return idx
}

func (v *UserListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = v.nextSlot(v.focusIdx, 1)
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = v.nextSlot(v.focusIdx, -1)
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 4 {
			return v, v.save()
		}
		v.focusIdx = v.nextSlot(v.focusIdx, 1)
		v.updateFormFocus()
		return v, nil

	case msg.String() == " ", msg.String() == "right":
		if v.focusIdx == 3 {
			v.roleIdx = (v.roleIdx + 1) % len(userRoles)
			return v, nil
		}

	case msg.String() == "left":
		if v.focusIdx == 3 {
			v.roleIdx = (v.roleIdx + len(userRoles) - 1) % len(userRoles)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.inName, cmd = v.inName.Update(msg)
	case 1:
		v.inEmail, cmd = v.inEmail.Update(msg)
	case 2:
		v.inPassword, cmd = v.inPassword.Update(msg)
	}
	return v, cmd
}

func (v *UserListView) startCreate() {
	v.editing = true
	v.editingID = ""
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inName.Reset()
	v.inEmail.Reset()
	v.inPassword.Reset()
	v.roleIdx = len(userRoles) - 1
	v.updateFormFocus()
}

func (v *UserListView) startEdit(u models.User) {
	v.editing = true
	v.editingID = u.ID
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inName.SetValue(u.Name)
	v.inEmail.SetValue(u.Email)
	v.inPassword.Reset()
	v.roleIdx = indexOfRole(u.Role)
	v.origName = u.Name
	v.origEmail = u.Email
	v.origRole = u.Role
	v.updateFormFocus()
}

func (v *UserListView) updateFormFocus() {
	v.inName.Blur()
	v.inEmail.Blur()
	v.inPassword.Blur()
	switch v.focusIdx {
	case 0:
		v.inName.Focus()
	case 1:
		v.inEmail.Focus()
	case 2:
		v.inPassword.Focus()
	}
}

func (v *UserListView) save() tea.Cmd {
	if v.saving {
		return nil
	}

	name := strings.TrimSpace(v.inName.Value())
	email := strings.TrimSpace(v.inEmail.Value())
	role := userRoles[v.roleIdx]

	mut := v.deps.Mutator
	client := v.deps.Client

	if v.editingID == "" {
		payload := models.UserPayload{
			Name:     name,
			Email:    email,
			Password: v.inPassword.Value(),
			Role:     role,
		}
		if errs := checkPayload(v.deps.Validate, payload); errs != nil {
			v.fieldErrors = errs
			return nil
		}
		v.fieldErrors = nil
		v.saving = true

		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()

			err := mut.Do(ctx, "create user", func(ctx context.Context) error {
				_, err := client.CreateUser(ctx, payload)
				return err
			}, query.KeyUsers)
			return userMutationMsg{notice: "user created", err: err}
		}
	}

	payload := models.UserUpdatePayload{Name: name, Email: email, Role: role}
	if errs := checkPayload(v.deps.Validate, payload); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil

	if name == v.origName && email == v.origEmail && role == v.origRole {
		v.editing = false
		v.notice = infoNotice("no changes detected")
		return nil
	}

	v.saving = true
	id := v.editingID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := mut.Do(ctx, "update user", func(ctx context.Context) error {
			_, err := client.UpdateUser(ctx, id, payload)
			return err
		}, query.KeyUsers)
		return userMutationMsg{notice: "user updated", err: err}
	}
}

func (v *UserListView) deleteItem() tea.Cmd {
	target := v.deleteTarget
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := mut.Do(ctx, "delete user", func(ctx context.Context) error {
			return client.DeleteUser(ctx, target.ID)
		}, query.KeyUsers)
		return userMutationMsg{notice: "user deleted", err: err}
	}
}

func (v *UserListView) clampCursor() {
	visible := len(v.visibleItems())
	if v.cursor >= visible {
		v.cursor = max(0, visible-1)
	}
	if v.scrollY > v.cursor {
		v.scrollY = v.cursor
	}
}

func (v *UserListView) ensureVisible() {
	visibleItems := v.pageSize()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *UserListView) pageSize() int {
	available := v.height - 10
	if available < 1 {
		available = 1
	}
	return available
}

func (v *UserListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading users...")
	}

	var b strings.Builder
	title := "Users"
	if v.fetching {
		title += " (refreshing…)"
	}
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.bar.view(contentWidth))
	b.WriteString("\n\n")

	visible := v.visibleItems()
	if len(visible) == 0 {
		if v.bar.options().Active() {
			b.WriteString(s.TitleMuted.Render("No users match the current filters. Press 'x' to clear."))
		} else {
			b.WriteString(s.TitleMuted.Render("No users. Press 'n' to add one."))
		}
	} else {
		width := max(contentWidth-4, 30)
		end := min(v.scrollY+v.pageSize(), len(visible))
		for i := v.scrollY; i < end; i++ {
			item := visible[i]
			line := fmt.Sprintf("%-22s %-28s %-10s %s",
				truncate(item.Name, 22), truncate(item.Email, 28),
				item.Role, item.Status)
			if i == v.cursor {
				b.WriteString(s.ListSelected.Width(width).Render(line))
			} else {
				b.WriteString(s.ListItem.Width(width).Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if v.notice.level != noticeNone {
		b.WriteString(v.notice.render(s))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s del • %s search • %s sort • %s date • %s clear • %s refresh",
			s.HelpKey.Render("n"), s.HelpKey.Render("e"), s.HelpKey.Render("d"),
			s.HelpKey.Render("/"), s.HelpKey.Render("s"), s.HelpKey.Render("."),
			s.HelpKey.Render("x"), s.HelpKey.Render("r"))))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *UserListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New User"
	if v.editingID != "" {
		formTitle = "Edit User"
	}

	inputWidth := clamp(contentWidth-10, 24, 44)
	inputStyle := func(slot int) lipgloss.Style {
		if v.focusIdx == slot {
			return s.InputFocused
		}
		return s.Input
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Name:",
		inputStyle(0).Width(inputWidth).Render(v.inName.View()),
	}
	if msg, ok := v.fieldErrors["Name"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}
	rows = append(rows,
		"Email:",
		inputStyle(1).Width(inputWidth).Render(v.inEmail.View()),
	)
	if msg, ok := v.fieldErrors["Email"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}

	if v.editingID == "" {
		rows = append(rows,
			"Password:",
			inputStyle(2).Width(inputWidth).Render(v.inPassword.View()),
		)
		if msg, ok := v.fieldErrors["Password"]; ok {
			rows = append(rows, s.FieldError.Render(msg))
		}
	}

	roleStyle := s.Button
	if v.focusIdx == 3 {
		roleStyle = s.ButtonFocused
	}
	rows = append(rows,
		"Role:",
		roleStyle.Render("◂ "+userRoles[v.roleIdx]+" ▸"),
	)

	btnStyle := s.Button
	if v.focusIdx == 4 {
		btnStyle = s.ButtonFocused
	}
	saveLabel := " Save "
	if v.saving {
		saveLabel = " Saving… "
	}
	rows = append(rows, "", btnStyle.Render(saveLabel))
	if v.notice.level == noticeError {
		rows = append(rows, "", v.notice.render(s))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ←/→: change role • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UserListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete User?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will lose access.", v.deleteTarget.Name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func indexOfRole(role string) int {
	for i, r := range userRoles {
		if r == role {
			return i
		}
	}
	return len(userRoles) - 1
}
