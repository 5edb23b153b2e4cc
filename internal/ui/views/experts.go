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

// ExpertListView manages the experts directory
type ExpertListView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	items    []models.Expert
	loaded   bool
	fetching bool

	cursor  int
	scrollY int
	bar     *filterBar
	notice  notice

	editing      bool
	editingID    string
	original     models.ExpertPayload
	inNom        textinput.Model
	inSpecialite textinput.Model
	inTel        textinput.Model
	focusIdx     int
	fieldErrors  map[string]string
	saving       bool

	confirmingDelete bool
	deleteTarget     models.Expert
}

// NewExpertListView creates the experts page
func NewExpertListView(deps *Deps) *ExpertListView {
	s := styles.NewStyles()

	inNom := textinput.New()
	inNom.Placeholder = "Full name"
	inNom.CharLimit = 100

	inSpecialite := textinput.New()
	inSpecialite.Placeholder = "Speciality"
	inSpecialite.CharLimit = 100

	inTel := textinput.New()
	inTel.Placeholder = "Phone"
	inTel.CharLimit = 30

	return &ExpertListView{
		deps:         deps,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		bar:          newFilterBar(s, false, "Search experts..."),
		inNom:        inNom,
		inSpecialite: inSpecialite,
		inTel:        inTel,
	}
}

func (v *ExpertListView) Init() tea.Cmd {
	return v.load
}

type expertsLoadedMsg struct {
	items []models.Expert
	err   error
}

type expertMutationMsg struct {
	notice string
	err    error
}

func (v *ExpertListView) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	items, err := query.Collection(ctx, v.deps.Cache, query.KeyExperts, v.deps.Client.ListExperts)
	return expertsLoadedMsg{items: items, err: err}
}

func (v *ExpertListView) visibleItems() []models.Expert {
	return filter.Apply(v.items, func(e models.Expert) filter.Fields {
		return filter.Fields{
			Name:        e.Nom,
			Description: e.Specialite,
			UpdatedAt:   e.UpdatedAt,
		}
	}, v.bar.options())
}

func (v *ExpertListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case expertsLoadedMsg:
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

	case expertMutationMsg:
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

func (v *ExpertListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		v.deps.Cache.Invalidate(query.KeyExperts)
		v.fetching = true
		return v, v.load
	}

	return v, nil
}

func (v *ExpertListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 3 {
			return v, v.save()
		}
		v.focusIdx++
		v.updateFormFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.inNom, cmd = v.inNom.Update(msg)
	case 1:
		v.inSpecialite, cmd = v.inSpecialite.Update(msg)
	case 2:
		v.inTel, cmd = v.inTel.Update(msg)
	}
	return v, cmd
}

func (v *ExpertListView) startCreate() {
	v.editing = true
	v.editingID = ""
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.Reset()
	v.inSpecialite.Reset()
	v.inTel.Reset()
	v.updateFormFocus()
}

func (v *ExpertListView) startEdit(e models.Expert) {
	v.editing = true
	v.editingID = e.ID
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.SetValue(e.Nom)
	v.inSpecialite.SetValue(e.Specialite)
	v.inTel.SetValue(e.Tel)
	v.updateFormFocus()
	v.original = v.currentPayload()
}

func (v *ExpertListView) updateFormFocus() {
	v.inNom.Blur()
	v.inSpecialite.Blur()
	v.inTel.Blur()
	switch v.focusIdx {
	case 0:
		v.inNom.Focus()
	case 1:
		v.inSpecialite.Focus()
	case 2:
		v.inTel.Focus()
	}
}

func (v *ExpertListView) currentPayload() models.ExpertPayload {
	return models.ExpertPayload{
		Nom:        strings.TrimSpace(v.inNom.Value()),
		Specialite: strings.TrimSpace(v.inSpecialite.Value()),
		Tel:        strings.TrimSpace(v.inTel.Value()),
	}
}

func (v *ExpertListView) save() tea.Cmd {
	if v.saving {
		return nil
	}

	payload := v.currentPayload()
	if errs := checkPayload(v.deps.Validate, payload); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil

	if v.editingID != "" && payload == v.original {
		v.editing = false
		v.notice = infoNotice("no changes detected")
		return nil
	}

	v.saving = true
	id := v.editingID
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if id == "" {
			err := mut.Do(ctx, "create expert", func(ctx context.Context) error {
				_, err := client.CreateExpert(ctx, payload)
				return err
			}, query.KeyExperts)
			return expertMutationMsg{notice: "expert created", err: err}
		}

		err := mut.Do(ctx, "update expert", func(ctx context.Context) error {
			_, err := client.UpdateExpert(ctx, id, payload)
			return err
		}, query.KeyExperts)
		return expertMutationMsg{notice: "expert updated", err: err}
	}
}

func (v *ExpertListView) deleteItem() tea.Cmd {
	target := v.deleteTarget
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := mut.Do(ctx, "delete expert", func(ctx context.Context) error {
			return client.DeleteExpert(ctx, target.ID)
		}, query.KeyExperts)
		return expertMutationMsg{notice: "expert deleted", err: err}
	}
}

func (v *ExpertListView) clampCursor() {
	visible := len(v.visibleItems())
	if v.cursor >= visible {
		v.cursor = max(0, visible-1)
	}
	if v.scrollY > v.cursor {
		v.scrollY = v.cursor
	}
}

func (v *ExpertListView) ensureVisible() {
	visibleItems := v.pageSize()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *ExpertListView) pageSize() int {
	available := v.height - 10
	if available < 1 {
		available = 1
	}
	return available
}

func (v *ExpertListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading experts...")
	}

	var b strings.Builder
	title := "Experts"
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
			b.WriteString(s.TitleMuted.Render("No experts match the current filters. Press 'x' to clear."))
		} else {
			b.WriteString(s.TitleMuted.Render("No experts. Press 'n' to add one."))
		}
	} else {
		width := max(contentWidth-4, 30)
		end := min(v.scrollY+v.pageSize(), len(visible))
		for i := v.scrollY; i < end; i++ {
			item := visible[i]
			line := fmt.Sprintf("%-24s %-20s %s",
				truncate(item.Nom, 24), truncate(item.Specialite, 20), truncate(item.Tel, 16))
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

func (v *ExpertListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Expert"
	if v.editingID != "" {
		formTitle = "Edit Expert"
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
		inputStyle(0).Width(inputWidth).Render(v.inNom.View()),
	}
	if msg, ok := v.fieldErrors["Nom"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}
	rows = append(rows,
		"Speciality:",
		inputStyle(1).Width(inputWidth).Render(v.inSpecialite.View()),
	)
	if msg, ok := v.fieldErrors["Specialite"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}
	rows = append(rows,
		"Phone:",
		inputStyle(2).Width(20).Render(v.inTel.View()),
	)
	if msg, ok := v.fieldErrors["Tel"]; ok {
		rows = append(rows, s.FieldError.Render(msg))
	}

	btnStyle := s.Button
	if v.focusIdx == 3 {
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
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ExpertListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Expert?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be removed.", v.deleteTarget.Nom)),
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
