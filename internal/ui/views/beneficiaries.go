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

// BeneficiaryListView manages the beneficiaries directory
type BeneficiaryListView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	items    []models.Beneficiary
	loaded   bool
	fetching bool

	cursor  int
	scrollY int
	bar     *filterBar
	notice  notice

	editing     bool
	editingID   string
	original    models.BeneficiaryPayload
	inNom       textinput.Model
	inAddress   textinput.Model
	inTel       textinput.Model
	focusIdx    int
	fieldErrors map[string]string
	saving      bool

	confirmingDelete bool
	deleteTarget     models.Beneficiary
}

// NewBeneficiaryListView creates the beneficiaries page
func NewBeneficiaryListView(deps *Deps) *BeneficiaryListView {
	s := styles.NewStyles()

	inNom := textinput.New()
	inNom.Placeholder = "Full name"
	inNom.CharLimit = 100

	inAddress := textinput.New()
	inAddress.Placeholder = "Address"
	inAddress.CharLimit = 200

	inTel := textinput.New()
	inTel.Placeholder = "Phone"
	inTel.CharLimit = 30

	return &BeneficiaryListView{
		deps:      deps,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		bar:       newFilterBar(s, false, "Search beneficiaries..."),
		inNom:     inNom,
		inAddress: inAddress,
		inTel:     inTel,
	}
}

func (v *BeneficiaryListView) Init() tea.Cmd {
	return v.load
}

type beneficiariesLoadedMsg struct {
	items []models.Beneficiary
	err   error
}

type beneficiaryMutationMsg struct {
	notice string
	err    error
}

func (v *BeneficiaryListView) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	items, err := query.Collection(ctx, v.deps.Cache, query.KeyBeneficiaries, v.deps.Client.ListBeneficiaries)
	return beneficiariesLoadedMsg{items: items, err: err}
}

func (v *BeneficiaryListView) visibleItems() []models.Beneficiary {
	return filter.Apply(v.items, func(b models.Beneficiary) filter.Fields {
		return filter.Fields{
			Name:        b.Nom,
			Description: b.Address,
			UpdatedAt:   b.UpdatedAt,
		}
	}, v.bar.options())
}

func (v *BeneficiaryListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case beneficiariesLoadedMsg:
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

	case beneficiaryMutationMsg:
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

func (v *BeneficiaryListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		v.deps.Cache.Invalidate(query.KeyBeneficiaries)
		v.fetching = true
		return v, v.load
	}

	return v, nil
}

func (v *BeneficiaryListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		v.inAddress, cmd = v.inAddress.Update(msg)
	case 2:
		v.inTel, cmd = v.inTel.Update(msg)
	}
	return v, cmd
}

func (v *BeneficiaryListView) startCreate() {
	v.editing = true
	v.editingID = ""
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.Reset()
	v.inAddress.Reset()
	v.inTel.Reset()
	v.updateFormFocus()
}

func (v *BeneficiaryListView) startEdit(b models.Beneficiary) {
	v.editing = true
	v.editingID = b.ID
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.SetValue(b.Nom)
	v.inAddress.SetValue(b.Address)
	v.inTel.SetValue(b.Tel)
	v.updateFormFocus()
	v.original = v.currentPayload()
}

func (v *BeneficiaryListView) updateFormFocus() {
	v.inNom.Blur()
	v.inAddress.Blur()
	v.inTel.Blur()
	switch v.focusIdx {
	case 0:
		v.inNom.Focus()
	case 1:
		v.inAddress.Focus()
	case 2:
		v.inTel.Focus()
	}
}

func (v *BeneficiaryListView) currentPayload() models.BeneficiaryPayload {
	return models.BeneficiaryPayload{
		Nom:     strings.TrimSpace(v.inNom.Value()),
		Address: strings.TrimSpace(v.inAddress.Value()),
		Tel:     strings.TrimSpace(v.inTel.Value()),
	}
}

func (v *BeneficiaryListView) save() tea.Cmd {
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
			err := mut.Do(ctx, "create beneficiary", func(ctx context.Context) error {
				_, err := client.CreateBeneficiary(ctx, payload)
				return err
			}, query.KeyBeneficiaries)
			return beneficiaryMutationMsg{notice: "beneficiary created", err: err}
		}

		err := mut.Do(ctx, "update beneficiary", func(ctx context.Context) error {
			_, err := client.UpdateBeneficiary(ctx, id, payload)
			return err
		}, query.KeyBeneficiaries)
		return beneficiaryMutationMsg{notice: "beneficiary updated", err: err}
	}
}

func (v *BeneficiaryListView) deleteItem() tea.Cmd {
	target := v.deleteTarget
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := mut.Do(ctx, "delete beneficiary", func(ctx context.Context) error {
			return client.DeleteBeneficiary(ctx, target.ID)
		}, query.KeyBeneficiaries)
		return beneficiaryMutationMsg{notice: "beneficiary deleted", err: err}
	}
}

func (v *BeneficiaryListView) clampCursor() {
	visible := len(v.visibleItems())
	if v.cursor >= visible {
		v.cursor = max(0, visible-1)
	}
	if v.scrollY > v.cursor {
		v.scrollY = v.cursor
	}
}

func (v *BeneficiaryListView) ensureVisible() {
	visibleItems := v.pageSize()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *BeneficiaryListView) pageSize() int {
	available := v.height - 10
	if available < 1 {
		available = 1
	}
	return available
}

func (v *BeneficiaryListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading beneficiaries...")
	}

	var b strings.Builder
	title := "Beneficiaries"
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
			b.WriteString(s.TitleMuted.Render("No beneficiaries match the current filters. Press 'x' to clear."))
		} else {
			b.WriteString(s.TitleMuted.Render("No beneficiaries. Press 'n' to add one."))
		}
	} else {
		width := max(contentWidth-4, 30)
		end := min(v.scrollY+v.pageSize(), len(visible))
		for i := v.scrollY; i < end; i++ {
			item := visible[i]
			line := fmt.Sprintf("%-24s %-16s %s",
				truncate(item.Nom, 24), truncate(item.Tel, 16), truncate(item.Address, width-44))
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

func (v *BeneficiaryListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Beneficiary"
	if v.editingID != "" {
		formTitle = "Edit Beneficiary"
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
		"Address:",
		inputStyle(1).Width(inputWidth).Render(v.inAddress.View()),
	)
	if msg, ok := v.fieldErrors["Address"]; ok {
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

func (v *BeneficiaryListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Beneficiary?"),
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
