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

// SelectedProject signals that a project was opened
type SelectedProject struct {
	Project models.Project
}

// ProjectListView is the projects dashboard page: filterable list plus
// create/edit/delete dialogs.
type ProjectListView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	projects      []models.Project
	beneficiaries []models.Beneficiary
	experts       []models.Expert
	loaded        bool
	fetching      bool

	cursor  int
	scrollY int
	bar     *filterBar
	notice  notice

	// Dialog state
	editing     bool
	editingID   string // "" while creating
	original    models.ProjectPayload
	inNom       textinput.Model
	inDesc      textinput.Model
	inBudget    textinput.Model
	inDates     [4]textinput.Model // acquisition, début, fin, clôture
	statusIdx   int
	typeIdx     int
	benIdx      int
	expIdx      int
	focusIdx    int
	fieldErrors map[string]string
	saving      bool

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Project
}

var projectDateLabels = [4]string{"Acquisition", "Début", "Fin", "Clôture"}

// Form focus slots: 0 nom, 1 description, 2 status, 3 type, 4 budget,
// 5-8 dates, 9 beneficiary, 10 expert, 11 save.
const projectFormSlots = 12

// NewProjectListView creates the projects page
func NewProjectListView(deps *Deps) *ProjectListView {
	s := styles.NewStyles()

	inNom := textinput.New()
	inNom.Placeholder = "Project name"
	inNom.CharLimit = 100

	inDesc := textinput.New()
	inDesc.Placeholder = "Description"
	inDesc.CharLimit = 300

	inBudget := textinput.New()
	inBudget.Placeholder = "0"
	inBudget.CharLimit = 15

	var inDates [4]textinput.Model
	for i := range inDates {
		d := textinput.New()
		d.Placeholder = "YYYY-MM-DD"
		d.CharLimit = 10
		inDates[i] = d
	}

	return &ProjectListView{
		deps:     deps,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		bar:      newFilterBar(s, true, "Search projects..."),
		inNom:    inNom,
		inDesc:   inDesc,
		inBudget: inBudget,
		inDates:  inDates,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	// Projects and both reference collections load in parallel; the
	// cache keeps each key to a single in-flight request.
	return tea.Batch(v.loadProjects, v.loadRefs)
}

type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

type projectRefsMsg struct {
	beneficiaries []models.Beneficiary
	experts       []models.Expert
	err           error
}

type projectMutationMsg struct {
	notice string
	err    error
}

func (v *ProjectListView) loadProjects() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	projects, err := query.Collection(ctx, v.deps.Cache, query.KeyProjects, v.deps.Client.ListProjects)
	return projectsLoadedMsg{projects: projects, err: err}
}

func (v *ProjectListView) loadRefs() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	beneficiaries, err := query.Collection(ctx, v.deps.Cache, query.KeyBeneficiaries, v.deps.Client.ListBeneficiaries)
	if err != nil {
		return projectRefsMsg{err: err}
	}
	experts, err := query.Collection(ctx, v.deps.Cache, query.KeyExperts, v.deps.Client.ListExperts)
	return projectRefsMsg{beneficiaries: beneficiaries, experts: experts, err: err}
}

// visibleProjects derives the filtered, sorted view. Pure given the
// cached collection and the bar's options.
func (v *ProjectListView) visibleProjects() []models.Project {
	return filter.Apply(v.projects, func(p models.Project) filter.Fields {
		return filter.Fields{
			Name:        p.Nom,
			Description: p.Description,
			Type:        string(p.TypeProjet),
			Status:      string(p.Status),
			UpdatedAt:   p.UpdatedAt,
		}
	}, v.bar.options())
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case projectsLoadedMsg:
		v.fetching = false
		if msg.err != nil {
			// Stale collection stays on screen; only the notice changes
			v.notice = errorNotice(api.UserMessage(msg.err))
			if msg.projects != nil {
				v.projects = msg.projects
			}
			v.loaded = true
			return v, nil
		}
		v.projects = msg.projects
		v.loaded = true
		v.clampCursor()
		return v, nil

	case projectRefsMsg:
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
			return v, nil
		}
		v.beneficiaries = msg.beneficiaries
		v.experts = msg.experts
		return v, nil

	case projectMutationMsg:
		v.saving = false
		if msg.err != nil {
			// Dialog stays open for correction; cache untouched
			v.notice = errorNotice(api.UserMessage(msg.err))
			return v, nil
		}
		v.editing = false
		v.confirmingDelete = false
		v.notice = successNotice(msg.notice)
		v.fetching = true
		return v, v.loadProjects

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *ProjectListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visibleProjects())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		visible := v.visibleProjects()
		if v.cursor < len(visible) {
			project := visible[v.cursor]
			return v, func() tea.Msg {
				return SelectedProject{Project: project}
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startCreate()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		visible := v.visibleProjects()
		if v.cursor < len(visible) {
			v.startEdit(visible[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		visible := v.visibleProjects()
		if v.cursor < len(visible) {
			v.confirmingDelete = true
			v.deleteTarget = visible[v.cursor]
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		return v, v.bar.focusSearch()

	case msg.String() == ".":
		return v, v.bar.focusDate()

	case msg.String() == "t":
		v.bar.cycleType()
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.bar.cycleStatus()
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		v.bar.cycleSort()
		return v, nil

	case msg.String() == "x":
		v.bar.clear()
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		v.deps.Cache.Invalidate(query.KeyProjects)
		v.fetching = true
		return v, v.loadProjects
	}

	return v, nil
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return v, v.deleteProject()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveProject()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % projectFormSlots
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + projectFormSlots - 1) % projectFormSlots
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == projectFormSlots-1 {
			return v, v.saveProject()
		}
		v.focusIdx++
		v.updateFormFocus()
		return v, nil

	case msg.String() == " ", msg.String() == "right":
		switch v.focusIdx {
		case 2:
			v.statusIdx = (v.statusIdx + 1) % len(models.ProjectStatuses)
			return v, nil
		case 3:
			v.typeIdx = (v.typeIdx + 1) % len(models.ProjectTypes)
			return v, nil
		case 9:
			if len(v.beneficiaries) > 0 {
				v.benIdx = (v.benIdx + 1) % len(v.beneficiaries)
			}
			return v, nil
		case 10:
			if len(v.experts) > 0 {
				v.expIdx = (v.expIdx + 1) % len(v.experts)
			}
			return v, nil
		}

	case msg.String() == "left":
		switch v.focusIdx {
		case 2:
			v.statusIdx = (v.statusIdx + len(models.ProjectStatuses) - 1) % len(models.ProjectStatuses)
			return v, nil
		case 3:
			v.typeIdx = (v.typeIdx + len(models.ProjectTypes) - 1) % len(models.ProjectTypes)
			return v, nil
		case 9:
			if len(v.beneficiaries) > 0 {
				v.benIdx = (v.benIdx + len(v.beneficiaries) - 1) % len(v.beneficiaries)
			}
			return v, nil
		case 10:
			if len(v.experts) > 0 {
				v.expIdx = (v.expIdx + len(v.experts) - 1) % len(v.experts)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.inNom, cmd = v.inNom.Update(msg)
	case 1:
		v.inDesc, cmd = v.inDesc.Update(msg)
	case 4:
		v.inBudget, cmd = v.inBudget.Update(msg)
	case 5, 6, 7, 8:
		v.inDates[v.focusIdx-5], cmd = v.inDates[v.focusIdx-5].Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) startCreate() {
	v.editing = true
	v.editingID = ""
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.Reset()
	v.inDesc.Reset()
	v.inBudget.Reset()
	for i := range v.inDates {
		v.inDates[i].Reset()
	}
	v.statusIdx = 0
	v.typeIdx = 0
	v.benIdx = 0
	v.expIdx = 0
	v.updateFormFocus()
}

func (v *ProjectListView) startEdit(p models.Project) {
	v.editing = true
	v.editingID = p.ID
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inNom.SetValue(p.Nom)
	v.inDesc.SetValue(p.Description)
	v.inBudget.SetValue(money(p.Budget))
	v.inDates[0].SetValue(p.DateAcquisition)
	v.inDates[1].SetValue(p.DateDebut)
	v.inDates[2].SetValue(p.DateFin)
	v.inDates[3].SetValue(p.DateCloture)
	v.statusIdx = indexOfStatus(p.Status)
	v.typeIdx = indexOfType(p.TypeProjet)
	v.benIdx = indexOfBeneficiary(v.beneficiaries, p.BeneficiaireID)
	v.expIdx = indexOfExpert(v.experts, p.ExpertID)
	v.updateFormFocus()

	v.original = v.currentPayload()
}

func (v *ProjectListView) updateFormFocus() {
	v.inNom.Blur()
	v.inDesc.Blur()
	v.inBudget.Blur()
	for i := range v.inDates {
		v.inDates[i].Blur()
	}
	switch v.focusIdx {
	case 0:
		v.inNom.Focus()
	case 1:
		v.inDesc.Focus()
	case 4:
		v.inBudget.Focus()
	case 5, 6, 7, 8:
		v.inDates[v.focusIdx-5].Focus()
	}
}

func (v *ProjectListView) currentPayload() models.ProjectPayload {
	budget, _ := parseAmount(v.inBudget.Value())
	payload := models.ProjectPayload{
		Nom:             strings.TrimSpace(v.inNom.Value()),
		Description:     strings.TrimSpace(v.inDesc.Value()),
		Status:          models.ProjectStatuses[v.statusIdx],
		TypeProjet:      models.ProjectTypes[v.typeIdx],
		Budget:          budget,
		DateAcquisition: strings.TrimSpace(v.inDates[0].Value()),
		DateDebut:       strings.TrimSpace(v.inDates[1].Value()),
		DateFin:         strings.TrimSpace(v.inDates[2].Value()),
		DateCloture:     strings.TrimSpace(v.inDates[3].Value()),
	}
	if v.benIdx < len(v.beneficiaries) {
		payload.BeneficiaireID = v.beneficiaries[v.benIdx].ID
	}
	if v.expIdx < len(v.experts) {
		payload.ExpertID = v.experts[v.expIdx].ID
	}
	return payload
}

func (v *ProjectListView) saveProject() tea.Cmd {
	if v.saving {
		return nil
	}

	if _, err := parseAmount(v.inBudget.Value()); err != nil {
		v.fieldErrors = map[string]string{"Budget": "must be a number"}
		return nil
	}

	payload := v.currentPayload()
	if errs := checkPayload(v.deps.Validate, payload); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil

	// Unchanged edit: no request at all, just an informational notice
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
			err := mut.Do(ctx, "create project", func(ctx context.Context) error {
				_, err := client.CreateProject(ctx, payload)
				return err
			}, query.KeyProjects)
			return projectMutationMsg{notice: "project created", err: err}
		}

		err := mut.Do(ctx, "update project", func(ctx context.Context) error {
			_, err := client.UpdateProject(ctx, id, payload)
			return err
		}, query.KeyProjects)
		return projectMutationMsg{notice: "project updated", err: err}
	}
}

func (v *ProjectListView) deleteProject() tea.Cmd {
	target := v.deleteTarget
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := mut.Do(ctx, "delete project", func(ctx context.Context) error {
			return client.DeleteProject(ctx, target.ID)
		}, query.KeyProjects)
		return projectMutationMsg{notice: "project deleted", err: err}
	}
}

func (v *ProjectListView) clampCursor() {
	visible := len(v.visibleProjects())
	if v.cursor >= visible {
		v.cursor = max(0, visible-1)
	}
	if v.scrollY > v.cursor {
		v.scrollY = v.cursor
	}
}

func (v *ProjectListView) ensureVisible() {
	visibleItems := v.pageSize()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *ProjectListView) pageSize() int {
	// Each row is 2 lines + 1 margin
	available := v.height - 12
	if available < 3 {
		available = 3
	}
	items := available / 3
	if items < 1 {
		items = 1
	}
	return items
}

func (v *ProjectListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading projects...")
	}

	var b strings.Builder
	title := "Projects"
	if v.fetching {
		title += " (refreshing…)"
	}
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.bar.view(contentWidth))
	b.WriteString("\n\n")

	visible := v.visibleProjects()
	if len(visible) == 0 {
		if v.bar.options().Active() {
			b.WriteString(s.TitleMuted.Render("No projects match the current filters. Press 'x' to clear."))
		} else {
			b.WriteString(s.TitleMuted.Render("No projects. Press 'n' to create one."))
		}
	} else {
		end := min(v.scrollY+v.pageSize(), len(visible))
		for i := v.scrollY; i < end; i++ {
			b.WriteString(v.renderRow(visible[i], i == v.cursor))
		}
	}

	b.WriteString("\n")
	if v.notice.level != noticeNone {
		b.WriteString(v.notice.render(s))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ProjectListView) renderRow(p models.Project, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 30)

	badge := s.Badge.Foreground(styles.StatusColor(p.Status)).Render(string(p.Status))
	line1 := fmt.Sprintf("%s %s %s", truncate(p.Nom, width-30), badge,
		s.TitleMuted.Render(string(p.TypeProjet)))
	line2 := fmt.Sprintf("budget %s • updated %s • %s",
		money(p.Budget), humanDate(p.UpdatedAt), truncate(p.Description, width-50))

	var rowStyle lipgloss.Style
	if selected {
		rowStyle = s.ListSelected.Width(width)
	} else {
		rowStyle = s.ListItem.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		rowStyle.Render(line1),
		rowStyle.Foreground(styles.Current.ForegroundDim).Render(line2),
	) + "\n"
}

func (v *ProjectListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Project"
	if v.editingID != "" {
		formTitle = "Edit Project"
	}

	inputWidth := clamp(contentWidth-10, 24, 50)

	inputStyle := func(slot int) lipgloss.Style {
		if v.focusIdx == slot {
			return s.InputFocused
		}
		return s.Input
	}
	selector := func(slot int, label string) string {
		style := s.Button
		if v.focusIdx == slot {
			style = s.ButtonFocused
		}
		return style.Render("◂ " + label + " ▸")
	}

	benLabel := "none available"
	if v.benIdx < len(v.beneficiaries) {
		benLabel = v.beneficiaries[v.benIdx].Nom
	}
	expLabel := "none available"
	if v.expIdx < len(v.experts) {
		expLabel = v.experts[v.expIdx].Nom
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Name:",
		inputStyle(0).Width(inputWidth).Render(v.inNom.View()),
	}
	rows = v.appendFieldError(rows, "Nom")
	rows = append(rows,
		"Description:",
		inputStyle(1).Width(inputWidth).Render(v.inDesc.View()),
		"Status:",
		selector(2, string(models.ProjectStatuses[v.statusIdx])),
		"Type:",
		selector(3, string(models.ProjectTypes[v.typeIdx])),
		"Budget:",
		inputStyle(4).Width(16).Render(v.inBudget.View()),
	)
	rows = v.appendFieldError(rows, "Budget")

	for i, label := range projectDateLabels {
		rows = append(rows,
			label+":",
			inputStyle(5+i).Width(14).Render(v.inDates[i].View()),
		)
	}
	rows = v.appendFieldError(rows, "DateAcquisition")
	rows = v.appendFieldError(rows, "DateDebut")

	rows = append(rows,
		"Beneficiary:",
		selector(9, benLabel),
	)
	rows = v.appendFieldError(rows, "BeneficiaireID")
	rows = append(rows,
		"Expert:",
		selector(10, expLabel),
	)
	rows = v.appendFieldError(rows, "ExpertID")

	btnStyle := s.Button
	if v.focusIdx == projectFormSlots-1 {
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
	rows = append(rows, "",
		s.TitleMuted.Render("Tab: next • ←/→: change selection • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) appendFieldError(rows []string, field string) []string {
	if msg, ok := v.fieldErrors[field]; ok {
		rows = append(rows, v.styles.FieldError.Render(msg))
	}
	return rows
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and its operations will be removed.", v.deleteTarget.Nom)),
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

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s search • %s type • %s status • %s sort • %s date • %s clear • %s refresh",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("t"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("."),
			v.styles.HelpKey.Render("x"),
			v.styles.HelpKey.Render("r"),
		),
	)
}

func indexOfStatus(status models.ProjectStatus) int {
	for i, s := range models.ProjectStatuses {
		if s == status {
			return i
		}
	}
	return 0
}

func indexOfType(t models.ProjectType) int {
	for i, pt := range models.ProjectTypes {
		if pt == t {
			return i
		}
	}
	return 0
}

func indexOfBeneficiary(items []models.Beneficiary, id string) int {
	for i, b := range items {
		if b.ID == id {
			return i
		}
	}
	return 0
}

func indexOfExpert(items []models.Expert, id string) int {
	for i, e := range items {
		if e.ID == id {
			return i
		}
	}
	return 0
}
