package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projadm/internal/api"
	"projadm/internal/models"
	"projadm/internal/query"
	"projadm/internal/ui/keys"
	"projadm/internal/ui/styles"
)

// BackToProjects signals a return to the project list
type BackToProjects struct{}

type detailTab int

const (
	tabOverview detailTab = iota
	tabFinance
	tabTechnique
	tabTasks
	tabFiles
)

var detailTabs = []string{"Overview", "Finance", "Technique", "Tasks", "Files"}

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogFinance
	dialogTechnique
	dialogTask
	dialogFile
)

// ProjectDetailView shows one project with its operations, tasks, and
// files. Finance and technique operations live on the server; tasks and
// files come from the local mock store.
type ProjectDetailView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	project       models.Project
	beneficiaries []models.Beneficiary
	experts       []models.Expert
	finances      []models.FinanceOperation
	techniques    []models.TechniqueOperation
	tasks         []models.Task
	files         []models.File
	loaded        bool
	fetching      bool

	tab     detailTab
	cursors [5]int
	notice  notice

	dialog      dialogKind
	editingID   string
	inputs      [4]textinput.Model
	selA        int // finance: unused / technique: expert / task: status / file: type
	selB        int // task: priority
	selC        int // task: assignee
	focusIdx    int
	fieldErrors map[string]string
	saving      bool

	confirmingDelete bool
	deleteLabel      string
	deleteID         string
}

// NewProjectDetailView creates the detail page for one project
func NewProjectDetailView(deps *Deps, project models.Project) *ProjectDetailView {
	v := &ProjectDetailView{
		deps:    deps,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		project: project,
	}
	for i := range v.inputs {
		v.inputs[i] = textinput.New()
		v.inputs[i].CharLimit = 200
	}
	return v
}

func (v *ProjectDetailView) Init() tea.Cmd {
	v.tasks = v.deps.Mock.Tasks(v.project.ID)
	v.files = v.deps.Mock.Files(v.project.ID)
	return v.load
}

type detailLoadedMsg struct {
	finances      []models.FinanceOperation
	techniques    []models.TechniqueOperation
	beneficiaries []models.Beneficiary
	experts       []models.Expert
	err           error
}

type detailMutationMsg struct {
	notice string
	err    error
}

func (v *ProjectDetailView) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	projectID := v.project.ID
	client := v.deps.Client
	cache := v.deps.Cache

	finances, err := query.Collection(ctx, cache, query.FinancesKey(projectID), func(ctx context.Context) ([]models.FinanceOperation, error) {
		return client.ListFinances(ctx, projectID)
	})
	if err != nil {
		return detailLoadedMsg{finances: finances, err: err}
	}

	techniques, err := query.Collection(ctx, cache, query.TechniquesKey(projectID), func(ctx context.Context) ([]models.TechniqueOperation, error) {
		return client.ListTechniques(ctx, projectID)
	})
	if err != nil {
		return detailLoadedMsg{finances: finances, techniques: techniques, err: err}
	}

	beneficiaries, err := query.Collection(ctx, cache, query.KeyBeneficiaries, client.ListBeneficiaries)
	if err != nil {
		return detailLoadedMsg{finances: finances, techniques: techniques, err: err}
	}
	experts, err := query.Collection(ctx, cache, query.KeyExperts, client.ListExperts)
	return detailLoadedMsg{
		finances:      finances,
		techniques:    techniques,
		beneficiaries: beneficiaries,
		experts:       experts,
		err:           err,
	}
}

func (v *ProjectDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case detailLoadedMsg:
		v.fetching = false
		v.loaded = true
		if msg.finances != nil {
			v.finances = msg.finances
		}
		if msg.techniques != nil {
			v.techniques = msg.techniques
		}
		if msg.beneficiaries != nil {
			v.beneficiaries = msg.beneficiaries
		}
		if msg.experts != nil {
			v.experts = msg.experts
		}
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
		}
		v.clampCursor()
		return v, nil

	case detailMutationMsg:
		v.saving = false
		if msg.err != nil {
			v.notice = errorNotice(api.UserMessage(msg.err))
			return v, nil
		}
		v.dialog = dialogNone
		v.confirmingDelete = false
		v.notice = successNotice(msg.notice)
		v.fetching = true
		return v, v.load

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.dialog != dialogNone {
			return v.updateDialog(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *ProjectDetailView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.NextTab), key.Matches(msg, v.keys.Tab):
		v.tab = detailTab((int(v.tab) + 1) % len(detailTabs))
		return v, nil

	case msg.String() == "shift+tab":
		v.tab = detailTab((int(v.tab) + len(detailTabs) - 1) % len(detailTabs))
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursors[v.tab] > 0 {
			v.cursors[v.tab]--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursors[v.tab] < v.tabLen()-1 {
			v.cursors[v.tab]++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startCreate()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		v.startEdit()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		v.startDelete()
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		v.deps.Cache.Invalidate(query.FinancesKey(v.project.ID))
		v.deps.Cache.Invalidate(query.TechniquesKey(v.project.ID))
		v.fetching = true
		return v, v.load
	}

	return v, nil
}

func (v *ProjectDetailView) tabLen() int {
	switch v.tab {
	case tabFinance:
		return len(v.finances)
	case tabTechnique:
		return len(v.techniques)
	case tabTasks:
		return len(v.tasks)
	case tabFiles:
		return len(v.files)
	}
	return 0
}

func (v *ProjectDetailView) clampCursor() {
	for t := range v.cursors {
		limit := 0
		switch detailTab(t) {
		case tabFinance:
			limit = len(v.finances)
		case tabTechnique:
			limit = len(v.techniques)
		case tabTasks:
			limit = len(v.tasks)
		case tabFiles:
			limit = len(v.files)
		}
		if v.cursors[t] >= limit {
			v.cursors[t] = max(0, limit-1)
		}
	}
}

func (v *ProjectDetailView) resetInputs(placeholders ...string) {
	for i := range v.inputs {
		v.inputs[i] = textinput.New()
		v.inputs[i].CharLimit = 200
		if i < len(placeholders) {
			v.inputs[i].Placeholder = placeholders[i]
		}
	}
	v.focusIdx = 0
	v.fieldErrors = nil
	v.inputs[0].Focus()
}

func (v *ProjectDetailView) startCreate() {
	v.editingID = ""
	switch v.tab {
	case tabFinance:
		v.dialog = dialogFinance
		v.resetInputs("Label", "Expense", "Income", "Observation")
	case tabTechnique:
		v.dialog = dialogTechnique
		v.resetInputs("Label", "YYYY-MM-DD", "YYYY-MM-DD")
		v.selA = 0
	case tabTasks:
		v.dialog = dialogTask
		v.resetInputs("Title", "Description", "YYYY-MM-DD")
		v.selA, v.selB, v.selC = 0, 1, 0
	case tabFiles:
		v.dialog = dialogFile
		v.resetInputs("File name")
		v.selA = 0
	}
}

func (v *ProjectDetailView) startEdit() {
	cursor := v.cursors[v.tab]
	switch v.tab {
	case tabFinance:
		if cursor >= len(v.finances) {
			return
		}
		f := v.finances[cursor]
		v.dialog = dialogFinance
		v.editingID = f.ID
		v.resetInputs("Label", "Expense", "Income", "Observation")
		v.inputs[0].SetValue(f.LibelleFinan)
		v.inputs[1].SetValue(money(f.Depense))
		v.inputs[2].SetValue(money(f.MontantEntree))
		v.inputs[3].SetValue(f.Observation)

	case tabTechnique:
		if cursor >= len(v.techniques) {
			return
		}
		t := v.techniques[cursor]
		v.dialog = dialogTechnique
		v.editingID = t.ID
		v.resetInputs("Label", "YYYY-MM-DD", "YYYY-MM-DD")
		v.inputs[0].SetValue(t.Libelle)
		v.inputs[1].SetValue(t.DateDebut)
		v.inputs[2].SetValue(t.DateFin)
		v.selA = indexOfExpert(v.experts, t.ExpertID)

	case tabTasks:
		if cursor >= len(v.tasks) {
			return
		}
		t := v.tasks[cursor]
		v.dialog = dialogTask
		v.editingID = t.ID
		v.resetInputs("Title", "Description", "YYYY-MM-DD")
		v.inputs[0].SetValue(t.Title)
		v.inputs[1].SetValue(t.Description)
		if t.DueDate != nil {
			v.inputs[2].SetValue(t.DueDate.Format("2006-01-02"))
		}
		v.selA = indexOfTaskStatus(t.Status)
		v.selB = indexOfTaskPriority(t.Priority)
		v.selC = indexOfUser(v.deps.Mock.Users(), t.Assignee.ID)
	}
}

func (v *ProjectDetailView) startDelete() {
	cursor := v.cursors[v.tab]
	switch v.tab {
	case tabFinance:
		if cursor < len(v.finances) {
			v.confirmingDelete = true
			v.deleteLabel = v.finances[cursor].LibelleFinan
			v.deleteID = v.finances[cursor].ID
		}
	case tabTechnique:
		if cursor < len(v.techniques) {
			v.confirmingDelete = true
			v.deleteLabel = v.techniques[cursor].Libelle
			v.deleteID = v.techniques[cursor].ID
		}
	case tabTasks:
		if cursor < len(v.tasks) {
			v.confirmingDelete = true
			v.deleteLabel = v.tasks[cursor].Title
			v.deleteID = v.tasks[cursor].ID
		}
	case tabFiles:
		if cursor < len(v.files) {
			v.confirmingDelete = true
			v.deleteLabel = v.files[cursor].Name
			v.deleteID = v.files[cursor].ID
		}
	}
}

func (v *ProjectDetailView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return v, v.deleteCurrent()
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *ProjectDetailView) deleteCurrent() tea.Cmd {
	id := v.deleteID
	projectID := v.project.ID
	mut := v.deps.Mutator
	client := v.deps.Client

	switch v.tab {
	case tabFinance:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			err := mut.Do(ctx, "delete finance operation", func(ctx context.Context) error {
				return client.DeleteFinance(ctx, id)
			}, query.FinancesKey(projectID))
			return detailMutationMsg{notice: "finance operation deleted", err: err}
		}

	case tabTechnique:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			err := mut.Do(ctx, "delete technique operation", func(ctx context.Context) error {
				return client.DeleteTechnique(ctx, id)
			}, query.TechniquesKey(projectID))
			return detailMutationMsg{notice: "technique operation deleted", err: err}
		}

	case tabTasks:
		v.deps.Mock.DeleteTask(projectID, id)
		v.tasks = v.deps.Mock.Tasks(projectID)
		v.confirmingDelete = false
		v.notice = successNotice("task deleted")
		v.clampCursor()
		return nil

	case tabFiles:
		v.deps.Mock.DeleteFile(projectID, id)
		v.files = v.deps.Mock.Files(projectID)
		v.confirmingDelete = false
		v.notice = successNotice("file deleted")
		v.clampCursor()
		return nil
	}
	return nil
}

func (v *ProjectDetailView) dialogSlots() int {
	switch v.dialog {
	case dialogFinance:
		return 5 // 4 inputs + save
	case dialogTechnique:
		return 5 // 3 inputs + expert + save
	case dialogTask:
		return 7 // 3 inputs + status + priority + assignee + save
	case dialogFile:
		return 3 // name + type + save
	}
	return 0
}

func (v *ProjectDetailView) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slots := v.dialogSlots()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.dialog = dialogNone
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveDialog()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % slots
		v.updateDialogFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + slots - 1) % slots
		v.updateDialogFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == slots-1 {
			return v, v.saveDialog()
		}
		v.focusIdx++
		v.updateDialogFocus()
		return v, nil

	case msg.String() == " ", msg.String() == "right":
		if v.cycleSelector(1) {
			return v, nil
		}

	case msg.String() == "left":
		if v.cycleSelector(-1) {
			return v, nil
		}
	}

	if idx, ok := v.focusedInput(); ok {
		var cmd tea.Cmd
		v.inputs[idx], cmd = v.inputs[idx].Update(msg)
		return v, cmd
	}
	return v, nil
}

// focusedInput maps the current slot to a text input index
func (v *ProjectDetailView) focusedInput() (int, bool) {
	switch v.dialog {
	case dialogFinance:
		if v.focusIdx < 4 {
			return v.focusIdx, true
		}
	case dialogTechnique:
		if v.focusIdx < 3 {
			return v.focusIdx, true
		}
	case dialogTask:
		if v.focusIdx < 3 {
			return v.focusIdx, true
		}
	case dialogFile:
		if v.focusIdx == 0 {
			return 0, true
		}
	}
	return 0, false
}

// cycleSelector advances the selector under the cursor, reporting whether
// the key was consumed
func (v *ProjectDetailView) cycleSelector(dir int) bool {
	users := v.deps.Mock.Users()

	switch v.dialog {
	case dialogTechnique:
		if v.focusIdx == 3 && len(v.experts) > 0 {
			v.selA = (v.selA + dir + len(v.experts)) % len(v.experts)
			return true
		}
	case dialogTask:
		switch v.focusIdx {
		case 3:
			v.selA = (v.selA + dir + len(taskStatusOrder)) % len(taskStatusOrder)
			return true
		case 4:
			v.selB = (v.selB + dir + len(taskPriorityOrder)) % len(taskPriorityOrder)
			return true
		case 5:
			if len(users) > 0 {
				v.selC = (v.selC + dir + len(users)) % len(users)
			}
			return true
		}
	case dialogFile:
		if v.focusIdx == 1 {
			v.selA = (v.selA + dir + len(fileTypeOrder)) % len(fileTypeOrder)
			return true
		}
	}
	return false
}

func (v *ProjectDetailView) updateDialogFocus() {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	if idx, ok := v.focusedInput(); ok {
		v.inputs[idx].Focus()
	}
}

var (
	taskStatusOrder   = []models.TaskStatus{models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone}
	taskPriorityOrder = []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	fileTypeOrder     = []string{"application/pdf", "image/png", "image/jpeg", "text/plain"}
)

func (v *ProjectDetailView) saveDialog() tea.Cmd {
	if v.saving {
		return nil
	}
	switch v.dialog {
	case dialogFinance:
		return v.saveFinance()
	case dialogTechnique:
		return v.saveTechnique()
	case dialogTask:
		return v.saveTask()
	case dialogFile:
		return v.saveFile()
	}
	return nil
}

func (v *ProjectDetailView) saveFinance() tea.Cmd {
	depense, err1 := parseAmount(v.inputs[1].Value())
	montant, err2 := parseAmount(v.inputs[2].Value())
	if err1 != nil || err2 != nil {
		errs := make(map[string]string)
		if err1 != nil {
			errs["Depense"] = "must be a number"
		}
		if err2 != nil {
			errs["MontantEntree"] = "must be a number"
		}
		v.fieldErrors = errs
		return nil
	}

	payload := models.FinancePayload{
		LibelleFinan:  strings.TrimSpace(v.inputs[0].Value()),
		Depense:       depense,
		MontantEntree: montant,
		Observation:   strings.TrimSpace(v.inputs[3].Value()),
		ProjectID:     v.project.ID,
	}
	if errs := checkPayload(v.deps.Validate, payload); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil
	v.saving = true

	id := v.editingID
	projectID := v.project.ID
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if id == "" {
			err := mut.Do(ctx, "create finance operation", func(ctx context.Context) error {
				_, err := client.CreateFinance(ctx, payload)
				return err
			}, query.FinancesKey(projectID))
			return detailMutationMsg{notice: "finance operation created", err: err}
		}

		err := mut.Do(ctx, "update finance operation", func(ctx context.Context) error {
			_, err := client.UpdateFinance(ctx, id, payload)
			return err
		}, query.FinancesKey(projectID))
		return detailMutationMsg{notice: "finance operation updated", err: err}
	}
}

func (v *ProjectDetailView) saveTechnique() tea.Cmd {
	payload := models.TechniquePayload{
		Libelle:   strings.TrimSpace(v.inputs[0].Value()),
		DateDebut: strings.TrimSpace(v.inputs[1].Value()),
		DateFin:   strings.TrimSpace(v.inputs[2].Value()),
		ProjectID: v.project.ID,
	}
	if v.selA < len(v.experts) {
		payload.ExpertID = v.experts[v.selA].ID
	}
	if errs := checkPayload(v.deps.Validate, payload); errs != nil {
		v.fieldErrors = errs
		return nil
	}
	v.fieldErrors = nil
	v.saving = true

	id := v.editingID
	projectID := v.project.ID
	mut := v.deps.Mutator
	client := v.deps.Client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if id == "" {
			err := mut.Do(ctx, "create technique operation", func(ctx context.Context) error {
				_, err := client.CreateTechnique(ctx, payload)
				return err
			}, query.TechniquesKey(projectID))
			return detailMutationMsg{notice: "technique operation created", err: err}
		}

		err := mut.Do(ctx, "update technique operation", func(ctx context.Context) error {
			_, err := client.UpdateTechnique(ctx, id, payload)
			return err
		}, query.TechniquesKey(projectID))
		return detailMutationMsg{notice: "technique operation updated", err: err}
	}
}

func (v *ProjectDetailView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.inputs[0].Value())
	if title == "" {
		v.fieldErrors = map[string]string{"Title": "failed on 'required' validation"}
		return nil
	}

	var due *time.Time
	if raw := strings.TrimSpace(v.inputs[2].Value()); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			v.fieldErrors = map[string]string{"DueDate": "must be YYYY-MM-DD"}
			return nil
		}
		due = &parsed
	}
	v.fieldErrors = nil

	users := v.deps.Mock.Users()
	task := models.Task{
		ID:          v.editingID,
		Title:       title,
		Description: strings.TrimSpace(v.inputs[1].Value()),
		Status:      taskStatusOrder[v.selA],
		Priority:    taskPriorityOrder[v.selB],
		DueDate:     due,
	}
	if v.selC < len(users) {
		task.Assignee = users[v.selC]
	}

	if v.editingID == "" {
		v.deps.Mock.CreateTask(v.project.ID, task)
		v.notice = successNotice("task created")
	} else {
		v.deps.Mock.UpdateTask(v.project.ID, task)
		v.notice = successNotice("task updated")
	}
	v.tasks = v.deps.Mock.Tasks(v.project.ID)
	v.dialog = dialogNone
	return nil
}

func (v *ProjectDetailView) saveFile() tea.Cmd {
	name := strings.TrimSpace(v.inputs[0].Value())
	if name == "" {
		v.fieldErrors = map[string]string{"Name": "failed on 'required' validation"}
		return nil
	}
	v.fieldErrors = nil

	v.deps.Mock.AddFile(v.project.ID, models.File{
		Name: name,
		Type: fileTypeOrder[v.selA],
		Size: 0,
		URL:  "#",
	})
	v.files = v.deps.Mock.Files(v.project.ID)
	v.dialog = dialogNone
	v.notice = successNotice("file added")
	return nil
}

func (v *ProjectDetailView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.dialog != dialogNone {
		return v.renderDialog()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	badge := s.Badge.Foreground(styles.StatusColor(v.project.Status)).Render(string(v.project.Status))
	title := v.project.Nom
	if v.fetching {
		title += " (refreshing…)"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, s.Title.Render(title), " ", badge))
	b.WriteString("\n\n")

	var tabsRow []string
	for i, label := range detailTabs {
		if detailTab(i) == v.tab {
			tabsRow = append(tabsRow, s.NavItemActive.Render(label))
		} else {
			tabsRow = append(tabsRow, s.NavItem.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, tabsRow...))
	b.WriteString("\n\n")

	if !v.loaded && v.tab != tabOverview {
		b.WriteString(s.TitleMuted.Render("Loading..."))
	} else {
		switch v.tab {
		case tabOverview:
			b.WriteString(v.renderOverview())
		case tabFinance:
			b.WriteString(v.renderFinance(contentWidth))
		case tabTechnique:
			b.WriteString(v.renderTechnique(contentWidth))
		case tabTasks:
			b.WriteString(v.renderTasks(contentWidth))
		case tabFiles:
			b.WriteString(v.renderFiles(contentWidth))
		}
	}

	b.WriteString("\n")
	if v.notice.level != noticeNone {
		b.WriteString(v.notice.render(s))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s tab • %s new • %s edit • %s del • %s refresh • %s back",
			s.HelpKey.Render("]"), s.HelpKey.Render("n"), s.HelpKey.Render("e"),
			s.HelpKey.Render("d"), s.HelpKey.Render("r"), s.HelpKey.Render("esc"))))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ProjectDetailView) renderOverview() string {
	s := v.styles
	p := v.project

	benName := p.BeneficiaireID
	for _, b := range v.beneficiaries {
		if b.ID == p.BeneficiaireID {
			benName = b.Nom
			break
		}
	}
	expName := p.ExpertID
	for _, e := range v.experts {
		if e.ID == p.ExpertID {
			expName = e.Nom
			break
		}
	}

	var totalDepense, totalEntree float64
	for _, f := range v.finances {
		totalDepense += f.Depense
		totalEntree += f.MontantEntree
	}

	label := s.TitleMuted.Render
	rows := []string{
		label("Type:        ") + string(p.TypeProjet),
		label("Budget:      ") + money(p.Budget),
		label("Beneficiary: ") + benName,
		label("Expert:      ") + expName,
		label("Acquisition: ") + humanDateStr(p.DateAcquisition),
		label("Start:       ") + humanDateStr(p.DateDebut),
		label("End:         ") + humanDateStr(p.DateFin),
		label("Closed:      ") + humanDateStr(p.DateCloture),
		"",
		label("Expenses:    ") + money(totalDepense),
		label("Income:      ") + money(totalEntree),
		label("Net:         ") + gain(totalEntree-totalDepense),
		"",
		p.Description,
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *ProjectDetailView) renderFinance(contentWidth int) string {
	s := v.styles
	if len(v.finances) == 0 {
		return s.TitleMuted.Render("No finance operations. Press 'n' to record one.")
	}

	width := max(contentWidth-4, 40)
	var b strings.Builder
	b.WriteString(s.TableHeader.Width(width).Render(
		fmt.Sprintf("%-28s %12s %12s %12s", "Label", "Expense", "Income", "Net")))
	b.WriteString("\n")
	for i, f := range v.finances {
		line := fmt.Sprintf("%-28s %12s %12s %12s",
			truncate(f.LibelleFinan, 28), money(f.Depense), money(f.MontantEntree), gain(f.Gain()))
		if i == v.cursors[tabFinance] {
			b.WriteString(s.ListSelected.Width(width).Render(line))
		} else {
			b.WriteString(s.ListItem.Width(width).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *ProjectDetailView) renderTechnique(contentWidth int) string {
	s := v.styles
	if len(v.techniques) == 0 {
		return s.TitleMuted.Render("No technique operations. Press 'n' to record one.")
	}

	width := max(contentWidth-4, 40)
	var b strings.Builder
	b.WriteString(s.TableHeader.Width(width).Render(
		fmt.Sprintf("%-28s %-18s %-18s %s", "Label", "Start", "End", "Expert")))
	b.WriteString("\n")
	for i, t := range v.techniques {
		expName := t.ExpertID
		for _, e := range v.experts {
			if e.ID == t.ExpertID {
				expName = e.Nom
				break
			}
		}
		line := fmt.Sprintf("%-28s %-18s %-18s %s",
			truncate(t.Libelle, 28), humanDateStr(t.DateDebut), humanDateStr(t.DateFin), truncate(expName, 20))
		if i == v.cursors[tabTechnique] {
			b.WriteString(s.ListSelected.Width(width).Render(line))
		} else {
			b.WriteString(s.ListItem.Width(width).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *ProjectDetailView) renderTasks(contentWidth int) string {
	s := v.styles
	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to add one.")
	}

	width := max(contentWidth-4, 40)
	var b strings.Builder
	for i, t := range v.tasks {
		due := "—"
		if t.DueDate != nil {
			due = humanDate(*t.DueDate)
		}
		line := fmt.Sprintf("%-26s %-12s %-8s %-20s %s",
			truncate(t.Title, 26), t.Status, t.Priority, truncate(t.Assignee.Name, 20), due)
		if i == v.cursors[tabTasks] {
			b.WriteString(s.ListSelected.Width(width).Render(line))
		} else {
			b.WriteString(s.ListItem.Width(width).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *ProjectDetailView) renderFiles(contentWidth int) string {
	s := v.styles
	if len(v.files) == 0 {
		return s.TitleMuted.Render("No files. Press 'n' to add one.")
	}

	width := max(contentWidth-4, 40)
	var b strings.Builder
	for i, f := range v.files {
		line := fmt.Sprintf("%-28s %-18s %8s %s",
			truncate(f.Name, 28), f.Type, fileSize(f.Size), truncate(f.UploadedBy.Name, 20))
		if i == v.cursors[tabFiles] {
			b.WriteString(s.ListSelected.Width(width).Render(line))
		} else {
			b.WriteString(s.ListItem.Width(width).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *ProjectDetailView) renderDialog() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	slots := v.dialogSlots()

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
	fieldErr := func(rows []string, field string) []string {
		if msg, ok := v.fieldErrors[field]; ok {
			rows = append(rows, s.FieldError.Render(msg))
		}
		return rows
	}

	inputWidth := clamp(contentWidth-10, 24, 44)
	var rows []string

	switch v.dialog {
	case dialogFinance:
		formTitle := "New Finance Operation"
		if v.editingID != "" {
			formTitle = "Edit Finance Operation"
		}
		rows = append(rows, s.Title.Render(formTitle), "",
			"Label:", inputStyle(0).Width(inputWidth).Render(v.inputs[0].View()))
		rows = fieldErr(rows, "LibelleFinan")
		rows = append(rows,
			"Expense:", inputStyle(1).Width(16).Render(v.inputs[1].View()))
		rows = fieldErr(rows, "Depense")
		rows = append(rows,
			"Income:", inputStyle(2).Width(16).Render(v.inputs[2].View()))
		rows = fieldErr(rows, "MontantEntree")
		rows = append(rows,
			"Observation:", inputStyle(3).Width(inputWidth).Render(v.inputs[3].View()))

	case dialogTechnique:
		formTitle := "New Technique Operation"
		if v.editingID != "" {
			formTitle = "Edit Technique Operation"
		}
		expLabel := "none available"
		if v.selA < len(v.experts) {
			expLabel = v.experts[v.selA].Nom
		}
		rows = append(rows, s.Title.Render(formTitle), "",
			"Label:", inputStyle(0).Width(inputWidth).Render(v.inputs[0].View()))
		rows = fieldErr(rows, "Libelle")
		rows = append(rows,
			"Start:", inputStyle(1).Width(14).Render(v.inputs[1].View()))
		rows = fieldErr(rows, "DateDebut")
		rows = append(rows,
			"End:", inputStyle(2).Width(14).Render(v.inputs[2].View()),
			"Expert:", selector(3, expLabel))

	case dialogTask:
		formTitle := "New Task"
		if v.editingID != "" {
			formTitle = "Edit Task"
		}
		users := v.deps.Mock.Users()
		assignee := "unassigned"
		if v.selC < len(users) {
			assignee = users[v.selC].Name
		}
		rows = append(rows, s.Title.Render(formTitle), "",
			"Title:", inputStyle(0).Width(inputWidth).Render(v.inputs[0].View()))
		rows = fieldErr(rows, "Title")
		rows = append(rows,
			"Description:", inputStyle(1).Width(inputWidth).Render(v.inputs[1].View()),
			"Due date:", inputStyle(2).Width(14).Render(v.inputs[2].View()))
		rows = fieldErr(rows, "DueDate")
		rows = append(rows,
			"Status:", selector(3, string(taskStatusOrder[v.selA])),
			"Priority:", selector(4, string(taskPriorityOrder[v.selB])),
			"Assignee:", selector(5, assignee))

	case dialogFile:
		rows = append(rows, s.Title.Render("Add File"), "",
			"Name:", inputStyle(0).Width(inputWidth).Render(v.inputs[0].View()))
		rows = fieldErr(rows, "Name")
		rows = append(rows,
			"Type:", selector(1, fileTypeOrder[v.selA]))
	}

	btnStyle := s.Button
	if v.focusIdx == slots-1 {
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

func (v *ProjectDetailView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be removed.", v.deleteLabel)),
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

func indexOfTaskStatus(status models.TaskStatus) int {
	for i, s := range taskStatusOrder {
		if s == status {
			return i
		}
	}
	return 0
}

func indexOfTaskPriority(priority models.TaskPriority) int {
	for i, p := range taskPriorityOrder {
		if p == priority {
			return i
		}
	}
	return 0
}

func indexOfUser(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return 0
}

func fileSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
