package views

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/store"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/msgs"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

const breakdownFailed = "Failed to generate breakdown. Please try again."

// Breakdowner creates a task from a project description
type Breakdowner interface {
	BreakDown(ctx context.Context, title, description string) (models.Task, error)
}

type taskItem struct {
	task models.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.Description }
func (i taskItem) FilterValue() string { return i.task.Title }

type taskDelegate struct {
	styles *styles.Styles
	width  int
}

func (d taskDelegate) Height() int                               { return 2 }
func (d taskDelegate) Spacing() int                              { return 1 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		metaStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		metaStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	dot := lipgloss.NewStyle().Foreground(styles.PriorityColor(it.task.Priority)).Render("●")
	title := titleStyle.Render(dot + " " + it.task.Title)
	meta := metaStyle.Render(taskMeta(it.task))

	fmt.Fprintf(w, "%s\n%s", title, meta)
}

// taskMeta is the one-line summary under a task title
func taskMeta(t models.Task) string {
	parts := []string{string(t.Priority), string(t.Status)}
	if n := len(t.SubTasks); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d steps", t.CompletedSubTasks(), n))
		if left := t.RemainingMinutes(); left > 0 {
			parts = append(parts, fmt.Sprintf("%dm left", left))
		}
	}
	for _, tag := range t.Tags {
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " · ")
}

type breakdownDoneMsg struct {
	seq  int
	task models.Task
	err  error
}

// ProjectsView lists tasks, shows their subtasks and runs the breakdown form
type ProjectsView struct {
	store    *store.Store
	planner  Breakdowner
	list     list.Model
	delegate *taskDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	tasks    []models.Task

	// Task detail
	viewingTask bool
	viewingID   string
	subCursor   int

	// Breakdown form
	creating bool
	newTitle textinput.Model
	newDesc  textarea.Model
	focusIdx int // 0=title, 1=desc, 2=confirm
	req      request
	spinner  spinner.Model
	alert    string

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
}

func NewProjectsView(s *store.Store, p Breakdowner) *ProjectsView {
	st := styles.NewStyles()

	newTitle := textinput.New()
	newTitle.Placeholder = "e.g. Write the Q3 report"
	newTitle.CharLimit = 120

	newDesc := textarea.New()
	newDesc.Placeholder = "Context, constraints, what done looks like (optional)"
	newDesc.CharLimit = 1000
	newDesc.SetHeight(4)
	newDesc.ShowLineNumbers = false

	delegate := &taskDelegate{styles: st, width: styles.MaxWidth}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects & Tasks"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.Title
	l.SetShowHelp(false)

	return &ProjectsView{
		store:    s,
		planner:  p,
		list:     l,
		delegate: delegate,
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		newTitle: newTitle,
		newDesc:  newDesc,
		spinner:  newSpinner(),
	}
}

func (v *ProjectsView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *ProjectsView) loadTasks() tea.Msg {
	return msgs.TasksChangedMsg{Tasks: v.store.Tasks()}
}

// Capturing reports whether keystrokes are going into a text field
func (v *ProjectsView) Capturing() bool {
	return v.creating || v.list.FilterState() == list.Filtering
}

func (v *ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-4)
		inputWidth := clamp(contentWidth-10, 20, 60)
		v.newTitle.Width = inputWidth
		v.newDesc.SetWidth(inputWidth)
		return v, nil

	case msgs.TasksChangedMsg:
		v.setTasks(msg.Tasks)
		return v, nil

	case msgs.StartBreakdownMsg:
		return v, v.startCreate()

	case breakdownDoneMsg:
		if !v.req.finish(msg.seq) {
			return v, nil
		}
		if msg.err != nil {
			log.Printf("breakdown: %v", msg.err)
			if !isCancelled(msg.err) {
				v.alert = breakdownFailed
			}
			return v, nil
		}
		v.creating = false
		v.viewingTask = false
		v.list.ResetFilter()
		v.list.Select(0)
		return v, nil

	case spinner.TickMsg:
		if !v.req.loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.alert != "" {
			v.alert = ""
			return v, nil
		}

		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.New):
			return v, v.startCreate()
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(taskItem); ok {
				v.viewingTask = true
				v.viewingID = item.task.ID
				v.subCursor = 0
				return v, nil
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(taskItem); ok {
				v.confirmDelete(item.task)
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectsView) setTasks(tasks []models.Task) {
	v.tasks = tasks
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t}
	}
	v.list.SetItems(items)

	if v.viewingTask {
		t, ok := v.viewedTask()
		if !ok {
			v.viewingTask = false
			return
		}
		v.subCursor = clamp(v.subCursor, 0, max(len(t.SubTasks)-1, 0))
	}
}

func (v *ProjectsView) viewedTask() (models.Task, bool) {
	for _, t := range v.tasks {
		if t.ID == v.viewingID {
			return t, true
		}
	}
	return models.Task{}, false
}

func (v *ProjectsView) confirmDelete(t models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = t.ID
	v.deleteTargetName = t.Title
}

func (v *ProjectsView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := v.store.Delete(v.deleteTargetID); err != nil {
			log.Printf("delete task %s: %v", v.deleteTargetID, err)
		}
		v.confirmingDelete = false
		v.viewingTask = false
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectsView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := v.viewedTask()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.subCursor > 0 {
			v.subCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.subCursor < len(t.SubTasks)-1 {
			v.subCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if v.subCursor < len(t.SubTasks) {
			sub := t.SubTasks[v.subCursor]
			if _, err := v.store.ToggleSubTask(t.ID, sub.ID); err != nil {
				log.Printf("toggle subtask %s: %v", sub.ID, err)
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		v.confirmDelete(t)
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *ProjectsView) startCreate() tea.Cmd {
	if v.creating {
		return nil
	}
	v.creating = true
	v.viewingTask = false
	v.focusIdx = 0
	v.newTitle.Reset()
	v.newDesc.Reset()
	v.updateFocus()
	return textinput.Blink
}

func (v *ProjectsView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.req.loading() {
		// only cancel is accepted while waiting
		if key.Matches(msg, v.keys.Back) {
			v.req.stop()
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.newTitle.Blur()
		v.newDesc.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Submit):
		return v, v.submit()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case 0:
			v.focusIdx++
			v.updateFocus()
			return v, nil
		case 2:
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectsView) updateFocus() {
	v.newTitle.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newTitle.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *ProjectsView) submit() tea.Cmd {
	if v.req.loading() {
		return nil
	}
	title := strings.TrimSpace(v.newTitle.Value())
	if title == "" {
		v.focusIdx = 0
		v.updateFocus()
		return nil
	}
	desc := strings.TrimSpace(v.newDesc.Value())

	ctx, seq := v.req.begin()
	p := v.planner
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		task, err := p.BreakDown(ctx, title, desc)
		return breakdownDoneMsg{seq: seq, task: task, err: err}
	})
}

// View renders the view
func (v *ProjectsView) View() string {
	if v.alert != "" {
		return renderAlert(v.styles, v.alert, styles.ContentWidth(v.width), v.height)
	}

	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	return v.list.View() + "\n" + v.renderHelp()
}

func (v *ProjectsView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Tasks Yet"),
		"",
		s.TitleMuted.Render("Press 'n' to break down a project"),
		s.TitleMuted.Render("or empty your head on the Brain Dump screen"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	return lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (v *ProjectsView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 64)

	footer := s.TitleMuted.Render("Tab: next • Ctrl+S: break it down • Esc: cancel")
	if v.req.loading() {
		footer = v.spinner.View() + " " + s.TitleMuted.Render("Breaking it down... Esc: cancel")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Break Down a Project"),
		"",
		"What's the big task?",
		titleStyle.Width(inputWidth).Render(v.newTitle.View()),
		"",
		"Details:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Break It Down "),
		"",
		footer,
	)

	return lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
}

func (v *ProjectsView) renderTaskView() string {
	s := v.styles
	t, ok := v.viewedTask()
	if !ok {
		return s.TitleMuted.Render("Task no longer exists")
	}
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	status := lipgloss.NewStyle().Foreground(styles.StatusColor(t.Status)).Render(string(t.Status))
	priority := s.TaskPriority.Foreground(styles.PriorityColor(t.Priority)).Render(string(t.Priority))

	var tags string
	for _, tag := range t.Tags {
		tags += s.Tag.Render("#" + tag)
	}

	lines := []string{
		s.Title.Render(t.Title),
		priority + s.TitleMuted.Render(" · ") + status + "  " + tags,
	}
	if t.Description != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(t.Description))
	}
	lines = append(lines, "")

	if len(t.SubTasks) == 0 {
		lines = append(lines, s.TitleMuted.Render("No steps for this task."))
	}
	for i, sub := range t.SubTasks {
		box, title := s.Check.Render("[ ]"), sub.Title
		if sub.Completed {
			box, title = s.CheckDone.Render("[x]"), s.CheckDone.Render(sub.Title)
		}
		row := fmt.Sprintf("%s %s %s", box, title, s.TitleMuted.Render(fmt.Sprintf("%dm", sub.EstimatedMinutes)))
		if i == v.subCursor {
			row = s.ListSelected.Width(width).Render(row)
		} else {
			row = s.ListItem.Width(width).Render(row)
		}
		lines = append(lines, row)
	}

	if n := len(t.SubTasks); n > 0 {
		lines = append(lines, "", s.TitleMuted.Render(fmt.Sprintf("%d of %d done · %dm remaining", t.CompletedSubTasks(), n, t.RemainingMinutes())))
	}

	lines = append(lines, helpLine(s, "↑/↓", "move", "space", "toggle", "d", "delete", "esc", "back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ProjectsView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return helpLine(v.styles, "↵", "open", "n", "new", "d", "del", "/", "filter", "?", "help")
}

func (v *ProjectsView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open task",
		s.HelpKey.Render("n") + "      break down a project",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      filter",
		s.HelpKey.Render("space") + "  toggle step (in a task)",
		s.HelpKey.Render("1-5") + "    switch screen",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	return lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
}

func (v *ProjectsView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and its steps will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
