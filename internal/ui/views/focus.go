package views

import (
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/focus"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/msgs"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

// TimerControl is the part of the focus service the screen drives
type TimerControl interface {
	Toggle()
	Reset()
	SwitchMode(m focus.Mode)
	SelectTask(id string)
	State() focus.State
}

// TaskFocus reports logged work minutes per task
type TaskFocus interface {
	TaskFocusMinutes(taskID string) (int, error)
}

type taskMinutesMsg struct {
	taskID  string
	minutes int
}

// pickerDelegate renders one task per line in the focus task picker
type pickerDelegate struct {
	styles *styles.Styles
	width  int
	active *string
}

func (d pickerDelegate) Height() int                               { return 1 }
func (d pickerDelegate) Spacing() int                              { return 0 }
func (d pickerDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	marker := "  "
	if it.task.ID == *d.active {
		marker = "▶ "
	}
	line := marker + it.task.Title
	if it.task.Status == models.StatusDone {
		line += " ✓"
	}

	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}
	fmt.Fprint(w, style.Width(max(d.width-4, 20)).Render(line))
}

// FocusView shows the pomodoro clock and lets the user pick a task for it
type FocusView struct {
	timer    TimerControl
	ledger   TaskFocus
	picker   list.Model
	delegate *pickerDelegate
	bar      progress.Model
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	state    focus.State
	tasks    []models.Task
	activeID string
	timesUp  bool
	minutes  taskMinutesMsg // logged minutes for activeID
}

func NewFocusView(t TimerControl, ledger TaskFocus) *FocusView {
	s := styles.NewStyles()

	v := &FocusView{
		timer:  t,
		ledger: ledger,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		state:  t.State(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
	v.activeID = v.state.TaskID
	v.delegate = &pickerDelegate{styles: s, width: styles.MaxWidth, active: &v.activeID}

	l := list.New([]list.Item{}, v.delegate, 0, 0)
	l.Title = "Working on"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = s.TitleMuted
	v.picker = l

	return v
}

func (v *FocusView) Init() tea.Cmd {
	return v.loadTaskMinutes(v.activeID)
}

func (v *FocusView) loadTaskMinutes(id string) tea.Cmd {
	if id == "" || v.ledger == nil {
		return nil
	}
	ledger := v.ledger
	return func() tea.Msg {
		minutes, err := ledger.TaskFocusMinutes(id)
		if err != nil {
			log.Printf("focus: loading minutes for %s: %v", id, err)
			return nil
		}
		return taskMinutesMsg{taskID: id, minutes: minutes}
	}
}

// Capturing is always false; every key here is a command
func (v *FocusView) Capturing() bool { return false }

func (v *FocusView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.bar.Width = clamp(contentWidth-10, 10, 60)
		v.picker.SetSize(contentWidth-4, clamp(msg.Height-16, 3, 12))
		return v, nil

	case msgs.TimerMsg:
		changed := v.activeID != msg.State.TaskID
		v.state = msg.State
		v.activeID = msg.State.TaskID
		if msg.State.Expired {
			v.timesUp = true
		} else if msg.State.Active {
			v.timesUp = false
		}
		if changed || msg.State.Expired {
			return v, v.loadTaskMinutes(v.activeID)
		}
		return v, nil

	case taskMinutesMsg:
		v.minutes = msg
		return v, nil

	case msgs.TasksChangedMsg:
		v.tasks = msg.Tasks
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = taskItem{task: t}
		}
		v.picker.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Toggle):
			v.timesUp = false
			v.timer.Toggle()
			return v, nil
		case key.Matches(msg, v.keys.Reset):
			v.timesUp = false
			v.timer.Reset()
			return v, nil
		case key.Matches(msg, v.keys.Work):
			v.timesUp = false
			v.timer.SwitchMode(focus.ModeWork)
			return v, nil
		case key.Matches(msg, v.keys.Break):
			v.timesUp = false
			v.timer.SwitchMode(focus.ModeBreak)
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.picker.SelectedItem().(taskItem); ok {
				id := item.task.ID
				if id == v.activeID {
					id = ""
				}
				v.activeID = id
				v.timer.SelectTask(id)
				return v, v.loadTaskMinutes(id)
			}
			return v, nil
		case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Down):
			var cmd tea.Cmd
			v.picker, cmd = v.picker.Update(msg)
			return v, cmd
		}
	}

	return v, nil
}

func (v *FocusView) activeTitle() string {
	for _, t := range v.tasks {
		if t.ID == v.activeID {
			return t.Title
		}
	}
	return ""
}

// View renders the view
func (v *FocusView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	clockStyle := s.Clock
	if v.state.Mode == focus.ModeBreak {
		clockStyle = s.ClockBreak
	}

	status := "Paused"
	if v.state.Active {
		status = "Running"
	}
	if v.timesUp {
		status = "Time's up!"
	}

	working := s.TitleMuted.Render("No task selected")
	if title := v.activeTitle(); title != "" {
		working = s.TaskTitle.Render(title)
		if v.minutes.taskID == v.activeID && v.minutes.minutes > 0 {
			working += s.TitleMuted.Render(fmt.Sprintf(" · %dm focused", v.minutes.minutes))
		}
	}

	timerBlock := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(v.state.Mode.Label()),
		clockStyle.Render(focus.FormatClock(v.state.RemainingSeconds)),
		v.bar.ViewAs(v.state.Progress),
		s.TitleMuted.Render(status),
		working,
	)

	picker := s.TitleMuted.Render("Add tasks to pick one to focus on.")
	if len(v.picker.Items()) > 0 {
		picker = v.picker.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, timerBlock),
		"",
		picker,
		helpLine(s, "space", "start/pause", "r", "reset", "w", "focus", "b", "break", "↵", "pick task"),
	)
	return content
}
