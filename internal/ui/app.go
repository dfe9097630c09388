package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/chat"
	"github.com/tgienger/focusflow/internal/focus"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/planner"
	"github.com/tgienger/focusflow/internal/store"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/msgs"
	"github.com/tgienger/focusflow/internal/ui/styles"
	"github.com/tgienger/focusflow/internal/ui/views"
)

// screen is what every sidebar destination implements
type screen interface {
	tea.Model
	// Capturing is true while the screen is taking text input, which
	// suspends the global shortcuts
	Capturing() bool
}

// Deps are the long-lived services the screens work against
type Deps struct {
	Store   *store.Store
	Timer   *focus.Service
	Planner *planner.Planner
	Chat    *chat.Session
	Ledger  Ledger
}

// Ledger is the focus session history the dashboard and focus screens read
type Ledger interface {
	views.SessionStats
	views.TaskFocus
}

type App struct {
	store   *store.Store
	timer   *focus.Service
	screens map[msgs.Screen]screen
	current msgs.Screen
	styles  *styles.Styles
	keys    keys.KeyMap
	width   int
	height  int

	tasksCh <-chan []models.Task
	timerCh <-chan focus.State
	unsubs  []func()
}

// Creates a new application
func NewApp(d Deps) *App {
	a := &App{
		store:   d.Store,
		timer:   d.Timer,
		current: msgs.ScreenDashboard,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		screens: map[msgs.Screen]screen{
			msgs.ScreenDashboard: views.NewDashboardView(d.Store, d.Ledger, d.Timer),
			msgs.ScreenProjects:  views.NewProjectsView(d.Store, d.Planner),
			msgs.ScreenBrainDump: views.NewBrainDumpView(d.Planner),
			msgs.ScreenFocus:     views.NewFocusView(d.Timer, d.Ledger),
			msgs.ScreenAssistant: views.NewChatView(d.Chat),
		},
	}

	var unsub func()
	a.tasksCh, unsub = d.Store.Subscribe()
	a.unsubs = append(a.unsubs, unsub)
	a.timerCh, unsub = d.Timer.Subscribe()
	a.unsubs = append(a.unsubs, unsub)
	return a
}

// Close drops the store and timer subscriptions
func (a *App) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForTasks(a.tasksCh),
		waitForTimer(a.timerCh),
		func() tea.Msg { return msgs.TasksChangedMsg{Tasks: a.store.Tasks()} },
		func() tea.Msg { return msgs.TimerMsg{State: a.timer.State()} },
	}
	for _, s := range msgs.Screens {
		cmds = append(cmds, a.screens[s].Init())
	}
	return tea.Batch(cmds...)
}

// waitForTasks turns the next store snapshot into a message
func waitForTasks(ch <-chan []models.Task) tea.Cmd {
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return nil
		}
		return tasksUpdate{tasks: tasks}
	}
}

// waitForTimer turns the next timer snapshot into a message
func waitForTimer(ch <-chan focus.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return timerUpdate{state: state}
	}
}

// subscription messages, re-armed after each delivery
type tasksUpdate struct{ tasks []models.Task }
type timerUpdate struct{ state focus.State }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: a.contentWidth(), Height: max(msg.Height-2, 0)}
		return a, a.broadcast(inner)

	case tasksUpdate:
		return a, tea.Batch(waitForTasks(a.tasksCh), a.broadcast(msgs.TasksChangedMsg{Tasks: msg.tasks}))

	case timerUpdate:
		return a, tea.Batch(waitForTimer(a.timerCh), a.broadcast(msgs.TimerMsg{State: msg.state}))

	case msgs.NavigateMsg:
		if _, ok := a.screens[msg.Screen]; ok {
			a.current = msg.Screen
		}
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if !a.screens[a.current].Capturing() {
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			for i, b := range a.keys.Screens {
				if key.Matches(msg, b) {
					a.current = msgs.Screens[i]
					return a, nil
				}
			}
		}
		_, cmd := a.screens[a.current].Update(msg)
		return a, cmd
	}

	// everything else may be the async result of a screen that is not
	// showing, so every screen sees it
	return a, a.broadcast(msg)
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.screens))
	for _, s := range msgs.Screens {
		_, cmd := a.screens[s].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// contentWidth is what is left beside the sidebar and the content padding
func (a *App) contentWidth() int {
	return max(a.width-styles.SidebarWidth-5, 20)
}

func (a *App) View() string {
	content := a.screens[a.current].View()
	page := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderSidebar(),
		lipgloss.NewStyle().Padding(1, 2).Render(content),
	)
	return page
}

func (a *App) renderSidebar() string {
	s := a.styles
	lines := []string{s.SidebarTitle.Render("FocusFlow")}
	for i, sc := range msgs.Screens {
		label := a.keys.Screens[i].Help().Key + "  " + sc.Label()
		if sc == a.current {
			lines = append(lines, s.SidebarActive.Render(label))
		} else {
			lines = append(lines, s.SidebarItem.Render(label))
		}
	}

	st := a.timer.State()
	clock := focus.FormatClock(st.RemainingSeconds)
	if st.Active {
		clock = "● " + clock
	}
	lines = append(lines, "", s.TitleMuted.Render(st.Mode.Label()+" "+clock))

	return s.Sidebar.Height(max(a.height-2, 0)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
