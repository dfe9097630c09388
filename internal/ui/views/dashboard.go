package views

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/store"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/msgs"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

// SessionStats reports what the focus timer has logged this run
type SessionStats interface {
	SessionStats() (models.FocusStats, error)
}

type focusStatsMsg struct {
	stats models.FocusStats
}

// DashboardView shows counters and quick actions
type DashboardView struct {
	store   *store.Store
	ledger  SessionStats
	timer   TimerControl
	styles  *styles.Styles
	keys    keys.KeyMap
	bar     progress.Model
	width   int
	height  int
	stats   store.Stats
	focused models.FocusStats
}

func NewDashboardView(s *store.Store, ledger SessionStats, timer TimerControl) *DashboardView {
	return &DashboardView{
		store:  s,
		ledger: ledger,
		timer:  timer,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		stats:  s.Stats(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	return v.loadFocusStats
}

func (v *DashboardView) loadFocusStats() tea.Msg {
	stats, err := v.ledger.SessionStats()
	if err != nil {
		log.Printf("dashboard: loading focus stats: %v", err)
		return nil
	}
	return focusStatsMsg{stats: stats}
}

// Capturing is always false
func (v *DashboardView) Capturing() bool { return false }

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.bar.Width = clamp(styles.ContentWidth(msg.Width)-30, 10, 40)
		return v, nil

	case msgs.TasksChangedMsg:
		v.stats = v.store.Stats()
		return v, nil

	case msgs.TimerMsg:
		if msg.State.Expired {
			return v, v.loadFocusStats
		}
		return v, nil

	case focusStatsMsg:
		v.focused = msg.stats
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.BrainDump):
			return v, navigate(msgs.ScreenBrainDump)
		case key.Matches(msg, v.keys.New):
			return v, tea.Sequence(navigate(msgs.ScreenProjects), func() tea.Msg { return msgs.StartBreakdownMsg{} })
		case key.Matches(msg, v.keys.Focus):
			if !v.timer.State().Active {
				v.timer.Toggle()
			}
			return v, navigate(msgs.ScreenFocus)
		}
	}
	return v, nil
}

func navigate(s msgs.Screen) tea.Cmd {
	return func() tea.Msg { return msgs.NavigateMsg{Screen: s} }
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// View renders the view
func (v *DashboardView) View() string {
	s := v.styles
	st := v.stats

	counter := func(label string, n int, color lipgloss.Color) string {
		value := s.CardValue.Foreground(color).Render(fmt.Sprintf("%d", n))
		return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, s.TitleMuted.Render(label), value))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		counter("Completed", st.Completed, styles.Current.Success),
		" ",
		counter("Pending", st.Pending, styles.Current.Primary),
		" ",
		counter("High Priority", st.HighPriority, styles.Current.Error),
	)

	bars := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%-10s %s", "Done", v.bar.ViewAs(ratio(st.Completed, st.Total))),
		fmt.Sprintf("%-10s %s", "Urgent", v.bar.ViewAs(ratio(st.HighPriority, st.Total))),
	)

	f := v.focused
	focusLine := s.TitleMuted.Render("No focus sessions finished yet.")
	if f.Sessions > 0 {
		focusLine = fmt.Sprintf("%d focus sessions · %d minutes focused · %d breaks",
			f.WorkSessions, f.FocusedMinutes, f.Sessions-f.WorkSessions)
	}

	actions := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Quick Actions"),
		s.ListItem.Render(s.HelpKey.Render("b")+"  Brain Dump"),
		s.ListItem.Render(s.HelpKey.Render("n")+"  Break down a project"),
		s.ListItem.Render(s.HelpKey.Render("f")+"  Start Focus Timer"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Dashboard"),
		s.TitleMuted.Render(fmt.Sprintf("%d tasks this session", st.Total)),
		"",
		cards,
		"",
		bars,
		"",
		focusLine,
		"",
		actions,
	)
}
