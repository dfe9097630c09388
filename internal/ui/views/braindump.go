package views

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/msgs"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

const organizeFailed = "Failed to organize. Try again."

// Organizer turns free text into tasks
type Organizer interface {
	IngestBrainDump(ctx context.Context, text string) ([]models.Task, error)
}

type organizeDoneMsg struct {
	seq   int
	tasks []models.Task
	err   error
}

// BrainDumpView captures free text and sends it off to be organized
type BrainDumpView struct {
	planner Organizer
	input   textarea.Model
	styles  *styles.Styles
	keys    keys.KeyMap
	width   int
	height  int
	req     request
	spinner spinner.Model
	alert   string
	added   int // tasks created by the last dump
}

func NewBrainDumpView(p Organizer) *BrainDumpView {
	input := textarea.New()
	input.Placeholder = "Type everything on your mind. Don't worry about order or grammar..."
	input.CharLimit = 5000
	input.ShowLineNumbers = false
	input.SetHeight(10)
	input.Focus()

	return &BrainDumpView{
		planner: p,
		input:   input,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		spinner: newSpinner(),
	}
}

func (v *BrainDumpView) Init() tea.Cmd {
	return textarea.Blink
}

// Capturing is true while the text area has focus
func (v *BrainDumpView) Capturing() bool {
	return v.input.Focused()
}

func (v *BrainDumpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.input.SetWidth(clamp(contentWidth-6, 20, 76))
		v.input.SetHeight(clamp(msg.Height-12, 4, 16))
		return v, nil

	case organizeDoneMsg:
		if !v.req.finish(msg.seq) {
			return v, nil
		}
		if msg.err != nil {
			log.Printf("organize: %v", msg.err)
			if !isCancelled(msg.err) {
				v.alert = organizeFailed
			}
			return v, nil
		}
		v.added = len(msg.tasks)
		v.input.Reset()
		return v, func() tea.Msg { return msgs.NavigateMsg{Screen: msgs.ScreenProjects} }

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

		if v.req.loading() {
			if key.Matches(msg, v.keys.Back) {
				v.req.stop()
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Submit):
			return v, v.submit()
		case key.Matches(msg, v.keys.Back):
			v.input.Blur()
			return v, nil
		}

		if !v.input.Focused() {
			if key.Matches(msg, v.keys.Enter) {
				return v, v.input.Focus()
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *BrainDumpView) submit() tea.Cmd {
	if v.req.loading() {
		return nil
	}
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}

	ctx, seq := v.req.begin()
	p := v.planner
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		tasks, err := p.IngestBrainDump(ctx, text)
		return organizeDoneMsg{seq: seq, tasks: tasks, err: err}
	})
}

// View renders the view
func (v *BrainDumpView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.alert != "" {
		return renderAlert(s, v.alert, contentWidth, v.height)
	}

	inputStyle := s.Input
	if v.input.Focused() {
		inputStyle = s.InputFocused
	}

	var footer string
	switch {
	case v.req.loading():
		footer = v.spinner.View() + " " + s.TitleMuted.Render("Organizing your thoughts... Esc: cancel")
	case v.input.Focused():
		footer = helpLine(s, "ctrl+s", "organize", "esc", "leave text")
	default:
		footer = helpLine(s, "↵", "edit", "ctrl+s", "organize", "1-5", "switch screen")
	}

	lines := []string{
		s.Title.Render("Brain Dump"),
		s.TitleMuted.Render("Empty your head. We'll sort it into tasks."),
		"",
		inputStyle.Render(v.input.View()),
	}
	if v.added > 0 && !v.req.loading() {
		lines = append(lines, s.TitleMuted.Render(pluralTasks(v.added)+" added from your last dump"))
	}
	lines = append(lines, footer)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
