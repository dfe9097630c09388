package views

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/ui/keys"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

// Conversation is the chat transcript the screen drives
type Conversation interface {
	Post(text string) (models.ChatMessage, error)
	Reply(ctx context.Context) (models.ChatMessage, error)
	Messages() []models.ChatMessage
}

type chatReplyMsg struct {
	seq       int
	withdrawn models.ChatMessage // set when the reply was cancelled
	err       error
}

// ChatView is the assistant screen
type ChatView struct {
	chat     Conversation
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	req      request

	// a cancelled reply has not yet withdrawn its message
	withdrawing bool
}

func NewChatView(c Conversation) *ChatView {
	input := textinput.New()
	input.Placeholder = "Ask for help, vent, or plan..."
	input.CharLimit = 2000
	input.Prompt = "› "
	input.Focus()

	v := &ChatView{
		chat:     c,
		viewport: viewport.New(styles.MaxWidth, 10),
		input:    input,
		spinner:  newSpinner(),
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
	v.refresh()
	return v
}

func (v *ChatView) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing is true while the input has focus
func (v *ChatView) Capturing() bool {
	return v.input.Focused()
}

func (v *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.viewport.Width = contentWidth - 2
		v.viewport.Height = max(msg.Height-7, 3)
		v.input.Width = clamp(contentWidth-6, 10, 74)
		v.refresh()
		return v, nil

	case chatReplyMsg:
		if isCancelled(msg.err) {
			v.withdrawing = false
			if v.input.Value() == "" {
				v.input.SetValue(msg.withdrawn.Text)
				v.input.CursorEnd()
			}
			v.refresh()
			return v, nil
		}
		if !v.req.finish(msg.seq) {
			return v, nil
		}
		if msg.err != nil {
			log.Printf("chat: %v", msg.err)
		}
		v.refresh()
		return v, nil

	case spinner.TickMsg:
		if !v.req.loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd

	case tea.KeyMsg:
		if v.req.loading() && key.Matches(msg, v.keys.Back) {
			v.req.stop()
			v.withdrawing = true
			v.refresh()
			return v, nil
		}

		if !v.input.Focused() {
			switch {
			case key.Matches(msg, v.keys.Enter):
				return v, v.input.Focus()
			case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Down):
				var cmd tea.Cmd
				v.viewport, cmd = v.viewport.Update(msg)
				return v, cmd
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			v.input.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			return v, v.send()
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return v, cmd
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *ChatView) send() tea.Cmd {
	if v.req.loading() || v.withdrawing {
		return nil
	}
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}
	if _, err := v.chat.Post(text); err != nil {
		log.Printf("chat: %v", err)
		return nil
	}
	v.input.Reset()

	ctx, seq := v.req.begin()
	v.refresh()
	c := v.chat
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		m, err := c.Reply(ctx)
		reply := chatReplyMsg{seq: seq, err: err}
		if isCancelled(err) {
			reply.withdrawn = m
		}
		return reply
	})
}

// refresh re-renders the transcript into the viewport and scrolls to the end
func (v *ChatView) refresh() {
	s := v.styles
	width := max(v.viewport.Width-2, 10)
	body := lipgloss.NewStyle().Width(width)

	var blocks []string
	for _, m := range v.chat.Messages() {
		name := s.ChatAssistant.Render("FocusFlow")
		if m.Role == models.RoleUser {
			name = s.ChatUser.Render("You")
		}
		stamp := s.TitleMuted.Render(m.Timestamp.Format("15:04"))
		blocks = append(blocks, name+" "+stamp+"\n"+body.Render(m.Text))
	}
	if v.req.loading() {
		blocks = append(blocks, v.spinner.View()+s.TitleMuted.Render(" typing..."))
	}

	v.viewport.SetContent(strings.Join(blocks, "\n\n"))
	v.viewport.GotoBottom()
}

// View renders the view
func (v *ChatView) View() string {
	s := v.styles

	inputStyle := s.Input
	if v.input.Focused() {
		inputStyle = s.InputFocused
	}

	help := helpLine(s, "↵", "send", "pgup/pgdn", "scroll", "esc", "leave input")
	if !v.input.Focused() {
		help = helpLine(s, "↵", "type", "↑/↓", "scroll", "1-5", "switch screen")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Assistant"),
		v.viewport.View(),
		inputStyle.Render(v.input.View()),
		help,
	)
}
