package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings shared by every screen
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	New    key.Binding
	Enter  key.Binding
	Delete key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Submit key.Binding

	// Focus timer
	Toggle key.Binding
	Reset  key.Binding
	Work   key.Binding
	Break  key.Binding

	// Dashboard quick actions
	BrainDump key.Binding
	Focus     key.Binding

	// Sidebar, in screen order
	Screens []key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Work: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "focus mode"),
		),
		Break: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break mode"),
		),
		BrainDump: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "brain dump"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "start focus"),
		),
		Screens: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "projects")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "brain dump")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "focus")),
			key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "assistant")),
		},
	}
}
