// Package msgs defines the messages shared between the router and screens.
package msgs

import (
	"github.com/tgienger/focusflow/internal/focus"
	"github.com/tgienger/focusflow/internal/models"
)

// Screen identifies one of the sidebar destinations
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenProjects
	ScreenBrainDump
	ScreenFocus
	ScreenAssistant
)

// Screens lists every screen in sidebar order
var Screens = []Screen{ScreenDashboard, ScreenProjects, ScreenBrainDump, ScreenFocus, ScreenAssistant}

// Label is the sidebar text
func (s Screen) Label() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenProjects:
		return "Projects & Tasks"
	case ScreenBrainDump:
		return "Brain Dump"
	case ScreenFocus:
		return "Focus Mode"
	case ScreenAssistant:
		return "Assistant"
	}
	return ""
}

// NavigateMsg switches the active screen
type NavigateMsg struct {
	Screen Screen
}

// StartBreakdownMsg opens the new-project form on the projects screen
type StartBreakdownMsg struct{}

// TasksChangedMsg carries the store snapshot after a mutation
type TasksChangedMsg struct {
	Tasks []models.Task
}

// TimerMsg carries the latest focus timer state
type TimerMsg struct {
	State focus.State
}
