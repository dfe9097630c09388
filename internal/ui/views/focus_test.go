package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/focusflow/internal/focus"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/ui/msgs"
)

func newFocusView() (*FocusView, *fakeTimer) {
	ft := &fakeTimer{state: focus.NewTimer().Snapshot()}
	v := NewFocusView(ft, &fakeLedger{minutes: map[string]int{"b": 50}})
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return v, ft
}

func TestFocusView_InitialClock(t *testing.T) {
	v, _ := newFocusView()

	view := v.View()
	if !strings.Contains(view, "25:00") {
		t.Error("expected a full work interval on the clock")
	}
	if !strings.Contains(view, "Focus") {
		t.Error("expected the mode label")
	}
	if v.Capturing() {
		t.Error("focus screen never captures")
	}
}

func TestFocusView_Commands(t *testing.T) {
	tests := []struct {
		name  string
		key   tea.KeyMsg
		check func(*testing.T, *fakeTimer)
	}{
		{"space toggles", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, func(t *testing.T, f *fakeTimer) {
			if f.toggles != 1 {
				t.Errorf("expected 1 toggle, got %d", f.toggles)
			}
		}},
		{"r resets", keyRunes("r"), func(t *testing.T, f *fakeTimer) {
			if f.resets != 1 {
				t.Errorf("expected 1 reset, got %d", f.resets)
			}
		}},
		{"w switches to work", keyRunes("w"), func(t *testing.T, f *fakeTimer) {
			if len(f.modes) != 1 || f.modes[0] != focus.ModeWork {
				t.Errorf("expected work mode, got %v", f.modes)
			}
		}},
		{"b switches to break", keyRunes("b"), func(t *testing.T, f *fakeTimer) {
			if len(f.modes) != 1 || f.modes[0] != focus.ModeBreak {
				t.Errorf("expected break mode, got %v", f.modes)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ft := newFocusView()
			v.Update(tt.key)
			tt.check(t, ft)
		})
	}
}

func TestFocusView_TimerMsg(t *testing.T) {
	v, _ := newFocusView()

	v.Update(msgs.TimerMsg{State: focus.State{Mode: focus.ModeBreak, Active: true, RemainingSeconds: 61, Progress: 0.8}})
	view := v.View()
	if !strings.Contains(view, "01:01") || !strings.Contains(view, "Break") {
		t.Errorf("expected break clock in view")
	}
	if !strings.Contains(view, "Running") {
		t.Error("expected running status")
	}

	v.Update(msgs.TimerMsg{State: focus.State{Mode: focus.ModeBreak, RemainingSeconds: 0, Progress: 1, Expired: true}})
	if !strings.Contains(v.View(), "Time's up!") {
		t.Error("expected expiry notice")
	}

	v.Update(keyRunes("r"))
	if strings.Contains(v.View(), "Time's up!") {
		t.Error("expected reset to clear the expiry notice")
	}
}

func TestFocusView_SelectTask(t *testing.T) {
	v, ft := newFocusView()
	tasks := []models.Task{
		{ID: "a", Title: "Write report", Priority: models.PriorityHigh, Status: models.StatusTodo},
		{ID: "b", Title: "Email Bob", Priority: models.PriorityLow, Status: models.StatusTodo},
	}
	v.Update(msgs.TasksChangedMsg{Tasks: tasks})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(ft.selected) != 1 || ft.selected[0] != "b" {
		t.Fatalf("expected task b selected, got %v", ft.selected)
	}
	if !strings.Contains(v.View(), "Email Bob") {
		t.Error("expected selected task in view")
	}
	if strings.Contains(v.View(), "50m focused") {
		t.Error("expected minutes only after the ledger answers")
	}
	v.Update(findMsg[taskMinutesMsg](t, runCmd(cmd)))
	if !strings.Contains(v.View(), "50m focused") {
		t.Error("expected logged minutes for the selected task")
	}

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if ft.selected[len(ft.selected)-1] != "" {
		t.Error("expected a second enter to clear the selection")
	}
}

func TestFocusView_ReloadsMinutesOnExpiry(t *testing.T) {
	v, _ := newFocusView()

	if _, cmd := v.Update(msgs.TimerMsg{State: focus.State{Active: true, RemainingSeconds: 10}}); cmd != nil {
		t.Error("expected no reload without a task")
	}

	_, cmd := v.Update(msgs.TimerMsg{State: focus.State{TaskID: "b", Active: true, RemainingSeconds: 10}})
	if got := findMsg[taskMinutesMsg](t, runCmd(cmd)); got.minutes != 50 {
		t.Errorf("expected 50 minutes, got %d", got.minutes)
	}

	if _, cmd := v.Update(msgs.TimerMsg{State: focus.State{TaskID: "b", Active: true, RemainingSeconds: 9}}); cmd != nil {
		t.Error("expected no reload on a plain tick")
	}
	if _, cmd := v.Update(msgs.TimerMsg{State: focus.State{TaskID: "b", Expired: true}}); cmd == nil {
		t.Error("expected a reload after expiry")
	}
}
