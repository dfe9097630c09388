package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/focusflow/internal/assistant"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/planner"
	"github.com/tgienger/focusflow/internal/store"
	"github.com/tgienger/focusflow/internal/testutil"
	"github.com/tgienger/focusflow/internal/ui/msgs"
)

func newBrainDumpView(fake *testutil.FakeAssistant) (*BrainDumpView, *store.Store) {
	s := store.New()
	v := NewBrainDumpView(planner.New(fake, s))
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return v, s
}

func TestBrainDumpView_StartsCapturing(t *testing.T) {
	v, _ := newBrainDumpView(&testutil.FakeAssistant{})

	if !v.Capturing() {
		t.Fatal("expected the text area to have focus")
	}

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if v.Capturing() {
		t.Error("expected esc to release focus")
	}

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !v.Capturing() {
		t.Error("expected enter to focus the text area again")
	}
}

func TestBrainDumpView_Organize(t *testing.T) {
	fake := &testutil.FakeAssistant{Suggestions: []assistant.Suggestion{
		{Title: "Call mom", Priority: models.PriorityHigh},
		{Title: "Buy milk", Priority: models.PriorityLow},
	}}
	v, s := newBrainDumpView(fake)

	v.Update(keyRunes("call mom; buy milk"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a command from submit")
	}
	if _, again := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); again != nil {
		t.Error("expected no command for a double submit")
	}

	done := findMsg[organizeDoneMsg](t, runCmd(cmd))
	_, next := v.Update(done)

	nav := findMsg[msgs.NavigateMsg](t, runCmd(next))
	if nav.Screen != msgs.ScreenProjects {
		t.Errorf("expected navigation to projects, got %v", nav.Screen)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", s.Len())
	}
	for _, task := range s.Tasks() {
		if !task.HasTag(models.TagBrainDump) || task.Status != models.StatusTodo {
			t.Errorf("unexpected task %+v", task)
		}
	}
	if v.input.Value() != "" {
		t.Error("expected the text area to be cleared")
	}
	if fake.LastText != "call mom; buy milk" {
		t.Errorf("expected dump text sent, got %q", fake.LastText)
	}
}

func TestBrainDumpView_EmptyNotSubmitted(t *testing.T) {
	fake := &testutil.FakeAssistant{}
	v, _ := newBrainDumpView(fake)

	if _, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Error("expected no request for empty text")
	}
}

func TestBrainDumpView_Failure(t *testing.T) {
	fake := &testutil.FakeAssistant{Err: assistant.ErrInvalidResponse}
	v, s := newBrainDumpView(fake)

	v.Update(keyRunes("stuff"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	_, next := v.Update(findMsg[organizeDoneMsg](t, runCmd(cmd)))

	if next != nil {
		t.Error("expected no navigation on failure")
	}
	if !strings.Contains(v.View(), organizeFailed) {
		t.Errorf("expected %q in view", organizeFailed)
	}
	if s.Len() != 0 {
		t.Errorf("expected store untouched, got %d", s.Len())
	}
	if v.input.Value() != "stuff" {
		t.Error("expected the text to be kept for a retry")
	}
}

func TestBrainDumpView_Cancel(t *testing.T) {
	fake := &testutil.FakeAssistant{Block: make(chan struct{})}
	v, _ := newBrainDumpView(fake)

	v.Update(keyRunes("stuff"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	_, next := v.Update(findMsg[organizeDoneMsg](t, runCmd(cmd)))
	if next != nil || v.alert != "" {
		t.Error("expected a cancelled dump to be dropped silently")
	}
}
