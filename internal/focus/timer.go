// Package focus implements the pomodoro countdown.
package focus

import (
	"fmt"
	"time"
)

// Mode is the kind of interval being counted down
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// Interval lengths are fixed
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// Duration returns the fixed length of the mode's interval
func (m Mode) Duration() time.Duration {
	if m == ModeBreak {
		return BreakDuration
	}
	return WorkDuration
}

// Seconds returns Duration in whole seconds
func (m Mode) Seconds() int {
	return int(m.Duration() / time.Second)
}

// Label is the display name of the mode
func (m Mode) Label() string {
	if m == ModeBreak {
		return "Break"
	}
	return "Focus"
}

// Timer is the countdown state machine. Its zero value is not ready; use NewTimer.
// Timer is not safe for concurrent use; Service serializes access.
type Timer struct {
	mode      Mode
	active    bool
	remaining int
	taskID    string
}

// NewTimer returns an inactive timer holding a full work interval
func NewTimer() *Timer {
	t := &Timer{mode: ModeWork}
	t.Reset()
	return t
}

// Toggle starts or pauses the countdown without touching the remaining time.
// An expired timer stays inactive.
func (t *Timer) Toggle() {
	t.active = !t.active && t.remaining > 0
}

// Reset stops the countdown and refills the current mode's interval
func (t *Timer) Reset() {
	t.active = false
	t.remaining = t.mode.Seconds()
}

// SwitchMode selects a mode, stops the countdown and refills the interval
func (t *Timer) SwitchMode(m Mode) {
	if m != ModeBreak {
		m = ModeWork
	}
	t.mode = m
	t.Reset()
}

// Tick counts down one second while active. It reports true on the tick that
// reaches zero, at which point the timer deactivates itself.
func (t *Timer) Tick() bool {
	if !t.active || t.remaining <= 0 {
		return false
	}
	t.remaining--
	if t.remaining == 0 {
		t.active = false
		return true
	}
	return false
}

// SelectTask records which task the user is working on. It has no effect on the countdown.
func (t *Timer) SelectTask(id string) { t.taskID = id }

func (t *Timer) ActiveTask() string    { return t.taskID }
func (t *Timer) Mode() Mode            { return t.mode }
func (t *Timer) Active() bool          { return t.active }
func (t *Timer) RemainingSeconds() int { return t.remaining }

func (t *Timer) Remaining() time.Duration {
	return time.Duration(t.remaining) * time.Second
}

// Progress is the elapsed fraction of the current interval, in [0,1]
func (t *Timer) Progress() float64 {
	total := t.mode.Seconds()
	return float64(total-t.remaining) / float64(total)
}

// State is an immutable snapshot of the timer
type State struct {
	Mode             Mode
	Active           bool
	RemainingSeconds int
	Progress         float64
	TaskID           string
	Expired          bool // set on the snapshot published when an interval ends
}

// Snapshot captures the current state
func (t *Timer) Snapshot() State {
	return State{
		Mode:             t.mode,
		Active:           t.active,
		RemainingSeconds: t.remaining,
		Progress:         t.Progress(),
		TaskID:           t.taskID,
	}
}

// FormatClock renders seconds as MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
