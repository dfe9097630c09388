package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists every priority from least to most urgent
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority accepts the four priority names in any letter case
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Valid reports whether p is one of the four known priorities
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Rank orders priorities, 0 for Low up to 3 for Critical. Unknown values rank -1.
func (p Priority) Rank() int {
	return slices.Index(Priorities, p)
}

// Urgent is true for High and Critical
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Tags applied by the task-creating flows
const (
	TagProject   = "Project"
	TagBrainDump = "Brain Dump"
)

// SubTask is one small step of a task. It never exists without its parent.
type SubTask struct {
	ID               string
	Title            string
	EstimatedMinutes int
	Completed        bool
}

// Task represents a single task
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	SubTasks    []SubTask
	CreatedAt   time.Time
	Tags        []string
}

// CompletedSubTasks returns how many subtasks are done
func (t Task) CompletedSubTasks() int {
	n := 0
	for _, st := range t.SubTasks {
		if st.Completed {
			n++
		}
	}
	return n
}

// RemainingMinutes sums the estimates of the open subtasks
func (t Task) RemainingMinutes() int {
	total := 0
	for _, st := range t.SubTasks {
		if !st.Completed {
			total += st.EstimatedMinutes
		}
	}
	return total
}

// DerivedStatus computes the status implied by the subtasks.
// Tasks without subtasks keep whatever status they hold.
func (t Task) DerivedStatus() Status {
	if len(t.SubTasks) == 0 {
		return t.Status
	}
	switch done := t.CompletedSubTasks(); {
	case done == len(t.SubTasks):
		return StatusDone
	case done == 0:
		return StatusTodo
	default:
		return StatusInProgress
	}
}

// HasTag reports whether the task carries tag (case-insensitive)
func (t Task) HasTag(tag string) bool {
	return slices.ContainsFunc(t.Tags, func(s string) bool {
		return strings.EqualFold(s, tag)
	})
}

// Clone returns a deep copy so callers can't reach into shared slices
func (t Task) Clone() Task {
	t.SubTasks = slices.Clone(t.SubTasks)
	t.Tags = slices.Clone(t.Tags)
	return t
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping first-seen order
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		dup := slices.ContainsFunc(out, func(s string) bool { return strings.EqualFold(s, tag) })
		if !dup {
			out = append(out, tag)
		}
	}
	return out
}

// Validate checks the record invariants, including the Done rule
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task missing id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task %s missing title", t.ID)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task %s has unknown priority %q", t.ID, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task %s has unknown status %q", t.ID, t.Status)
	}

	seen := make(map[string]bool, len(t.SubTasks))
	for i, st := range t.SubTasks {
		if st.ID == "" {
			return fmt.Errorf("task %s subtask %d missing id", t.ID, i+1)
		}
		if seen[st.ID] {
			return fmt.Errorf("task %s has duplicate subtask id %s", t.ID, st.ID)
		}
		seen[st.ID] = true
		if strings.TrimSpace(st.Title) == "" {
			return fmt.Errorf("task %s subtask %s missing title", t.ID, st.ID)
		}
		if st.EstimatedMinutes <= 0 {
			return fmt.Errorf("task %s subtask %s has non-positive estimate %d", t.ID, st.ID, st.EstimatedMinutes)
		}
	}

	if len(t.SubTasks) > 0 {
		allDone := t.CompletedSubTasks() == len(t.SubTasks)
		if allDone != (t.Status == StatusDone) {
			return fmt.Errorf("task %s status %q disagrees with its subtasks", t.ID, t.Status)
		}
	}
	return nil
}

// Project groups tasks. No flow creates one yet.
type Project struct {
	ID          string
	Name        string
	Description string
	Tasks       []Task
}

// Role identifies who wrote a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation. Messages are never edited.
type ChatMessage struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}

// FocusSession is a focus or break interval that ran to zero
type FocusSession struct {
	ID          int64
	Mode        string
	TaskID      string // empty when no task was selected
	Duration    time.Duration
	CompletedAt time.Time
}

// FocusStats summarizes the session ledger
type FocusStats struct {
	Sessions       int
	WorkSessions   int
	FocusedMinutes int
}
