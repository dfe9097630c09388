// Package store holds the session's ordered task list.
//
// Every mutation builds a fresh slice and swaps it in, so snapshots handed
// to readers and subscribers never change underneath them.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tgienger/focusflow/internal/models"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubTaskNotFound = errors.New("subtask not found")
	ErrDuplicateTask   = errors.New("task id already exists")
)

// Position selects where Append inserts
type Position int

const (
	Tail Position = iota
	Head
)

// Stats are the dashboard counters
type Stats struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int
}

// Store is the shared task list. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tasks  []models.Task
	subs   map[int]chan []models.Task
	nextID int
}

// New creates an empty store
func New() *Store {
	return &Store{subs: make(map[int]chan []models.Task)}
}

// Append inserts tasks at the head or tail, keeping their relative order.
// Nothing is inserted if any task is invalid or reuses an existing id.
func (s *Store) Append(pos Position, tasks ...models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.tasks)+len(tasks))
	for _, t := range s.tasks {
		seen[t.ID] = true
	}

	added := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, t.ID)
		}
		seen[t.ID] = true
		t = t.Clone()
		t.Tags = models.NormalizeTags(t.Tags)
		added = append(added, t)
	}

	next := make([]models.Task, 0, len(s.tasks)+len(added))
	if pos == Head {
		next = append(append(next, added...), s.tasks...)
	} else {
		next = append(append(next, s.tasks...), added...)
	}
	s.swap(next)
	return nil
}

// ToggleSubTask flips a subtask's completion flag and recomputes the parent status.
// It returns the updated task.
func (s *Store) ToggleSubTask(taskID, subTaskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	task := s.tasks[idx].Clone()
	sub := slices.IndexFunc(task.SubTasks, func(st models.SubTask) bool { return st.ID == subTaskID })
	if sub < 0 {
		return models.Task{}, fmt.Errorf("%w: %s in task %s", ErrSubTaskNotFound, subTaskID, taskID)
	}
	task.SubTasks[sub].Completed = !task.SubTasks[sub].Completed
	task.Status = task.DerivedStatus()

	next := slices.Clone(s.tasks)
	next[idx] = task
	s.swap(next)
	return task.Clone(), nil
}

// Delete removes a task by id
func (s *Store) Delete(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	s.swap(slices.Delete(slices.Clone(s.tasks), idx, idx+1))
	return nil
}

// Tasks returns a deep copy of the list in order
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Get looks up a task by id
func (s *Store) Get(taskID string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return models.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// Len returns the number of tasks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Stats counts done, pending and urgent tasks
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Status == models.StatusDone {
			st.Completed++
		} else {
			st.Pending++
		}
		if t.Priority.Urgent() {
			st.HighPriority++
		}
	}
	return st
}

// Subscribe returns a channel that receives a snapshot after every mutation,
// and a function that cancels the subscription. A slow reader only sees the
// latest snapshot.
func (s *Store) Subscribe() (<-chan []models.Task, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan []models.Task, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// swap installs next and notifies subscribers. Caller holds the write lock.
func (s *Store) swap(next []models.Task) {
	s.tasks = next
	for _, ch := range s.subs {
		snapshot := cloneAll(next)
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (s *Store) indexOf(taskID string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == taskID })
}

func cloneAll(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
