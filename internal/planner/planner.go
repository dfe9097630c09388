// Package planner turns assistant output into tasks and places them in the
// store. It owns the two task-creating flows: project breakdown and brain
// dump ingestion.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/focusflow/internal/assistant"
	"github.com/tgienger/focusflow/internal/models"
	"github.com/tgienger/focusflow/internal/store"
)

var (
	ErrEmptyTitle = errors.New("title is required")
	ErrEmptyDump  = errors.New("brain dump is empty")
)

// Planner builds tasks from assistant replies
type Planner struct {
	assistant assistant.Assistant
	store     *store.Store
	now       func() time.Time
	newID     func() string
}

// Option configures a Planner
type Option func(*Planner)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDs overrides the task id generator
func WithIDs(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// New creates a planner writing into s
func New(a assistant.Assistant, s *store.Store, opts ...Option) *Planner {
	p := &Planner{
		assistant: a,
		store:     s,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BreakDown asks the assistant to split a project into steps and prepends the
// resulting task. The store is untouched when the assistant fails.
func (p *Planner) BreakDown(ctx context.Context, title, description string) (models.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}

	steps, err := p.assistant.Breakdown(ctx, title, description)
	if err != nil {
		return models.Task{}, err
	}

	id := p.newID()
	task := models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    models.PriorityMedium,
		Status:      models.StatusTodo,
		CreatedAt:   p.now(),
		Tags:        []string{models.TagProject},
		SubTasks:    make([]models.SubTask, 0, len(steps)),
	}
	for i, step := range steps {
		task.SubTasks = append(task.SubTasks, models.SubTask{
			ID:               fmt.Sprintf("%s-sub-%d", id, i),
			Title:            step.Title,
			EstimatedMinutes: step.EstimatedMinutes,
		})
	}

	// the caller may have given up while the assistant was answering
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	if err := p.store.Append(store.Head, task); err != nil {
		return models.Task{}, fmt.Errorf("adding breakdown: %w", err)
	}
	return task, nil
}

// IngestBrainDump asks the assistant to pull tasks out of free text and
// appends them in reply order.
func (p *Planner) IngestBrainDump(ctx context.Context, text string) ([]models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDump
	}

	suggestions, err := p.assistant.Organize(ctx, text)
	if err != nil {
		return nil, err
	}

	created := p.now()
	tasks := make([]models.Task, 0, len(suggestions))
	for _, s := range suggestions {
		tasks = append(tasks, models.Task{
			ID:          p.newID(),
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
			Status:      models.StatusTodo,
			CreatedAt:   created,
			Tags:        []string{models.TagBrainDump},
		})
	}

	// the caller may have given up while the assistant was answering
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.store.Append(store.Tail, tasks...); err != nil {
		return nil, fmt.Errorf("adding brain dump: %w", err)
	}
	return tasks, nil
}
