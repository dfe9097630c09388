// Package testutil provides testing utilities for the focusflow project.
package testutil

import (
	"context"
	"sync"

	"github.com/tgienger/focusflow/internal/assistant"
	"github.com/tgienger/focusflow/internal/models"
)

// FakeAssistant is a canned assistant.Assistant that records its calls.
// Zero value answers every call with empty results.
type FakeAssistant struct {
	mu sync.Mutex

	Steps       []assistant.Step
	Suggestions []assistant.Suggestion
	Reply       string
	Err         error

	// Block, when set, makes every call wait for it to close or for ctx
	Block chan struct{}

	BreakdownCalls int
	OrganizeCalls  int
	ChatCalls      int
	LastTitle      string
	LastText       string
	LastHistory    []models.ChatMessage
}

func (f *FakeAssistant) wait(ctx context.Context) error {
	if f.Block == nil {
		return nil
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Breakdown implements assistant.Assistant
func (f *FakeAssistant) Breakdown(ctx context.Context, title, description string) ([]assistant.Step, error) {
	f.mu.Lock()
	f.BreakdownCalls++
	f.LastTitle = title
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]assistant.Step{}, f.Steps...), nil
}

// Organize implements assistant.Assistant
func (f *FakeAssistant) Organize(ctx context.Context, text string) ([]assistant.Suggestion, error) {
	f.mu.Lock()
	f.OrganizeCalls++
	f.LastText = text
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]assistant.Suggestion{}, f.Suggestions...), nil
}

// Chat implements assistant.Assistant
func (f *FakeAssistant) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	f.mu.Lock()
	f.ChatCalls++
	f.LastText = message
	f.LastHistory = append([]models.ChatMessage{}, history...)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// Calls returns the number of calls per operation
func (f *FakeAssistant) Calls() (breakdown, organize, chat int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.BreakdownCalls, f.OrganizeCalls, f.ChatCalls
}
