// Package assistant talks to the generative-language service that breaks
// projects into steps, organizes brain dumps and answers chat messages.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/tgienger/focusflow/internal/models"
)

var (
	// ErrMissingAPIKey is returned at call time when no credential is configured
	ErrMissingAPIKey = errors.New("assistant API key not set")
	// ErrRequestFailed covers transport failures and non-2xx responses
	ErrRequestFailed = errors.New("assistant request failed")
	// ErrInvalidResponse means the reply did not match the requested schema
	ErrInvalidResponse = errors.New("invalid assistant response")
)

// Step is one item of a project breakdown
type Step struct {
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// Suggestion is one task extracted from a brain dump
type Suggestion struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    models.Priority `json:"priority"`
}

// Assistant is the boundary the rest of the app depends on. Implementations
// make one attempt per call and never retry.
type Assistant interface {
	// Breakdown splits a large task into small timed steps
	Breakdown(ctx context.Context, title, description string) ([]Step, error)
	// Organize extracts prioritized tasks from free text
	Organize(ctx context.Context, text string) ([]Suggestion, error)
	// Chat answers message given the prior conversation
	Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// ResponseError describes a reply that parsed but broke the schema
type ResponseError struct {
	Op     string
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrInvalidResponse, e.Reason)
}

// Is lets errors.Is match ErrInvalidResponse
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}
