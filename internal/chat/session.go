// Package chat keeps the assistant conversation for one run of the app.
package chat

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tgienger/focusflow/internal/assistant"
	"github.com/tgienger/focusflow/internal/models"
)

const (
	Welcome    = "Hi. I'm here to help you untangle your thoughts. What's stuck right now?"
	Fallback   = "I'm having trouble connecting right now. Let's take a deep breath and try again in a moment."
	EmptyReply = "I'm listening."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoPending    = errors.New("no message awaiting a reply")
)

// Session is an append-only transcript plus the assistant that answers it
type Session struct {
	mu        sync.Mutex
	assistant assistant.Assistant
	messages  []models.ChatMessage
	now       func() time.Time
	nextID    int
}

// NewSession starts a conversation with the welcome message
func NewSession(a assistant.Assistant) *Session {
	s := &Session{assistant: a, now: time.Now}
	s.appendLocked(models.RoleAssistant, Welcome)
	return s
}

func (s *Session) appendLocked(role models.Role, text string) models.ChatMessage {
	s.nextID++
	m := models.ChatMessage{
		ID:        strconv.Itoa(s.nextID),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, m)
	return m
}

// Post appends a user message without asking for a reply
func (s *Session) Post(text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(models.RoleUser, text), nil
}

// Reply answers the latest user message. On failure the fallback text is
// appended and the error is still returned. A cancelled call withdraws the
// unanswered user message and returns it with the error, so the next Reply
// never sends two user turns in a row.
func (s *Session) Reply(ctx context.Context) (models.ChatMessage, error) {
	s.mu.Lock()
	n := len(s.messages)
	if n == 0 || s.messages[n-1].Role != models.RoleUser {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrNoPending
	}
	history := append([]models.ChatMessage{}, s.messages[:n-1]...)
	pending := s.messages[n-1]
	s.mu.Unlock()

	text, err := s.assistant.Chat(ctx, history, pending.Text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(err, context.Canceled) {
		s.removeLocked(pending.ID)
		return pending, err
	}
	if err != nil {
		return s.appendLocked(models.RoleAssistant, Fallback), err
	}
	if strings.TrimSpace(text) == "" {
		text = EmptyReply
	}
	return s.appendLocked(models.RoleAssistant, text), nil
}

func (s *Session) removeLocked(id string) {
	s.messages = slices.DeleteFunc(s.messages, func(m models.ChatMessage) bool { return m.ID == id })
}

// Send posts text and waits for the reply
func (s *Session) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	if _, err := s.Post(text); err != nil {
		return models.ChatMessage{}, err
	}
	return s.Reply(ctx)
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.messages...)
}
