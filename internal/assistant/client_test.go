package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/focusflow/internal/models"
)

// replyWith builds a generateContent response body carrying text
func replyWith(text string) string {
	body, _ := json.Marshal(GenerateResponse{
		Candidates: []Candidate{{Content: Content{Role: "model", Parts: []Part{{Text: text}}}}},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "  key  ", BaseURL: "http://example.com/"})
	if c.apiKey != "key" {
		t.Errorf("expected trimmed key, got %q", c.apiKey)
	}
	if c.model != DefaultModel {
		t.Errorf("expected default model, got %q", c.model)
	}
	if c.baseURL != "http://example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", c.baseURL)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", c.timeout)
	}
}

func TestBreakdownRequest(t *testing.T) {
	var got GenerateRequest
	var path, key string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(replyWith(`[{"title":"Buy paint","estimatedMinutes":20}]`)))
	})

	steps, err := c.Breakdown(context.Background(), "Paint the fence", "white")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("unexpected path %q", path)
	}
	if key != "test-key" {
		t.Errorf("expected api key header, got %q", key)
	}
	if got.GenerationConfig == nil || got.GenerationConfig.ResponseSchema == nil {
		t.Fatal("expected a response schema in the request")
	}
	if got.GenerationConfig.ResponseSchema.Type != "ARRAY" {
		t.Errorf("expected ARRAY schema, got %q", got.GenerationConfig.ResponseSchema.Type)
	}
	if got.SystemInstruction == nil {
		t.Error("expected a system instruction")
	}
	if len(got.Contents) != 1 || !strings.Contains(got.Contents[0].Parts[0].Text, "Paint the fence") {
		t.Errorf("expected prompt to mention the title, got %+v", got.Contents)
	}

	if len(steps) != 1 || steps[0].Title != "Buy paint" || steps[0].EstimatedMinutes != 20 {
		t.Errorf("unexpected steps %+v", steps)
	}
}

func TestBreakdownResponses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantSteps int
		wantErr   error
	}{
		{
			name:      "empty text",
			status:    http.StatusOK,
			body:      replyWith(""),
			wantSteps: 0,
		},
		{
			name:      "no candidates",
			status:    http.StatusOK,
			body:      `{"candidates":[]}`,
			wantSteps: 0,
		},
		{
			name:      "fenced reply",
			status:    http.StatusOK,
			body:      replyWith("```json\n[{\"title\":\"a\",\"estimatedMinutes\":15},{\"title\":\"b\",\"estimatedMinutes\":30}]\n```"),
			wantSteps: 2,
		},
		{
			name:    "schema violation",
			status:  http.StatusOK,
			body:    replyWith(`[{"title":"a"}]`),
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "body is not json",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "server error with api error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"code":500,"message":"backend down","status":"INTERNAL"}}`,
			wantErr: ErrRequestFailed,
		},
		{
			name:    "rate limited without body",
			status:  http.StatusTooManyRequests,
			body:    ``,
			wantErr: ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			steps, err := c.Breakdown(context.Background(), "title", "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if steps == nil {
				t.Fatal("expected an empty slice, not nil")
			}
			if len(steps) != tt.wantSteps {
				t.Errorf("expected %d steps, got %d", tt.wantSteps, len(steps))
			}
		})
	}
}

func TestServerErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	})

	_, err := c.Organize(context.Background(), "stuff")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected server message in error, got %q", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "organize: ") {
		t.Errorf("expected operation prefix, got %q", err.Error())
	}
}

func TestMissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ctx := context.Background()

	if _, err := c.Breakdown(ctx, "t", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Breakdown: expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := c.Organize(ctx, "t"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Organize: expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := c.Chat(ctx, nil, "hi"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Chat: expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Error("expected no request without an API key")
	}
}

func TestOrganize(t *testing.T) {
	var got GenerateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(replyWith(`[{"title":"Call mom","priority":"High"},{"title":"Buy milk","priority":"Low","description":"2%"}]`)))
	})

	suggestions, err := c.Organize(context.Background(), "call mom; buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Priority != models.PriorityHigh || suggestions[1].Priority != models.PriorityLow {
		t.Errorf("unexpected priorities %+v", suggestions)
	}
	if suggestions[1].Description != "2%" {
		t.Errorf("expected description kept, got %q", suggestions[1].Description)
	}

	schema := got.GenerationConfig.ResponseSchema
	if schema == nil || schema.Items == nil {
		t.Fatal("expected an item schema")
	}
	if enum := schema.Items.Properties["priority"].Enum; len(enum) != 4 {
		t.Errorf("expected 4 priority values, got %v", enum)
	}
}

func TestOrganizeRejectsUnknownPriority(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(replyWith(`[{"title":"a","priority":"Whenever"}]`)))
	})

	_, err := c.Organize(context.Background(), "a")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestChat(t *testing.T) {
	var got GenerateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(replyWith("  Try the smallest step first.\n")))
	})

	history := []models.ChatMessage{
		{ID: "1", Role: models.RoleAssistant, Text: "Hi"},
		{ID: "2", Role: models.RoleUser, Text: "I'm stuck"},
		{ID: "3", Role: models.RoleAssistant, Text: "On what?"},
	}

	reply, err := c.Chat(context.Background(), history, "The report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Try the smallest step first." {
		t.Errorf("expected trimmed reply, got %q", reply)
	}

	wantRoles := []string{"model", "user", "model", "user"}
	if len(got.Contents) != len(wantRoles) {
		t.Fatalf("expected %d contents, got %d", len(wantRoles), len(got.Contents))
	}
	for i, role := range wantRoles {
		if got.Contents[i].Role != role {
			t.Errorf("content %d: expected role %q, got %q", i, role, got.Contents[i].Role)
		}
	}
	if got.Contents[3].Parts[0].Text != "The report" {
		t.Errorf("expected new message last, got %q", got.Contents[3].Parts[0].Text)
	}
	if got.GenerationConfig != nil {
		t.Error("chat should not request structured output")
	}
}

func TestChatEmptyReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(replyWith("")))
	})

	reply, err := c.Chat(context.Background(), nil, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "" {
		t.Errorf("expected empty reply, got %q", reply)
	}
}

func TestCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Breakdown(ctx, "t", "")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Chat(context.Background(), nil, "hi")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout in message, got %q", err.Error())
	}
}
