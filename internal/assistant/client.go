package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tgienger/focusflow/internal/models"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	// DefaultTimeout applies when the caller's context has no deadline
	DefaultTimeout = 60 * time.Second
)

// Config holds the client settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Gemini generateContent endpoint
type Client struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client. A missing API key is not an error here; every
// call fails with ErrMissingAPIKey instead.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    &http.Client{},
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

// WithHTTPClient swaps the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Breakdown implements Assistant
func (c *Client) Breakdown(ctx context.Context, title, description string) ([]Step, error) {
	req := GenerateRequest{
		Contents:          []Content{userContent(buildBreakdownPrompt(title, description))},
		SystemInstruction: &Content{Parts: []Part{{Text: breakdownInstruction}}},
		GenerationConfig: &GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   breakdownSchema,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("breakdown: %w", err)
	}
	return parseSteps(text)
}

// Organize implements Assistant
func (c *Client) Organize(ctx context.Context, text string) ([]Suggestion, error) {
	req := GenerateRequest{
		Contents: []Content{userContent(buildOrganizePrompt(text))},
		GenerationConfig: &GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   organizeSchema,
		},
	}

	reply, err := c.generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("organize: %w", err)
	}
	return parseSuggestions(reply)
}

// Chat implements Assistant
func (c *Client) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	contents := make([]Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, Content{Role: wireRole(m.Role), Parts: []Part{{Text: m.Text}}})
	}
	contents = append(contents, userContent(message))

	req := GenerateRequest{
		Contents:          contents,
		SystemInstruction: &Content{Parts: []Part{{Text: chatInstruction}}},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// generate sends one request and returns the text of the first candidate
func (c *Client) generate(ctx context.Context, body GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	// Apply default timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out", ErrRequestFailed)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("%w: %w", ErrRequestFailed, context.Canceled)
		}
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	var out GenerateResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("%w: %d %s: %s", ErrRequestFailed, resp.StatusCode, out.Error.Status, out.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", &ResponseError{Op: "generate", Reason: decodeErr.Error()}
	}
	return out.Text(), nil
}

func userContent(text string) Content {
	return Content{Role: "user", Parts: []Part{{Text: text}}}
}

// wireRole maps our roles onto the API's user/model pair
func wireRole(r models.Role) string {
	if r == models.RoleUser {
		return "user"
	}
	return "model"
}
