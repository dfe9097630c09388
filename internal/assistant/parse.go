package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tgienger/focusflow/internal/models"
)

// rawStep and rawSuggestion mirror the schema with pointers so missing
// fields can be told apart from zero values.
type rawStep struct {
	Title            *string      `json:"title"`
	EstimatedMinutes *json.Number `json:"estimatedMinutes"`
}

type rawSuggestion struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// parseSteps validates a breakdown reply. Blank text means no steps.
func parseSteps(text string) ([]Step, error) {
	if strings.TrimSpace(text) == "" {
		return []Step{}, nil
	}

	var raw []rawStep
	if err := decodeArray(text, &raw); err != nil {
		return nil, &ResponseError{Op: "breakdown", Reason: err.Error()}
	}

	steps := make([]Step, 0, len(raw))
	for i, r := range raw {
		if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
			return nil, &ResponseError{Op: "breakdown", Reason: fmt.Sprintf("step %d missing title", i+1)}
		}
		if r.EstimatedMinutes == nil {
			return nil, &ResponseError{Op: "breakdown", Reason: fmt.Sprintf("step %d missing estimatedMinutes", i+1)}
		}
		minutes, err := wholeNumber(*r.EstimatedMinutes)
		if err != nil || minutes <= 0 {
			return nil, &ResponseError{Op: "breakdown", Reason: fmt.Sprintf("step %d estimatedMinutes %q is not a positive integer", i+1, r.EstimatedMinutes.String())}
		}
		steps = append(steps, Step{Title: strings.TrimSpace(*r.Title), EstimatedMinutes: minutes})
	}
	return steps, nil
}

// parseSuggestions validates an organize reply. Blank text means no tasks.
func parseSuggestions(text string) ([]Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return []Suggestion{}, nil
	}

	var raw []rawSuggestion
	if err := decodeArray(text, &raw); err != nil {
		return nil, &ResponseError{Op: "organize", Reason: err.Error()}
	}

	suggestions := make([]Suggestion, 0, len(raw))
	for i, r := range raw {
		if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
			return nil, &ResponseError{Op: "organize", Reason: fmt.Sprintf("task %d missing title", i+1)}
		}
		if r.Priority == nil {
			return nil, &ResponseError{Op: "organize", Reason: fmt.Sprintf("task %d missing priority", i+1)}
		}
		priority, err := models.ParsePriority(*r.Priority)
		if err != nil {
			return nil, &ResponseError{Op: "organize", Reason: fmt.Sprintf("task %d: %v", i+1, err)}
		}
		s := Suggestion{Title: strings.TrimSpace(*r.Title), Priority: priority}
		if r.Description != nil {
			s.Description = strings.TrimSpace(*r.Description)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

func wholeNumber(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New("not a whole number")
	}
	return int(f), nil
}

func decodeArray(text string, v any) error {
	data, err := extractJSONArray(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// extractJSONArray pulls a JSON array out of replies that may be wrapped in
// markdown fences or surrounded by prose.
func extractJSONArray(text string) ([]byte, error) {
	str := stripMarkdownCodeBlocks(text)

	if json.Valid([]byte(str)) {
		if !strings.HasPrefix(str, "[") {
			return nil, errors.New("expected a JSON array")
		}
		return []byte(str), nil
	}

	// Fall back to the outermost brackets
	start := strings.Index(str, "[")
	end := strings.LastIndex(str, "]")
	if start == -1 || end == -1 || start >= end {
		return nil, errors.New("no JSON array found in response")
	}

	extracted := str[start : end+1]
	if !json.Valid([]byte(extracted)) {
		return nil, errors.New("extracted content is not valid JSON")
	}
	return []byte(extracted), nil
}

// stripMarkdownCodeBlocks removes ``` fences around a reply
func stripMarkdownCodeBlocks(s string) string {
	s = strings.TrimSpace(s)
	if cut, found := strings.CutPrefix(s, "```json"); found {
		s = cut
	} else if cut, found := strings.CutPrefix(s, "```"); found {
		s = cut
	}
	if cut, found := strings.CutSuffix(s, "```"); found {
		s = cut
	}
	return strings.TrimSpace(s)
}
