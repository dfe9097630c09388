package assistant

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tgienger/focusflow/internal/models"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "clean array",
			input: `[{"title":"a"}]`,
			want:  `[{"title":"a"}]`,
		},
		{
			name:  "markdown-wrapped array",
			input: "```json\n" + `[{"title":"a"}]` + "\n```",
			want:  `[{"title":"a"}]`,
		},
		{
			name:  "bare fences",
			input: "```\n[]\n```",
			want:  `[]`,
		},
		{
			name:  "leading and trailing prose",
			input: `Sure! Here you go: [{"title":"a"}] Good luck.`,
			want:  `[{"title":"a"}]`,
		},
		{
			name:    "object instead of array",
			input:   `{"title":"a"}`,
			wantErr: true,
		},
		{
			name:    "truncated array",
			input:   `[{"title":"a"}`,
			wantErr: true,
		},
		{
			name:    "plain text",
			input:   `I could not help with that`,
			wantErr: true,
		},
		{
			name:    "brackets without JSON",
			input:   `[not json]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONArray(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSONArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("extractJSONArray() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Step
		wantErr bool
	}{
		{
			name:  "valid steps",
			input: `[{"title":"Buy paint","estimatedMinutes":20},{"title":" Sand boards ","estimatedMinutes":45}]`,
			want:  []Step{{"Buy paint", 20}, {"Sand boards", 45}},
		},
		{
			name:  "whole float minutes",
			input: `[{"title":"Buy paint","estimatedMinutes":20.0}]`,
			want:  []Step{{"Buy paint", 20}},
		},
		{
			name:  "empty text",
			input: "  ",
			want:  []Step{},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Step{},
		},
		{name: "missing title", input: `[{"estimatedMinutes":20}]`, wantErr: true},
		{name: "blank title", input: `[{"title":"","estimatedMinutes":20}]`, wantErr: true},
		{name: "missing minutes", input: `[{"title":"a"}]`, wantErr: true},
		{name: "zero minutes", input: `[{"title":"a","estimatedMinutes":0}]`, wantErr: true},
		{name: "fractional minutes", input: `[{"title":"a","estimatedMinutes":12.5}]`, wantErr: true},
		{name: "wrong type", input: `[{"title":3,"estimatedMinutes":10}]`, wantErr: true},
		{name: "not json", input: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResponse) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				var respErr *ResponseError
				if !errors.As(err, &respErr) || respErr.Op != "breakdown" {
					t.Errorf("expected breakdown ResponseError, got %T %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSteps() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Suggestion
		wantErr bool
	}{
		{
			name:  "with and without description",
			input: `[{"title":"Call mom","priority":"High","description":"Birthday"},{"title":"Buy milk","priority":"low"}]`,
			want: []Suggestion{
				{Title: "Call mom", Description: "Birthday", Priority: models.PriorityHigh},
				{Title: "Buy milk", Priority: models.PriorityLow},
			},
		},
		{name: "empty text", input: "", want: []Suggestion{}},
		{name: "priority outside enum", input: `[{"title":"a","priority":"Urgent"}]`, wantErr: true},
		{name: "missing priority", input: `[{"title":"a"}]`, wantErr: true},
		{name: "missing title", input: `[{"priority":"Low"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestions(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResponse) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSuggestions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
