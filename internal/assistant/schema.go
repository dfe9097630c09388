package assistant

// Part is a chunk of message content
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of the conversation sent to the API
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Schema is the subset of the API's OpenAPI-style schema we use
type Schema struct {
	Type       string            `json:"type"`
	Items      *Schema           `json:"items,omitempty"`
	Properties map[string]Schema `json:"properties,omitempty"`
	Required   []string          `json:"required,omitempty"`
	Enum       []string          `json:"enum,omitempty"`
}

// GenerationConfig asks for structured output when a schema is set
type GenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// GenerateRequest is the generateContent request body
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated answer
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// APIError is the error object the API returns on failure
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateResponse is the generateContent response body
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

// Text joins the parts of the first candidate
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var text string
	for _, p := range r.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}

var breakdownSchema = &Schema{
	Type: "ARRAY",
	Items: &Schema{
		Type: "OBJECT",
		Properties: map[string]Schema{
			"title":            {Type: "STRING"},
			"estimatedMinutes": {Type: "INTEGER"},
		},
		Required: []string{"title", "estimatedMinutes"},
	},
}

var organizeSchema = &Schema{
	Type: "ARRAY",
	Items: &Schema{
		Type: "OBJECT",
		Properties: map[string]Schema{
			"title":       {Type: "STRING"},
			"description": {Type: "STRING"},
			"priority":    {Type: "STRING", Enum: []string{"Low", "Medium", "High", "Critical"}},
		},
		Required: []string{"title", "priority"},
	},
}
