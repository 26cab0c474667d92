package provider

import "context"

// Client is a model handle bound to one credential and one model name.
// The credential rotator constructs a fresh Client per attempt via a Factory.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Client interface {
	// Model returns the model name this handle is bound to.
	Model() string

	// GenerateContent performs one non-streaming multimodal generation call.
	GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Close releases client resources.
	Close() error
}

// Factory constructs a Client bound to the given credential and model.
// Returns an error if the configuration is invalid.
type Factory func(apiKey, model string) (Client, error)

// Part is one piece of a message: text or an inline base64 blob (image, audio).
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob is inline binary content, base64-encoded.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Message is one conversation turn in provider format.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds sampling parameters for a generation call.
// Nil pointer fields are omitted and left to backend defaults.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// SafetySetting adjusts one of the backend's content filters.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GenerateRequest is the backend-facing generation request.
type GenerateRequest struct {
	Messages         []Message        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
	SafetySettings   []SafetySetting  `json:"safetySettings,omitempty"`
}

// GenerateResponse is the backend's complete generation response.
type GenerateResponse struct {
	// Text is the concatenated text of the first candidate.
	Text string

	// Model is the model that produced the response.
	Model string
}

// TextMessage builds a single-part user message, the common case for
// text-only prompts.
func TextMessage(role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

// Float64 returns a pointer to v, for optional sampling parameters.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional sampling parameters.
func Int(v int) *int { return &v }
