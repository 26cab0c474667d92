package gemini

import "github.com/mimart/storefront/pkg/provider"

// generateContentRequest is the wire format of a generateContent call.
// provider.Message and provider.Part already carry the correct JSON tags,
// so the request embeds them directly.
type generateContentRequest struct {
	Contents         []provider.Message         `json:"contents"`
	GenerationConfig *provider.GenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []provider.SafetySetting   `json:"safetySettings,omitempty"`
}

// generateContentResponse is the wire format of a generateContent response.
type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

type candidate struct {
	Content      candidateContent `json:"content"`
	FinishReason string           `json:"finishReason,omitempty"`
}

type candidateContent struct {
	Role  string          `json:"role"`
	Parts []candidatePart `json:"parts"`
}

type candidatePart struct {
	Text string `json:"text,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// errorResponse is the wire format of a backend error body.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
