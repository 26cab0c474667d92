// Package gemini implements provider.Client against the Google Generative
// Language REST API (generateContent).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/debug"
	"github.com/mimart/storefront/pkg/provider"
)

// Client is a Gemini model handle bound to one API key and one model name.
type Client struct {
	cfg    Config
	client *http.Client
}

// Ensure Client implements provider.Client at compile time.
var _ provider.Client = (*Client)(nil)

// New creates a new Gemini client with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: APIKey is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini: Model is required")
	}

	cfg.defaults()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Factory returns a provider.Factory that binds clients to the given
// endpoint and timeout. The credential rotator calls it once per attempt.
func Factory(baseURL string, timeout time.Duration) provider.Factory {
	return func(apiKey, model string) (provider.Client, error) {
		return New(Config{
			BaseURL: baseURL,
			APIKey:  apiKey,
			Model:   model,
			Timeout: timeout,
		})
	}
}

// Model returns the model name this handle is bound to.
func (c *Client) Model() string {
	return c.cfg.Model
}

// GenerateContent performs one non-streaming generation call against the
// generateContent endpoint. Backend failures are mapped to structured
// APIError values; a response blocked by the backend's safety filters is
// surfaced as a model error.
func (c *Client) GenerateContent(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	wireReq := generateContentRequest{
		Contents:       req.Messages,
		SafetySettings: req.SafetySettings,
	}
	if req.GenerationConfig != (provider.GenerationConfig{}) {
		cfg := req.GenerationConfig
		wireReq.GenerationConfig = &cfg
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	debug.Log("provider", "generate request", "model", c.cfg.Model, "bytes", len(body))
	debug.Raw("provider", string(body))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	// The key travels in a header rather than the query string so it never
	// shows up in access logs.
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var wireResp generateContentResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&wireResp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	if wireResp.PromptFeedback != nil && wireResp.PromptFeedback.BlockReason != "" {
		return nil, api.NewModelError(fmt.Sprintf("response blocked by backend (reason: %s)", wireResp.PromptFeedback.BlockReason))
	}

	if len(wireResp.Candidates) == 0 {
		return nil, api.NewModelError("backend returned no candidates")
	}

	var text strings.Builder
	for _, part := range wireResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	debug.Log("provider", "generate response", "model", c.cfg.Model, "chars", text.Len())

	model := wireResp.ModelVersion
	if model == "" {
		model = c.cfg.Model
	}

	return &provider.GenerateResponse{
		Text:  text.String(),
		Model: model,
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
