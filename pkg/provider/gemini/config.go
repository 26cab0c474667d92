package gemini

import "time"

// Config holds configuration for the Gemini client.
type Config struct {
	// BaseURL is the Generative Language API endpoint.
	// Defaults to the public endpoint when empty.
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// Model is the model name the handle is bound to. Required.
	Model string

	// Timeout is the per-request HTTP timeout. Defaults to 120s.
	Timeout time.Duration
}

// defaultBaseURL is the public Generative Language API endpoint.
const defaultBaseURL = "https://generativelanguage.googleapis.com"

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}
