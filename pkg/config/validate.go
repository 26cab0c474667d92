package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
//
// An empty AI credential pool is deliberately not a validation error: the
// service starts without keys (with a warning) and AI-backed endpoints fail
// at first use.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// server.max_body_size must be positive.
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	// ai.base_url is required.
	if c.AI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("ai.base_url is required"))
	}

	// ai.default_model is required.
	if c.AI.DefaultModel == "" {
		errs = append(errs, fmt.Errorf("ai.default_model is required"))
	}

	// search.max_results must be positive.
	if c.Search.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("search.max_results must be > 0, got %d", c.Search.MaxResults))
	}

	// rag limits must be positive.
	if c.RAG.MaxContextLength <= 0 {
		errs = append(errs, fmt.Errorf("rag.max_context_length must be > 0, got %d", c.RAG.MaxContextLength))
	}
	if c.RAG.MaxSnippetLength <= 0 {
		errs = append(errs, fmt.Errorf("rag.max_snippet_length must be > 0, got %d", c.RAG.MaxSnippetLength))
	}
	if c.RAG.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("rag.max_results must be > 0, got %d", c.RAG.MaxResults))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "sqlite", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\", \"sqlite\", or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "sqlite", a path must be set.
	if c.Storage.Type == "sqlite" && c.Storage.SQLite.Path == "" {
		errs = append(errs, fmt.Errorf("storage.sqlite.path is required when storage.type is \"sqlite\""))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	return errors.Join(errs...)
}
