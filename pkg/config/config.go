// Package config provides unified configuration for the MìMart storefront backend.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (MIMART_ prefix)
//  4. Backward-compatible env var mapping (GEMINI_API_KEYS)
//  5. File reference resolution (_file suffix fields)
//  6. Validation
package config

import "time"

// Config holds all configuration for the storefront backend.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	AI            AIConfig            `yaml:"ai"`
	Search        SearchConfig        `yaml:"search"`
	RAG           RAGConfig           `yaml:"rag"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 120s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MB (image uploads)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// AIConfig holds generative-AI backend settings. APIKeys is the rotation
// pool: every request shuffles the pool and tries keys in order until one
// succeeds. An empty pool is tolerated at load time (logged as a warning)
// and causes AI-backed endpoints to fail at first use.
type AIConfig struct {
	APIKeys      []string      `yaml:"api_keys"`
	APIKeysFile  string        `yaml:"api_keys_file"` // _file variant: one key per line or comma-separated
	BaseURL      string        `yaml:"base_url"`      // default: Google Generative Language API
	DefaultModel string        `yaml:"default_model"` // default: gemini-2.5-flash-lite
	VisionModel  string        `yaml:"vision_model"`  // default: same as default_model
	AudioModel   string        `yaml:"audio_model"`   // default: same as default_model
	Timeout      time.Duration `yaml:"timeout"`       // default: 120s
}

// SearchConfig holds web search adapter settings.
type SearchConfig struct {
	BaseURL    string        `yaml:"base_url"`    // default: https://html.duckduckgo.com
	MaxResults int           `yaml:"max_results"` // default: 5
	Timeout    time.Duration `yaml:"timeout"`     // default: 10s
}

// RAGConfig holds retrieval pipeline settings.
type RAGConfig struct {
	MaxContextLength int           `yaml:"max_context_length"` // default: 4000
	MaxSnippetLength int           `yaml:"max_snippet_length"` // default: 500
	MaxResults       int           `yaml:"max_results"`        // default: 3 pages per query
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`      // default: 5s per page
	TrustedDomains   []string      `yaml:"trusted_domains"`    // default: food-safety authorities
}

// StorageConfig holds cart persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory", "sqlite", or "postgres", default: "sqlite"
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"` // default: ./data/carts.db
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`

	// Debug enables category-based debug logging (comma-separated, or
	// "all"). The MIMART_DEBUG environment variable takes precedence.
	Debug string `yaml:"debug"`

	// LogLevel sets the slog level: ERROR, WARN, INFO, DEBUG, or TRACE.
	// The MIMART_LOG_LEVEL environment variable takes precedence.
	LogLevel string `yaml:"log_level"` // default: INFO
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DefaultTrustedDomains lists the food-safety authorities whose pages are
// preferentially ranked as citation sources.
var DefaultTrustedDomains = []string{
	"who.int",
	"food.gov.uk",
	"ratings.food.gov.uk",
	"gov.uk/government/organisations/food-standards-agency",
	"food.ec.europa.eu",
	"ec.europa.eu",
	"efsa.europa.eu",
	"europa.eu",
	"commission.europa.eu",
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			MaxBodySize:     10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		AI: AIConfig{
			BaseURL:      "https://generativelanguage.googleapis.com",
			DefaultModel: "gemini-2.5-flash-lite",
			Timeout:      120 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:    "https://html.duckduckgo.com",
			MaxResults: 5,
			Timeout:    10 * time.Second,
		},
		RAG: RAGConfig{
			MaxContextLength: 4000,
			MaxSnippetLength: 500,
			MaxResults:       3,
			FetchTimeout:     5 * time.Second,
			TrustedDomains:   DefaultTrustedDomains,
		},
		Storage: StorageConfig{
			Type: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/carts.db",
			},
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
			LogLevel: "INFO",
		},
	}
}
