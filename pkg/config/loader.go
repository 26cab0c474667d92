package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, MIMART_CONFIG env, ./config.yaml, /etc/mimart/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Vision and audio fall back to the default model when unset, so a
	// deployment that only names default_model still serves the image and
	// audio endpoints.
	if cfg.AI.VisionModel == "" {
		cfg.AI.VisionModel = cfg.AI.DefaultModel
	}
	if cfg.AI.AudioModel == "" {
		cfg.AI.AudioModel = cfg.AI.DefaultModel
	}

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. MIMART_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/mimart/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check MIMART_CONFIG env var.
	if envPath := os.Getenv("MIMART_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/mimart/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. MIMART_*
// variables take precedence over the legacy GEMINI_API_KEYS name kept for
// compatibility with existing deployments.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MIMART_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MIMART_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("MIMART_MODEL"); v != "" {
		cfg.AI.DefaultModel = v
	}
	if v := os.Getenv("MIMART_VISION_MODEL"); v != "" {
		cfg.AI.VisionModel = v
	}
	if v := os.Getenv("MIMART_AUDIO_MODEL"); v != "" {
		cfg.AI.AudioModel = v
	}
	if v := os.Getenv("MIMART_SEARCH_URL"); v != "" {
		cfg.Search.BaseURL = v
	}
	if v := os.Getenv("MIMART_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("MIMART_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}

	// Credential pool: MIMART_AI_KEYS wins, legacy GEMINI_API_KEYS is the
	// fallback. Both are comma-separated lists; blank entries are dropped.
	if v := os.Getenv("MIMART_AI_KEYS"); v != "" {
		cfg.AI.APIKeys = splitKeys(v)
	} else if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		cfg.AI.APIKeys = splitKeys(v)
	}
}

// splitKeys splits a comma-separated credential list, trimming whitespace
// and dropping empty entries.
func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read and the value field populated.
func resolveFileReferences(cfg *Config) error {
	// ai.api_keys_file -> ai.api_keys
	if cfg.AI.APIKeysFile != "" && len(cfg.AI.APIKeys) == 0 {
		val, err := readSecretFile(cfg.AI.APIKeysFile)
		if err != nil {
			return fmt.Errorf("ai.api_keys_file: %w", err)
		}
		// Keys may be newline- or comma-separated in the file.
		cfg.AI.APIKeys = splitKeys(strings.ReplaceAll(val, "\n", ","))
	}

	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
