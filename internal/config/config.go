// Package config provides configuration loading and validation for the
// jobmatch service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds service configuration. Values come from the environment, with
// an optional JSON file for overrides; missing values use defaults.
type Config struct {
	Port           int    `json:"port,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty"`
	APIKey         string `json:"api_key,omitempty"`
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// Matching defaults used when a request does not specify them.
	MatchLimit    int     `json:"match_limit,omitempty"`
	MinMatchScore float64 `json:"min_match_score,omitempty"`

	// Logging
	JSONLogs bool `json:"json_logs,omitempty"`
	Debug    bool `json:"debug,omitempty"`
}

// Defaults for matching parameters, mirroring the API's documented behavior.
const (
	DefaultPort          = 8080
	DefaultMatchLimit    = 20
	DefaultMinMatchScore = 0.6
)

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           DefaultPort,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),
		MatchLimit:     DefaultMatchLimit,
		MinMatchScore:  DefaultMinMatchScore,
		JSONLogs:       os.Getenv("JSON_LOGS") == "true",
		Debug:          os.Getenv("DEBUG") == "true",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// LoadFile merges a JSON config file over the receiver. Zero values in the
// file leave the existing value untouched.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if file.Port != 0 {
		c.Port = file.Port
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
	}
	if file.APIKey != "" {
		c.APIKey = file.APIKey
	}
	if file.EmbeddingModel != "" {
		c.EmbeddingModel = file.EmbeddingModel
	}
	if file.MatchLimit != 0 {
		c.MatchLimit = file.MatchLimit
	}
	if file.MinMatchScore != 0 {
		c.MinMatchScore = file.MinMatchScore
	}
	if file.JSONLogs {
		c.JSONLogs = true
	}
	if file.Debug {
		c.Debug = true
	}

	return nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: database URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("config error: API key is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	if c.MatchLimit < 1 {
		return fmt.Errorf("config error: match limit must be positive")
	}
	if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
		return fmt.Errorf("config error: min match score must be in [0.0, 1.0]")
	}
	return nil
}
