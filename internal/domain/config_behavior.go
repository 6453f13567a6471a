package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ModelChain returns the primary model followed by the REST fallbacks.
func (c *Config) ModelChain() []string {
	chain := make([]string, 0, 1+len(c.API.FallbackModels))
	chain = append(chain, c.GetPrimaryModel())
	chain = append(chain, c.GetFallbackModels()...)
	return chain
}

// GetPrimaryModel returns the SDK model, falling back to the default.
func (c *Config) GetPrimaryModel() string {
	if strings.TrimSpace(c.API.PrimaryModel) == "" {
		return DefaultPrimaryModel
	}
	return c.API.PrimaryModel
}

// GetFallbackModels returns the configured fallback list with blanks removed.
func (c *Config) GetFallbackModels() []string {
	var models []string
	for _, model := range c.API.FallbackModels {
		if model = strings.TrimSpace(model); model != "" {
			models = append(models, model)
		}
	}
	return models
}

// ConnectionTestModel is the model used by the connectivity self-check: the
// first fallback, or the primary model when no fallback is configured.
func (c *Config) ConnectionTestModel() string {
	if fallbacks := c.GetFallbackModels(); len(fallbacks) > 0 {
		return fallbacks[0]
	}
	return c.GetPrimaryModel()
}

// SetPrimaryModel changes the model used by the SDK path.
func (c *Config) SetPrimaryModel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("primary model name cannot be empty")
	}
	c.API.PrimaryModel = name
	return nil
}

// AddFallbackModel appends a model to the fallback chain.
// Returns an error if the model is already in the chain.
func (c *Config) AddFallbackModel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("fallback model name cannot be empty")
	}
	if slices.Contains(c.API.FallbackModels, name) {
		return fmt.Errorf("fallback model %s already configured", name)
	}
	c.API.FallbackModels = append(c.API.FallbackModels, name)
	return nil
}

// RemoveFallbackModel removes a model from the fallback chain.
func (c *Config) RemoveFallbackModel(name string) error {
	idx := slices.Index(c.API.FallbackModels, name)
	if idx == -1 {
		return fmt.Errorf("fallback model %s not found", name)
	}
	c.API.FallbackModels = slices.Delete(c.API.FallbackModels, idx, idx+1)
	return nil
}

// HasAPIKey reports whether a credential was resolved at startup.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.API.APIKey) != ""
}

// GetKeyEnvVar returns the environment variable holding the API key.
func (c *Config) GetKeyEnvVar() string {
	if c.API.KeyEnvVar == "" {
		return DefaultAPIKeyEnvVar
	}
	return c.API.KeyEnvVar
}

// GetBaseURL returns the REST base URL without a trailing slash.
func (c *Config) GetBaseURL() string {
	if c.API.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.API.BaseURL, "/")
}

// GetTimeout returns the HTTP client timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return DefaultHTTPClientTimeout
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// GetHistoryLimit returns the history retention cap.
func (c *Config) GetHistoryLimit() int {
	if c.Storage.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return c.Storage.HistoryLimit
}

// GetStorageBackend returns the key-value backend name.
func (c *Config) GetStorageBackend() string {
	if c.Storage.Backend == "" {
		return StorageBackendSQLite
	}
	return strings.ToLower(c.Storage.Backend)
}

// GetServerAddr returns the listen address of the HTTP API.
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	switch c.GetStorageBackend() {
	case StorageBackendSQLite, StorageBackendFile:
	default:
		return fmt.Errorf("storage.backend must be %s|%s, got %s", StorageBackendSQLite, StorageBackendFile, c.Storage.Backend)
	}
	if c.Storage.HistoryKey != "" && c.Storage.HistoryKey == c.Storage.ThemeKey {
		return fmt.Errorf("storage.history_key and storage.theme_key must differ")
	}
	if c.Defaults.Mode != "" && !c.Defaults.Mode.Valid() {
		return fmt.Errorf("defaults.mode %q: %w", c.Defaults.Mode, ErrInvalidMode)
	}
	if c.Defaults.Difficulty != "" {
		if _, err := ParseDifficulty(string(c.Defaults.Difficulty)); err != nil {
			return fmt.Errorf("defaults.difficulty: %w", err)
		}
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2]")
	}
	if c.Generation.TopP < 0 || c.Generation.TopP > 1 {
		return fmt.Errorf("generation.top_p must be within [0, 1]")
	}
	if c.Generation.MaxOutputTokens < 0 {
		return fmt.Errorf("generation.max_output_tokens must be >= 0")
	}
	return nil
}
