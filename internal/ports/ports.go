// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The analysis and history services depend only on these
// interfaces, so the Gemini clients, the storage backends and the presentation
// surfaces (CLI, HTTP API) can be swapped or stubbed in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, KeyValueStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"io"

	"github.com/doeshing/guruji/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.guruji/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider is one callable generation path bound to a single model.
// The analysis service chains several of them: the SDK path first, then REST fallbacks.
type Provider interface {
	Name() string
	Model() string
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest contains all data needed to generate a response.
type ProviderRequest struct {
	Prompt     string
	Generation domain.GenerationConfig
}

// ProviderResponse carries the generated text and the path that produced it.
type ProviderResponse struct {
	Text     string
	Model    string
	Provider string
}

// ProviderFactory builds the ordered provider chain used by the analysis service,
// plus the single-model REST path and the models listing used by the self-check.
type ProviderFactory interface {
	Chain(domain.Config) ([]Provider, error)
	Direct(domain.Config, string) Provider
	Lister(domain.Config) ModelLister
}

// ModelInfo is a single entry of the models-listing endpoint.
type ModelInfo struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName,omitempty"`
	Description      string   `json:"description,omitempty"`
	InputTokenLimit  int      `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int      `json:"outputTokenLimit,omitempty"`
	Methods          []string `json:"supportedGenerationMethods,omitempty"`
}

// ModelLister queries the models available to the configured key.
type ModelLister interface {
	ListModels(context.Context) ([]ModelInfo, error)
}

// KeyValueStore is the local persistent key-value collaborator.
// Get reports ok=false for an absent key.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// HistoryRecorder receives successful analyses.
type HistoryRecorder interface {
	Insert(domain.HistoryEntryInput) (string, error)
}

// HistoryRepository is the full History Store surface used by presentation layers.
type HistoryRepository interface {
	HistoryRecorder
	List() []domain.HistoryEntry
	Search(term string) []domain.HistoryEntry
	Get(id string) (domain.HistoryEntry, bool)
	Delete(id string) error
	Clear() error
	Export(w io.Writer) error
	Import(r io.Reader) (int, error)
}

// ThemeRepository persists the light/dark preference.
type ThemeRepository interface {
	Theme() domain.Theme
	SetTheme(domain.Theme) error
	ToggleTheme() domain.Theme
}

// MetricsRecorder observes generation attempts and analyses.
type MetricsRecorder interface {
	ObserveAttempt(provider, model string, err error)
	ObserveAnalysis(mode domain.Mode, err error)
	SetHistorySize(n int)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
