// Package ai contains the Gemini generation adapters: the SDK path built on
// google.golang.org/genai, the direct REST path, and the models listing.
package ai

import (
	"net/http"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// Factory builds providers from configuration.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a Factory. A nil client means one per configuration,
// using the configured timeout.
func NewFactory(client *http.Client) *Factory {
	return &Factory{httpClient: client}
}

// Chain returns the SDK provider for the primary model followed by one REST
// provider per fallback model, in configured order.
func (f *Factory) Chain(cfg domain.Config) ([]ports.Provider, error) {
	if !cfg.HasAPIKey() {
		return nil, domain.ErrMissingCredential
	}
	client := f.client(cfg)
	baseURL := cfg.GetBaseURL()
	fallbacks := cfg.GetFallbackModels()

	providers := make([]ports.Provider, 0, 1+len(fallbacks))
	providers = append(providers, NewGenAIProvider(baseURL, cfg.API.APIKey, cfg.GetPrimaryModel(), client))
	for _, model := range fallbacks {
		providers = append(providers, NewRESTProvider(baseURL, cfg.API.APIKey, model, client))
	}
	return providers, nil
}

// Direct returns the REST provider for a single model.
func (f *Factory) Direct(cfg domain.Config, model string) ports.Provider {
	return NewRESTProvider(cfg.GetBaseURL(), cfg.API.APIKey, model, f.client(cfg))
}

// Lister returns the models endpoint client.
func (f *Factory) Lister(cfg domain.Config) ports.ModelLister {
	return NewModelLister(cfg.GetBaseURL(), cfg.API.APIKey, f.client(cfg))
}

func (f *Factory) client(cfg domain.Config) *http.Client {
	if f.httpClient != nil {
		return f.httpClient
	}
	return &http.Client{Timeout: cfg.GetTimeout()}
}
