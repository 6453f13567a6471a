package analysis_test

import (
	"context"
	"errors"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

type stubProvider struct {
	name  string
	model string
	text  string
	err   error
	calls int
	seen  []ports.ProviderRequest
}

func (p *stubProvider) Name() string  { return p.name }
func (p *stubProvider) Model() string { return p.model }

func (p *stubProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	p.calls++
	p.seen = append(p.seen, req)
	if p.err != nil {
		return ports.ProviderResponse{}, p.err
	}
	return ports.ProviderResponse{Text: p.text}, nil
}

func failing(name, model string, category domain.ErrorCategory) *stubProvider {
	return &stubProvider{
		name:  name,
		model: model,
		err: &domain.ProviderError{
			Provider: name,
			Model:    model,
			Category: category,
			Err:      errors.New(string(category) + " failure"),
		},
	}
}

type stubConfig struct {
	cfg domain.Config
	err error
}

func (c stubConfig) Load(context.Context) (domain.Config, error) { return c.cfg, c.err }

type stubLister struct {
	models []ports.ModelInfo
	err    error
}

func (l stubLister) ListModels(context.Context) ([]ports.ModelInfo, error) { return l.models, l.err }

type stubFactory struct {
	chain   []ports.Provider
	direct  map[string]*stubProvider
	lister  stubLister
	chained int
}

func (f *stubFactory) Chain(domain.Config) ([]ports.Provider, error) {
	f.chained++
	return f.chain, nil
}

func (f *stubFactory) Direct(_ domain.Config, model string) ports.Provider {
	if p, ok := f.direct[model]; ok {
		return p
	}
	return failing("rest", model, domain.CategoryUnknown)
}

func (f *stubFactory) Lister(domain.Config) ports.ModelLister { return f.lister }

type stubRecorder struct {
	inputs []domain.HistoryEntryInput
	err    error
}

func (r *stubRecorder) Insert(input domain.HistoryEntryInput) (string, error) {
	r.inputs = append(r.inputs, input)
	if r.err != nil {
		return "", r.err
	}
	return "entry-1", nil
}

type countingMetrics struct {
	attempts []error
	analyses []error
}

func (m *countingMetrics) ObserveAttempt(_, _ string, err error)    { m.attempts = append(m.attempts, err) }
func (m *countingMetrics) ObserveAnalysis(_ domain.Mode, err error) { m.analyses = append(m.analyses, err) }
func (m *countingMetrics) SetHistorySize(int)                       {}

func testConfig() domain.Config {
	return domain.Config{
		API: domain.APISettings{
			APIKey:         "test-key",
			PrimaryModel:   "gemini-1.5-flash",
			FallbackModels: []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
		},
		Generation: domain.GenerationConfig{
			Temperature:     domain.DefaultTemperature,
			TopK:            domain.DefaultTopK,
			TopP:            domain.DefaultTopP,
			MaxOutputTokens: domain.DefaultMaxOutputTokens,
		},
	}
}
