// Package analysis runs code analyses against the generation chain and records
// successful results in history.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// Service orchestrates a single analysis end-to-end.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	Recorder        ports.HistoryRecorder
	Metrics         ports.MetricsRecorder
	Logger          ports.Logger
}

// Analyze validates req, renders its prompt and walks the provider chain.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if err := s.ready(); err != nil {
		return domain.AnalysisResult{}, err
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("load config: %w", err)
	}

	req, err = normalize(cfg, req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	providers, err := s.ProviderFactory.Chain(cfg)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("provider init: %w", err)
	}

	s.Logger.Debug("starting analysis", map[string]interface{}{
		"mode":       string(req.Mode),
		"language":   string(req.Language),
		"prompt_len": len(prompt),
		"chain":      cfg.ModelChain(),
	})

	resp, err := TryInOrder(ctx, providers, ports.ProviderRequest{
		Prompt:     prompt,
		Generation: cfg.Generation,
	}, s.observeAttempt)
	if s.Metrics != nil {
		s.Metrics.ObserveAnalysis(req.Mode, err)
	}
	if err != nil {
		s.Logger.Error("analysis failed", err, map[string]interface{}{
			"mode":     string(req.Mode),
			"category": string(domain.Classify(err)),
		})
		return domain.AnalysisResult{}, fmt.Errorf("%s: %w", strings.ToLower(req.Mode.Title()), err)
	}

	result := domain.AnalysisResult{
		Text:     resp.Text,
		Model:    resp.Model,
		Provider: resp.Provider,
	}
	if s.Recorder != nil {
		id, err := s.Recorder.Insert(domain.NewHistoryEntryInput(req, resp.Text))
		if err != nil {
			s.Logger.Warn("analysis succeeded but was not saved to history", map[string]interface{}{
				"error": err.Error(),
			})
		}
		result.HistoryID = id
	}
	return result, nil
}

// Compare is the two-snippet convenience form of Analyze.
func (s *Service) Compare(ctx context.Context, first, second string, language domain.Language) (domain.AnalysisResult, error) {
	return s.Analyze(ctx, domain.AnalysisRequest{
		Mode:       domain.ModeCompare,
		Code:       first,
		SecondCode: second,
		Language:   language,
	})
}

// TestConnection lists models (best effort) and sends one fixed prompt over the
// direct REST path. The returned text is the model's greeting.
func (s *Service) TestConnection(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasAPIKey() {
		return "", fmt.Errorf("API connection failed: %w", domain.ErrMissingCredential)
	}

	if models, err := s.ProviderFactory.Lister(cfg).ListModels(ctx); err != nil {
		s.Logger.Warn("could not list models", map[string]interface{}{"error": err.Error()})
	} else {
		s.Logger.Debug("available models", map[string]interface{}{"count": len(models)})
	}

	provider := s.ProviderFactory.Direct(cfg, cfg.ConnectionTestModel())
	resp, err := TryInOrder(ctx, []ports.Provider{provider}, ports.ProviderRequest{
		Prompt:     domain.ConnectionTestPrompt,
		Generation: cfg.Generation,
	}, s.observeAttempt)
	if err != nil {
		var exhausted *domain.ExhaustedError
		if errors.As(err, &exhausted) && len(exhausted.Attempts) == 1 {
			err = exhausted.Attempts[0]
		}
		return "", fmt.Errorf("API connection failed: %w", err)
	}
	s.Logger.Info("API connection test succeeded", map[string]interface{}{"model": resp.Model})
	return resp.Text, nil
}

// ListModels returns the models visible to the configured key.
func (s *Service) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasAPIKey() {
		return nil, domain.ErrMissingCredential
	}
	return s.ProviderFactory.Lister(cfg).ListModels(ctx)
}

func (s *Service) ready() error {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Logger == nil {
		return errors.New("analysis.Service dependencies not satisfied")
	}
	return nil
}

func (s *Service) observeAttempt(provider ports.Provider, err error) {
	if s.Metrics != nil {
		s.Metrics.ObserveAttempt(provider.Name(), provider.Model(), err)
	}
	if err != nil {
		s.Logger.Debug("provider attempt failed", map[string]interface{}{
			"attempt":  describeAttempt(provider),
			"category": string(domain.Classify(err)),
			"error":    err.Error(),
		})
		return
	}
	s.Logger.Debug("provider attempt succeeded", map[string]interface{}{"attempt": describeAttempt(provider)})
}

// normalize applies validation in a fixed order so no network call is made
// for a request that cannot succeed.
func normalize(cfg domain.Config, req domain.AnalysisRequest) (domain.AnalysisRequest, error) {
	mode, err := domain.ParseMode(string(req.Mode))
	if err != nil {
		return req, err
	}
	req.Mode = mode
	if strings.TrimSpace(req.Code) == "" {
		return req, domain.ErrEmptyInput
	}
	if req.Mode == domain.ModeCompare && strings.TrimSpace(req.SecondCode) == "" {
		return req, fmt.Errorf("%w: compare needs two snippets", domain.ErrEmptyInput)
	}
	if !cfg.HasAPIKey() {
		return req, domain.ErrMissingCredential
	}

	difficulty, err := domain.ParseDifficulty(string(req.Difficulty))
	if err != nil {
		return req, err
	}
	req.Difficulty = difficulty

	language, err := domain.ParseLanguage(string(req.Language))
	if err != nil {
		return req, err
	}
	if language == "" {
		if language, err = domain.ParseLanguage(string(cfg.Defaults.Language)); err != nil {
			return req, err
		}
	}
	if language == "" {
		language = domain.LanguageJavaScript
	}
	req.Language = language
	return req, nil
}
