package config

import (
	"testing"

	"github.com/doeshing/guruji/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		API: domain.APISettings{
			BaseURL:        domain.DefaultBaseURL,
			PrimaryModel:   "gemini-1.5-flash",
			FallbackModels: []string{"gemini-1.5-flash", "gemini-pro"},
			TimeoutSeconds: 60,
		},
		Generation: domain.GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 2048},
		Storage:    domain.StorageSettings{Backend: "sqlite", HistoryKey: "h", ThemeKey: "t", HistoryLimit: 50},
		Defaults:   domain.AnalysisDefaults{Mode: domain.ModeReview, Language: domain.LanguagePython, Difficulty: domain.DifficultyExpert},
		Logging:    domain.LoggingSettings{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr bool
	}{
		{"valid", func(*domain.Config) {}, false},
		{"relative base url", func(c *domain.Config) { c.API.BaseURL = "generativelanguage" }, true},
		{"negative timeout", func(c *domain.Config) { c.API.TimeoutSeconds = -1 }, true},
		{"duplicate fallback", func(c *domain.Config) { c.API.FallbackModels = []string{"a", "a"} }, true},
		{"model with slash", func(c *domain.Config) { c.API.FallbackModels = []string{"models/gemini-pro"} }, true},
		{"unknown language", func(c *domain.Config) { c.Defaults.Language = "cobol" }, true},
		{"bad log level", func(c *domain.Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *domain.Config) { c.Logging.Format = "xml" }, true},
		{"bad backend", func(c *domain.Config) { c.Storage.Backend = "redis" }, true},
		{"temperature out of range", func(c *domain.Config) { c.Generation.Temperature = 3 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
