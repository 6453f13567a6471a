// Package config validates a loaded configuration beyond what the schema enforces.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doeshing/guruji/internal/domain"
)

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "fatal": true, "panic": true,
}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateAPI(cfg.API); err != nil {
		return err
	}
	if err := validateDefaults(cfg.Defaults); err != nil {
		return err
	}
	return validateLogging(cfg.Logging)
}

func validateAPI(api domain.APISettings) error {
	if api.BaseURL != "" {
		u, err := url.Parse(api.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url must be an absolute URL, got %q", api.BaseURL)
		}
	}
	if api.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout must be >= 0")
	}
	seen := make(map[string]bool, len(api.FallbackModels))
	for _, model := range api.FallbackModels {
		model = strings.TrimSpace(model)
		if strings.ContainsAny(model, " /?#") {
			return fmt.Errorf("fallback model %q is not a valid model name", model)
		}
		if seen[model] && model != "" {
			return fmt.Errorf("fallback model %s listed twice", model)
		}
		seen[model] = true
	}
	if strings.ContainsAny(strings.TrimSpace(api.PrimaryModel), " /?#") {
		return fmt.Errorf("primary model %q is not a valid model name", api.PrimaryModel)
	}
	return nil
}

func validateDefaults(defaults domain.AnalysisDefaults) error {
	if defaults.Language == "" {
		return nil
	}
	for _, lang := range domain.Languages() {
		if defaults.Language == lang {
			return nil
		}
	}
	return fmt.Errorf("defaults.language must be one of %v, got %s", domain.Languages(), defaults.Language)
}

func validateLogging(logging domain.LoggingSettings) error {
	if logging.Level != "" && !logLevels[strings.ToLower(logging.Level)] {
		return fmt.Errorf("logging.level %q is not a known level", logging.Level)
	}
	switch strings.ToLower(logging.Format) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be text|json, got %s", logging.Format)
	}
}
