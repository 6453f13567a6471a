// Package doctor runs local diagnostics: configuration, credentials, storage
// and API connectivity.
package doctor

import (
	"context"
	"fmt"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// ConnectionTester performs the API self-check.
type ConnectionTester interface {
	TestConnection(context.Context) (string, error)
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.KeyValueStore
	History        ports.HistoryRepository
	Connection     ConnectionTester

	// SkipConnectivity omits the network self-check.
	SkipConnectivity bool
}

// Run executes checks and returns a report. Only a config load failure is returned as an error.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s, storage %s", cfg.ConfigFormatVersion, cfg.GetStorageBackend())))
	checks = append(checks, apiKeyCheck(cfg))

	if s.Store != nil {
		if _, _, err := s.Store.Get(cfg.Storage.HistoryKey); err != nil {
			checks = append(checks, fail("Storage", err.Error()))
		} else {
			checks = append(checks, ok("Storage", fmt.Sprintf("%s backend readable", cfg.GetStorageBackend())))
		}
	}

	if s.History != nil {
		count := len(s.History.List())
		checks = append(checks, ok("History", fmt.Sprintf("%d of %d entries", count, cfg.GetHistoryLimit())))
	}

	checks = append(checks, s.connectivityCheck(ctx, cfg))
	return domain.HealthReport{Checks: checks}, nil
}

func apiKeyCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.HasAPIKey() {
		return warn("API key", fmt.Sprintf("%s missing; every analysis will fail", cfg.GetKeyEnvVar()))
	}
	return ok("API key", fmt.Sprintf("found (%s)", maskKey(cfg.API.APIKey)))
}

// connectivityCheck never reports an error status: the API being unreachable
// does not make the local installation broken.
func (s *Service) connectivityCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	switch {
	case s.SkipConnectivity:
		return warn("Connectivity", "skipped")
	case s.Connection == nil:
		return warn("Connectivity", "self-check not configured")
	case !cfg.HasAPIKey():
		return warn("Connectivity", "skipped: no API key")
	}
	if _, err := s.Connection.TestConnection(ctx); err != nil {
		return warn("Connectivity", domain.UserMessage(err))
	}
	return ok("Connectivity", fmt.Sprintf("%s answered", cfg.ConnectionTestModel()))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
