package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/doeshing/guruji/internal/domain"
)

// Classify wraps err in a *domain.ProviderError with a best-effort category.
// Structured signals are checked first, then message substrings.
func Classify(provider, model string, err error) error {
	if err == nil {
		return nil
	}
	var existing *domain.ProviderError
	if errors.As(err, &existing) {
		return err
	}
	return &domain.ProviderError{
		Provider: provider,
		Model:    model,
		Category: categorize(err),
		Err:      err,
	}
}

func categorize(err error) domain.ErrorCategory {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if c, ok := categoryForStatus(apiErr.Code, apiErr.Status+" "+apiErr.Message); ok {
			return c
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		if c, ok := categoryForStatus(apiErrPtr.Code, apiErrPtr.Status+" "+apiErrPtr.Message); ok {
			return c
		}
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if c, ok := categoryForStatus(statusErr.Code, statusErr.Status+" "+statusErr.Message); ok {
			return c
		}
	}

	switch {
	case errors.Is(err, domain.ErrEmptyResponse):
		return domain.CategoryEmptyResponse
	case errors.Is(err, domain.ErrInvalidCredential), errors.Is(err, domain.ErrMissingCredential):
		return domain.CategoryCredential
	case errors.Is(err, domain.ErrQuotaExceeded):
		return domain.CategoryQuota
	case errors.Is(err, context.DeadlineExceeded):
		return domain.CategoryNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.CategoryNetwork
	}

	return categoryForMessage(err.Error())
}

func categoryForStatus(code int, detail string) (domain.ErrorCategory, bool) {
	switch code {
	case http.StatusTooManyRequests:
		return domain.CategoryQuota, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.CategoryCredential, true
	case http.StatusBadRequest:
		// An invalid key is reported as 400 INVALID_ARGUMENT with an API_KEY reason.
		if c := categoryForMessage(detail); c == domain.CategoryCredential {
			return c, true
		}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.CategoryNetwork, true
	}
	if c := categoryForMessage(detail); c != domain.CategoryUnknown {
		return c, true
	}
	return domain.CategoryUnknown, false
}

func categoryForMessage(msg string) domain.ErrorCategory {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API_KEY"), strings.Contains(lower, "api key"):
		return domain.CategoryCredential
	case strings.Contains(lower, "quota"), strings.Contains(lower, "limit"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return domain.CategoryQuota
	case strings.Contains(lower, "network"), strings.Contains(lower, "fetch"),
		strings.Contains(lower, "connection"):
		return domain.CategoryNetwork
	default:
		return domain.CategoryUnknown
	}
}
