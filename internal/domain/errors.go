package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced to callers. Match with errors.Is.
var (
	ErrMissingCredential     = errors.New("API key is not configured")
	ErrInvalidCredential     = errors.New("invalid API key")
	ErrInvalidMode           = errors.New("invalid analysis mode")
	ErrInvalidLanguage       = errors.New("unsupported language")
	ErrInvalidDifficulty     = errors.New("invalid difficulty")
	ErrEmptyInput            = errors.New("code must not be empty")
	ErrQuotaExceeded         = errors.New("API quota exceeded")
	ErrNetwork               = errors.New("network error")
	ErrEmptyResponse         = errors.New("empty response from provider")
	ErrAllProvidersExhausted = errors.New("all providers failed")
	ErrUnknownProvider       = errors.New("provider error")
	ErrImportFormat          = errors.New("invalid history file format")
)

// ErrorCategory is the best-effort classification of a provider failure.
type ErrorCategory string

const (
	CategoryCredential    ErrorCategory = "credential"
	CategoryQuota         ErrorCategory = "quota"
	CategoryNetwork       ErrorCategory = "network"
	CategoryEmptyResponse ErrorCategory = "empty_response"
	CategoryUnknown       ErrorCategory = "unknown"
)

// Sentinel maps a category to its sentinel error.
func (c ErrorCategory) Sentinel() error {
	switch c {
	case CategoryCredential:
		return ErrInvalidCredential
	case CategoryQuota:
		return ErrQuotaExceeded
	case CategoryNetwork:
		return ErrNetwork
	case CategoryEmptyResponse:
		return ErrEmptyResponse
	default:
		return ErrUnknownProvider
	}
}

// ProviderError is a single failed generation attempt.
type ProviderError struct {
	Provider string
	Model    string
	Category ErrorCategory
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrQuotaExceeded) and friends match on the category.
func (e *ProviderError) Is(target error) bool {
	return target == e.Category.Sentinel()
}

// ExhaustedError is returned when every provider in the chain failed.
// Attempts are kept in call order.
type ExhaustedError struct {
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrAllProvidersExhausted.Error()
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, attempt.Error())
	}
	return fmt.Sprintf("%s: %s", ErrAllProvidersExhausted, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() []error {
	return e.Attempts
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllProvidersExhausted
}

// Classify returns the dominant category of err. An exhausted chain whose
// attempts all share a category reports that category, so the caller can say
// "quota exceeded" instead of "all providers failed".
func Classify(err error) ErrorCategory {
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		var category ErrorCategory
		for _, attempt := range exhausted.Attempts {
			c := categoryOf(attempt)
			if category != "" && c != category {
				return CategoryUnknown
			}
			category = c
		}
		if category == "" {
			return CategoryUnknown
		}
		return category
	}
	return categoryOf(err)
}

func categoryOf(err error) ErrorCategory {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Category
	}
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return CategoryCredential
	case errors.Is(err, ErrQuotaExceeded):
		return CategoryQuota
	case errors.Is(err, ErrNetwork):
		return CategoryNetwork
	case errors.Is(err, ErrEmptyResponse):
		return CategoryEmptyResponse
	default:
		return CategoryUnknown
	}
}

// UserMessage renders err the way the presentation layer shows it.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "API key is not configured. Set GEMINI_API_KEY or add it to a .env file."
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrInvalidMode),
		errors.Is(err, ErrInvalidLanguage), errors.Is(err, ErrInvalidDifficulty),
		errors.Is(err, ErrImportFormat):
		return err.Error()
	}
	switch Classify(err) {
	case CategoryCredential:
		return "Invalid API key. Please check your Gemini API configuration."
	case CategoryQuota:
		return "API quota exceeded. Please try again later."
	case CategoryNetwork:
		return "Network error. Please check your internet connection."
	}
	return fmt.Sprintf("API error: %v", err)
}
