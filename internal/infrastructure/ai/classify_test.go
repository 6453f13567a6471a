package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"github.com/doeshing/guruji/internal/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorCategory
	}{
		{"genai quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, domain.CategoryQuota},
		{"genai wrapped key", fmt.Errorf("generate content: %w", genai.APIError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"}), domain.CategoryCredential},
		{"genai permission", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, domain.CategoryCredential},
		{"genai unavailable", genai.APIError{Code: 503, Status: "UNAVAILABLE"}, domain.CategoryNetwork},
		{"rest 401", &StatusError{Code: 401}, domain.CategoryCredential},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), domain.CategoryNetwork},
		{"empty", fmt.Errorf("x: %w", domain.ErrEmptyResponse), domain.CategoryEmptyResponse},
		{"substring api key", errors.New("[400] API_KEY_INVALID"), domain.CategoryCredential},
		{"substring limit", errors.New("rate limit reached"), domain.CategoryQuota},
		{"substring fetch", errors.New("failed to fetch"), domain.CategoryNetwork},
		{"unknown", errors.New("something odd"), domain.CategoryUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := categorize(tc.err); got != tc.want {
				t.Fatalf("categorize(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifyKeepsExistingProviderError(t *testing.T) {
	original := &domain.ProviderError{Provider: "sdk", Model: "m", Category: domain.CategoryQuota, Err: errors.New("x")}
	got := Classify("rest", "other", original)
	if got != error(original) {
		t.Fatalf("expected original error to pass through, got %v", got)
	}
	if Classify("rest", "m", nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestSDKHTTPOptions(t *testing.T) {
	tests := []struct {
		base        string
		wantBase    string
		wantVersion string
	}{
		{domain.DefaultBaseURL, "", ""},
		{"", "", ""},
		{"http://127.0.0.1:9999/v1beta", "http://127.0.0.1:9999/", "v1beta"},
		{"http://127.0.0.1:9999/v1/", "http://127.0.0.1:9999/", "v1"},
		{"http://proxy.local", "http://proxy.local/", ""},
	}
	for _, tc := range tests {
		got := sdkHTTPOptions(tc.base)
		if got.BaseURL != tc.wantBase || got.APIVersion != tc.wantVersion {
			t.Errorf("sdkHTTPOptions(%q) = %q/%q, want %q/%q", tc.base, got.BaseURL, got.APIVersion, tc.wantBase, tc.wantVersion)
		}
	}
}
