package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// ProviderREST is the name reported by direct REST providers.
const ProviderREST = "rest"

// StatusError is a non-2xx answer from the REST API.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

type restProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewRESTProvider calls {baseURL}/models/{model}:generateContent directly.
func NewRESTProvider(baseURL, apiKey, model string, client *http.Client) ports.Provider {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	return &restProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: client,
	}
}

func (p *restProvider) Name() string {
	return ProviderREST
}

func (p *restProvider) Model() string {
	return p.model
}

func (p *restProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	text, err := p.generate(ctx, req)
	if err != nil {
		return ports.ProviderResponse{}, Classify(ProviderREST, p.model, err)
	}
	return ports.ProviderResponse{Text: text, Model: p.model, Provider: ProviderREST}, nil
}

func (p *restProvider) generate(ctx context.Context, req ports.ProviderRequest) (string, error) {
	body, err := json.Marshal(buildGeminiRequest(req))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := doJSON(p.httpClient, httpReq)
	if err != nil {
		return "", err
	}
	return parseGeminiResponse(raw)
}

func buildGeminiRequest(req ports.ProviderRequest) geminiRequest {
	return geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: req.Prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Generation.Temperature,
			TopK:            req.Generation.TopK,
			TopP:            req.Generation.TopP,
			MaxOutputTokens: req.Generation.MaxOutputTokens,
		},
	}
}

func parseGeminiResponse(raw []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != nil {
		return "", &StatusError{Code: resp.Error.Code, Status: resp.Error.Status, Message: resp.Error.Message}
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response: %w", domain.ErrEmptyResponse)
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response text: %w", domain.ErrEmptyResponse)
	}
	return text, nil
}

// doJSON performs req and returns the body of a 2xx answer.
func doJSON(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		// url.Error carries the full URL, key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("network request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

func newStatusError(code int, body []byte) *StatusError {
	statusErr := &StatusError{Code: code, Message: strings.TrimSpace(string(body))}
	var envelope geminiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		statusErr.Status = envelope.Error.Status
		statusErr.Message = envelope.Error.Message
	}
	return statusErr
}

// ModelLister queries GET {baseURL}/models.
type ModelLister struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewModelLister builds a lister for the given endpoint and key.
func NewModelLister(baseURL, apiKey string, client *http.Client) *ModelLister {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	return &ModelLister{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, httpClient: client}
}

// ListModels returns every model the key can see.
func (l *ModelLister) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/models?key=%s", l.baseURL, url.QueryEscape(l.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	raw, err := doJSON(l.httpClient, req)
	if err != nil {
		return nil, Classify(ProviderREST, "models", err)
	}

	var payload struct {
		Models []ports.ModelInfo `json:"models"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}
	return payload.Models, nil
}
