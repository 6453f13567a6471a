package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// ProviderSDK is the name reported by the google.golang.org/genai path.
const ProviderSDK = "sdk"

type genaiProvider struct {
	apiKey      string
	model       string
	httpOptions genai.HTTPOptions
	httpClient  *http.Client

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGenAIProvider builds the SDK path. The client is created lazily on the
// first call so constructing a chain never touches the network.
func NewGenAIProvider(baseURL, apiKey, model string, client *http.Client) ports.Provider {
	return &genaiProvider{
		apiKey:      apiKey,
		model:       model,
		httpOptions: sdkHTTPOptions(baseURL),
		httpClient:  client,
	}
}

func (p *genaiProvider) Name() string {
	return ProviderSDK
}

func (p *genaiProvider) Model() string {
	return p.model
}

func (p *genaiProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	client, err := p.sdkClient(ctx)
	if err != nil {
		return ports.ProviderResponse{}, Classify(ProviderSDK, p.model, err)
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), generateConfig(req.Generation))
	if err != nil {
		return ports.ProviderResponse{}, Classify(ProviderSDK, p.model, fmt.Errorf("generate content: %w", err))
	}
	if result == nil || len(result.Candidates) == 0 {
		return ports.ProviderResponse{}, Classify(ProviderSDK, p.model, fmt.Errorf("no response from SDK: %w", domain.ErrEmptyResponse))
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return ports.ProviderResponse{}, Classify(ProviderSDK, p.model, fmt.Errorf("empty response text: %w", domain.ErrEmptyResponse))
	}
	return ports.ProviderResponse{Text: text, Model: p.model, Provider: ProviderSDK}, nil
}

func (p *genaiProvider) sdkClient(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.client, p.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      p.apiKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  p.httpClient,
			HTTPOptions: p.httpOptions,
		})
		if p.clientErr != nil {
			p.clientErr = fmt.Errorf("create genai client: %w", p.clientErr)
		}
	})
	return p.client, p.clientErr
}

func generateConfig(gen domain.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(gen.Temperature),
		TopK:            genai.Ptr(float32(gen.TopK)),
		TopP:            genai.Ptr(gen.TopP),
		MaxOutputTokens: int32(gen.MaxOutputTokens),
	}
}

// sdkHTTPOptions splits a REST base such as https://host/v1beta into the SDK's
// host and API version settings.
func sdkHTTPOptions(baseURL string) genai.HTTPOptions {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || baseURL == domain.DefaultBaseURL {
		return genai.HTTPOptions{}
	}
	idx := strings.LastIndex(baseURL, "/")
	if idx > len("https://") {
		if version := baseURL[idx+1:]; strings.HasPrefix(version, "v1") {
			return genai.HTTPOptions{BaseURL: baseURL[:idx] + "/", APIVersion: version}
		}
	}
	return genai.HTTPOptions{BaseURL: baseURL + "/"}
}
