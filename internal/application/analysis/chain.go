package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// AttemptObserver is told about every provider attempt; err is nil on success.
type AttemptObserver func(provider ports.Provider, err error)

// TryInOrder calls providers one after another and returns the first response
// with non-blank text. When every provider fails the result is a
// *domain.ExhaustedError carrying each attempt error in call order.
func TryInOrder(ctx context.Context, providers []ports.Provider, req ports.ProviderRequest, observe AttemptObserver) (ports.ProviderResponse, error) {
	attempts := make([]error, 0, len(providers))
	for _, provider := range providers {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, err)
			break
		}

		resp, err := provider.Generate(ctx, req)
		if err == nil && strings.TrimSpace(resp.Text) == "" {
			err = &domain.ProviderError{
				Provider: provider.Name(),
				Model:    provider.Model(),
				Category: domain.CategoryEmptyResponse,
				Err:      domain.ErrEmptyResponse,
			}
		}
		if observe != nil {
			observe(provider, err)
		}
		if err != nil {
			attempts = append(attempts, err)
			continue
		}
		if resp.Model == "" {
			resp.Model = provider.Model()
		}
		if resp.Provider == "" {
			resp.Provider = provider.Name()
		}
		return resp, nil
	}
	return ports.ProviderResponse{}, &domain.ExhaustedError{Attempts: attempts}
}

func describeAttempt(provider ports.Provider) string {
	return fmt.Sprintf("%s/%s", provider.Name(), provider.Model())
}
