package provider

import "context"

// noopBackend is the local fallback used when no credentials are configured
// or a real backend fails to construct. It returns empty text so downstream
// stages route jobs to manual review instead of halting.
type noopBackend struct{}

func (noopBackend) name() Provider { return ProviderLocal }

func (noopBackend) generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return "", nil
}
