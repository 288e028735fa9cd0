package provider

import (
	"context"
	"log"

	"github.com/jonathan/apply-agent/internal/retry"
)

// backend is the contract each provider implements. Backends return raw
// errors; the Router owns retries and the never-raise surface.
type backend interface {
	name() Provider
	generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Router is the single entry point for text generation. Construction never
// fails: an unusable backend degrades to the local no-op. Safe for
// concurrent use; the router holds no mutable state after construction.
type Router struct {
	backend backend
	policy  retry.Policy
}

// NewRouter builds a router for the resolved configuration. Backend
// construction failures are logged and replaced by the no-op backend so the
// caller always gets a working router.
func NewRouter(ctx context.Context, cfg Config) *Router {
	return &Router{backend: buildBackend(ctx, cfg), policy: retry.DefaultPolicy()}
}

// NewRouterWithBackend wires a custom backend, used by tests and the
// OpenAI-compatible httptest harness.
func NewRouterWithBackend(b backend, policy retry.Policy) *Router {
	return &Router{backend: b, policy: policy}
}

func buildBackend(ctx context.Context, cfg Config) backend {
	var (
		b   backend
		err error
	)
	switch cfg.Provider {
	case ProviderOpenAI, ProviderGroq, ProviderOpenRouter:
		b, err = newOpenAICompatBackend(cfg.Provider, cfg, "")
	case ProviderGemini:
		b, err = newGeminiBackend(ctx, cfg)
	case ProviderLocal:
		return noopBackend{}
	default:
		log.Printf("[provider] unknown provider %q, using local backend", cfg.Provider)
		return noopBackend{}
	}
	if err != nil {
		log.Printf("[provider] %s unavailable: %v (using local backend)", cfg.Provider, err)
		return noopBackend{}
	}
	return b
}

// Provider reports which backend the router resolved to.
func (r *Router) Provider() Provider {
	return r.backend.name()
}

// IsLocal reports whether generation is running against the no-op fallback.
func (r *Router) IsLocal() bool {
	return r.Provider() == ProviderLocal
}

// Close releases backend resources. Only the Gemini client holds any; the
// HTTP and no-op backends ignore it.
func (r *Router) Close() {
	if c, ok := r.backend.(interface{ close() error }); ok {
		if err := c.close(); err != nil {
			log.Printf("[provider] closing %s backend: %v", r.backend.name(), err)
		}
	}
}

// Generate produces text for the prompt pair. It never returns an error:
// after retries are exhausted the failure is logged and empty text is
// returned, which downstream stages treat as "generation unavailable".
func (r *Router) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) string {
	var out string
	err := r.policy.Do(ctx, string(r.backend.name())+" generate", func(ctx context.Context) error {
		text, genErr := r.backend.generate(ctx, systemPrompt, userPrompt, maxTokens)
		if genErr != nil {
			return genErr
		}
		out = text
		return nil
	})
	if err != nil {
		log.Printf("[provider] %s generation failed: %v", r.backend.name(), err)
		return ""
	}
	return out
}
