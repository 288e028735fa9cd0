// Package provider routes document generation through one of several
// language-model backends behind a single Generate contract. Backend
// selection happens once at construction; every failure path degrades to the
// local no-op backend so the pipeline keeps running with empty content
// instead of crashing.
package provider

import "os"

// Provider identifies one backend language-model service.
type Provider string

// The closed set of supported providers. ProviderLocal is the no-op
// fallback that always returns empty text.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
	ProviderLocal      Provider = "local"
)

// probeOrder is the fixed priority used when no provider is explicitly
// configured: the first provider whose credential is present wins.
var probeOrder = []struct {
	provider Provider
	envKey   string
}{
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderGroq, "GROQ_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
}

// defaultModels maps each provider to its default model identifier.
var defaultModels = map[Provider]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGroq:       "llama-3.1-8b-instant",
	ProviderOpenRouter: "meta-llama/llama-3.1-8b-instruct",
	ProviderGemini:     "gemini-1.5-flash",
}

// baseURLs for the OpenAI-compatible chat-completions providers.
var baseURLs = map[Provider]string{
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderGroq:       "https://api.groq.com/openai/v1",
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
}

// GenerationParams are the sampling parameters applied to every request.
type GenerationParams struct {
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultParams returns the generation defaults used across the pipeline.
func DefaultParams() GenerationParams {
	return GenerationParams{Temperature: 0.7, TopP: 0.9, MaxTokens: 2000}
}

// Config is the resolved provider configuration. Built once at startup and
// passed by reference into the Router; immutable thereafter.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	Params   GenerationParams
}

// Resolve picks the provider. An explicit provider is honored as-is (its key
// is read from env when empty); otherwise the probe order decides. With no
// credentials at all the local no-op provider is selected, never an error.
func Resolve(explicit Provider, env func(string) string) Config {
	cfg := Config{Provider: ProviderLocal, Params: DefaultParams()}

	if explicit != "" && explicit != ProviderLocal {
		cfg.Provider = explicit
		cfg.APIKey = env(envKeyFor(explicit))
		cfg.Model = defaultModels[explicit]
		return cfg
	}
	if explicit == ProviderLocal {
		return cfg
	}

	for _, probe := range probeOrder {
		if key := env(probe.envKey); key != "" {
			cfg.Provider = probe.provider
			cfg.APIKey = key
			cfg.Model = defaultModels[probe.provider]
			return cfg
		}
	}
	return cfg
}

// ResolveFromEnv resolves against the process environment.
func ResolveFromEnv(explicit Provider) Config {
	return Resolve(explicit, os.Getenv)
}

func envKeyFor(p Provider) string {
	for _, probe := range probeOrder {
		if probe.provider == p {
			return probe.envKey
		}
	}
	return ""
}
