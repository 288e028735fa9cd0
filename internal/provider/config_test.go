package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestResolve_ProbeOrder(t *testing.T) {
	cases := []struct {
		name string
		vars map[string]string
		want Provider
	}{
		{"no credentials", nil, ProviderLocal},
		{"openai wins", map[string]string{"OPENAI_API_KEY": "a", "GROQ_API_KEY": "b"}, ProviderOpenAI},
		{"groq before openrouter", map[string]string{"GROQ_API_KEY": "b", "OPENROUTER_API_KEY": "c"}, ProviderGroq},
		{"openrouter before gemini", map[string]string{"OPENROUTER_API_KEY": "c", "GEMINI_API_KEY": "d"}, ProviderOpenRouter},
		{"gemini last", map[string]string{"GEMINI_API_KEY": "d"}, ProviderGemini},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Resolve("", envFrom(tc.vars))
			assert.Equal(t, tc.want, cfg.Provider)
		})
	}
}

func TestResolve_ExplicitProviderHonored(t *testing.T) {
	vars := map[string]string{"OPENAI_API_KEY": "a", "GROQ_API_KEY": "b"}

	cfg := Resolve(ProviderGroq, envFrom(vars))
	assert.Equal(t, ProviderGroq, cfg.Provider)
	assert.Equal(t, "b", cfg.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Model)
}

func TestResolve_ExplicitWithoutKey(t *testing.T) {
	// Explicit selection stands even with no credential; the backend
	// construction path degrades later.
	cfg := Resolve(ProviderOpenAI, envFrom(nil))
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Empty(t, cfg.APIKey)
}

func TestResolve_ExplicitLocal(t *testing.T) {
	vars := map[string]string{"OPENAI_API_KEY": "a"}
	cfg := Resolve(ProviderLocal, envFrom(vars))
	assert.Equal(t, ProviderLocal, cfg.Provider)
}

func TestResolve_Defaults(t *testing.T) {
	cfg := Resolve("", envFrom(map[string]string{"OPENAI_API_KEY": "a"}))
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, DefaultParams(), cfg.Params)
}
