package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/errs"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *openAICompatBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{Provider: ProviderOpenAI, APIKey: "test-key", Model: "gpt-4o-mini", Params: DefaultParams()}
	b, err := newOpenAICompatBackend(ProviderOpenAI, cfg, server.URL)
	require.NoError(t, err)
	return b
}

func TestOpenAICompat_MissingKey(t *testing.T) {
	cfg := Config{Provider: ProviderGroq, Model: "llama-3.1-8b-instant"}
	_, err := newOpenAICompatBackend(ProviderGroq, cfg, "")
	require.Error(t, err)

	var cfgErr *errs.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOpenAICompat_Generate(t *testing.T) {
	var gotReq chatRequest
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "tailored resume"}},
			},
		})
	})

	out, err := b.generate(context.Background(), "You tailor resumes.", "Write one.", 500)
	require.NoError(t, err)
	assert.Equal(t, "tailored resume", out)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 500, gotReq.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
}

func TestOpenAICompat_DefaultMaxTokens(t *testing.T) {
	var gotReq chatRequest
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "x"}}},
		})
	})

	_, err := b.generate(context.Background(), "s", "u", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultParams().MaxTokens, gotReq.MaxTokens)
}

func TestOpenAICompat_RateLimitIsTransient(t *testing.T) {
	// No Content-Type on purpose: the error body must still be parsed even
	// when the server mislabels it.
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	})

	_, err := b.generate(context.Background(), "s", "u", 100)
	require.Error(t, err)

	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.Transient)
	assert.Contains(t, apiErr.Message, "rate limit")
	assert.True(t, errs.IsRetryable(err))
}

func TestOpenAICompat_AuthFailureNotTransient(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := b.generate(context.Background(), "s", "u", 100)
	require.Error(t, err)

	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.Transient)
	assert.False(t, errs.IsRetryable(err))
}

func TestOpenAICompat_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	cfg := Config{Provider: ProviderOpenAI, APIKey: "k", Model: "m", Params: DefaultParams()}
	b, err := newOpenAICompatBackend(ProviderOpenAI, cfg, server.URL)
	require.NoError(t, err)

	_, err = b.generate(context.Background(), "s", "u", 100)
	require.Error(t, err)

	var netErr *errs.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.True(t, errs.IsRetryable(err))
}

func TestOpenAICompat_EmptyChoices(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := b.generate(context.Background(), "s", "u", 100)
	require.Error(t, err)

	var apiErr *errs.APIError
	assert.ErrorAs(t, err, &apiErr)
}
