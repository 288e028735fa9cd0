package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/apply-agent/internal/errs"
)

const requestTimeout = 60 * time.Second

// openAICompatBackend talks to any chat-completions endpoint that speaks the
// OpenAI wire format: OpenAI itself, Groq, and OpenRouter differ only in base
// URL and model naming.
type openAICompatBackend struct {
	provider Provider
	client   *resty.Client
	model    string
	params   GenerationParams
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// newOpenAICompatBackend builds the resty client for one provider. baseURL
// is overridable for tests.
func newOpenAICompatBackend(p Provider, cfg Config, baseURL string) (*openAICompatBackend, error) {
	if cfg.APIKey == "" {
		return nil, &errs.ConfigurationError{Component: string(p), Message: "API key not set"}
	}
	if baseURL == "" {
		baseURL = baseURLs[p]
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &openAICompatBackend{
		provider: p,
		client:   client,
		model:    cfg.Model,
		params:   cfg.Params,
	}, nil
}

func (b *openAICompatBackend) name() Provider { return b.provider }

// generate sends one chat-completions request with separate system and user
// turns.
func (b *openAICompatBackend) generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = b.params.MaxTokens
	}

	// ForceContentType: some gateways mislabel JSON error bodies as text,
	// which would otherwise skip unmarshalling into result.
	var result chatResponse
	resp, err := b.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetBody(chatRequest{
			Model: b.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
			Temperature: b.params.Temperature,
			TopP:        b.params.TopP,
			MaxTokens:   maxTokens,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/chat/completions")
	if err != nil {
		return "", &errs.NetworkError{Op: fmt.Sprintf("%s chat completion", b.provider), Cause: err}
	}

	if resp.IsError() {
		message := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			message = result.Error.Message
		}
		return "", &errs.APIError{
			Service:    string(b.provider),
			StatusCode: resp.StatusCode(),
			Message:    message,
			Transient:  isTransientStatus(resp.StatusCode()),
		}
	}

	if len(result.Choices) == 0 {
		return "", &errs.APIError{
			Service: string(b.provider),
			Message: "no choices in response",
		}
	}
	return result.Choices[0].Message.Content, nil
}

// isTransientStatus: rate limits and server-side failures are worth a retry;
// auth and request errors are not.
func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
