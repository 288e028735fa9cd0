package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/apply-agent/internal/errs"
)

// geminiBackend wraps the Google Gemini SDK. Gemini's single-turn API has no
// separate system role, so the system prompt is folded into the leading turn.
type geminiBackend struct {
	client *genai.Client
	model  string
	params GenerationParams
}

func newGeminiBackend(ctx context.Context, cfg Config) (*geminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, &errs.ConfigurationError{Component: "gemini", Message: "API key not set"}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiBackend{client: client, model: cfg.Model, params: cfg.Params}, nil
}

func (b *geminiBackend) name() Provider { return ProviderGemini }

func (b *geminiBackend) generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = b.params.MaxTokens
	}

	model := b.client.GenerativeModel(b.model)
	model.SetTemperature(b.params.Temperature)
	model.SetTopP(b.params.TopP)
	model.SetMaxOutputTokens(int32(maxTokens))

	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &errs.APIError{Service: "gemini", Message: err.Error(), Transient: true, Cause: err}
	}
	return extractGeminiText(resp)
}

func (b *geminiBackend) close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &errs.APIError{Service: "gemini", Message: "no candidates in response"}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &errs.APIError{Service: "gemini", Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &errs.APIError{Service: "gemini", Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}
