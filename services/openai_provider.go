package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider on top of an OpenAI-compatible API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds the provider from configuration. The model must
// be on the configured allow-list.
func NewOpenAIProvider(cfg *config.Config) (*OpenAIProvider, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("ai.api_key is not configured")
	}
	if !cfg.ModelAllowed(cfg.AI.Model) {
		return nil, fmt.Errorf("model %q is not in the allowed model list", cfg.AI.Model)
	}

	clientConfig := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		clientConfig.BaseURL = cfg.AI.BaseURL
	}

	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.AI.Model,
		timeout: timeout,
	}, nil
}

// Generate runs one completion for the prompt. The call is bounded by the
// configured timeout so a slow generation cannot hold the caller forever.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, &apperrors.ProviderError{Model: p.model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &apperrors.ProviderError{Model: p.model, Err: fmt.Errorf("response contained no choices")}
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &GenerateResult{
		Content: resp.Choices[0].Message.Content,
		Model:   model,
		Usage: map[string]interface{}{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}, nil
}
