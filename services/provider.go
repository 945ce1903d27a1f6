package services

import "context"

// GenerateResult is the provider-agnostic output of one generation call.
// Usage carries opaque vendor metadata (token counts, finish reason, ...).
type GenerateResult struct {
	Content string                 `json:"content"`
	Model   string                 `json:"model"`
	Usage   map[string]interface{} `json:"usage"`
}

// Provider abstracts a generative-text backend behind one operation.
// Failures surface as *apperrors.ProviderError; the core never retries.
type Provider interface {
	Generate(ctx context.Context, prompt string) (*GenerateResult, error)
}
