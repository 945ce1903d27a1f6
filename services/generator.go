package services

import (
	"context"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

// Generator pairs a prompt builder with a provider. The pairing is fixed
// at construction time; swapping either part yields a different assistant
// persona without touching the pipeline.
type Generator struct {
	provider Provider
	builder  PromptBuilder
}

// NewGenerator creates a Generator from a provider and a prompt builder.
func NewGenerator(provider Provider, builder PromptBuilder) *Generator {
	return &Generator{provider: provider, builder: builder}
}

// Generate assembles the prompt from the ordered turns and invokes the
// provider.
func (g *Generator) Generate(ctx context.Context, messages []models.Message) (*GenerateResult, error) {
	return g.provider.Generate(ctx, g.builder.Build(messages))
}
