package services

import (
	"fmt"
	"strings"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

// PromptBuilder turns an ordered list of turns into a single prompt
// string. Implementations are interchangeable per assistant persona and
// must be pure: no I/O, deterministic for identical inputs.
type PromptBuilder interface {
	Build(messages []models.Message) string
}

// ConversationPromptBuilder renders a fixed system preamble followed by
// the turns as "<role>: <content>" lines.
type ConversationPromptBuilder struct {
	preamble string
}

// NewConversationPromptBuilder creates a builder with the given preamble.
func NewConversationPromptBuilder(preamble string) *ConversationPromptBuilder {
	return &ConversationPromptBuilder{preamble: preamble}
}

func (b *ConversationPromptBuilder) Build(messages []models.Message) string {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", message.Role, message.Content))
	}
	return b.preamble + "\n\n" + strings.Join(lines, "\n")
}
