package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

// LimitReachedReply is the fixed user-facing reply when the daily budget
// is exhausted.
const LimitReachedReply = "You have reached your daily limit. Try again tomorrow."

// ChatService orchestrates the full lifecycle of one inbound user message:
// admission, recording the user turn, context assembly, generation, and
// recording the assistant turn. It is the only component that sequences
// calls across the quota ledger, the message store and the generator.
type ChatService interface {
	ProcessUserMessage(ctx context.Context, telegramID int64, firstName, username, text string) (string, error)
}

type chatService struct {
	users         UserService
	quota         QuotaService
	messages      MessageService
	generator     *Generator
	contextWindow int
}

// NewChatService creates a new instance of ChatService. contextWindow is
// the number of recent turns handed to the generator per request.
func NewChatService(users UserService, quota QuotaService, messages MessageService, generator *Generator, contextWindow int) ChatService {
	if contextWindow <= 0 {
		contextWindow = 10
	}
	return &chatService{
		users:         users,
		quota:         quota,
		messages:      messages,
		generator:     generator,
		contextWindow: contextWindow,
	}
}

// ProcessUserMessage runs the pipeline. Failures after the user turn is
// recorded surface unchanged: the recorded turn is kept, there is no
// compensating rollback, and each store operation is its own unit of work.
func (s *chatService) ProcessUserMessage(ctx context.Context, telegramID int64, firstName, username, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: content is empty", apperrors.ErrInvalidMessageData)
	}

	requestID := uuid.NewString()

	// Resolve the participant first so appends always find their owner.
	// For anyone past first contact this is a pure read.
	if _, err := s.users.HandleNewUser(telegramID, firstName, username); err != nil {
		return "", err
	}

	// Advisory fast path: rejected users never touch the message store or
	// the provider. The authoritative check is the atomic increment below.
	allowed, err := s.quota.CanMakeRequest(telegramID)
	if err != nil {
		return "", err
	}
	if !allowed {
		log.Printf("INFO: [ChatService] request %s: user %d over daily limit, rejected.", requestID, telegramID)
		return LimitReachedReply, nil
	}

	if _, err := s.messages.CreateMessage(telegramID, models.RoleUser, text, nil); err != nil {
		return "", err
	}

	recent, err := s.messages.GetConversationContext(telegramID, s.contextWindow)
	if err != nil {
		return "", err
	}

	if _, err := s.quota.Consume(telegramID, firstName, username); err != nil {
		var exceeded *apperrors.QuotaExceededError
		if errors.As(err, &exceeded) {
			// Lost the race between the advisory check and the atomic
			// increment. The user turn stays recorded; nothing was
			// over-admitted and no generation happens.
			log.Printf("INFO: [ChatService] request %s: user %d lost quota race (%d/%d).",
				requestID, telegramID, exceeded.Used, exceeded.Limit)
			return LimitReachedReply, nil
		}
		return "", err
	}

	result, err := s.generator.Generate(ctx, recent)
	if err != nil {
		log.Printf("ERROR: [ChatService] request %s: generation failed for user %d: %v", requestID, telegramID, err)
		return "", err
	}

	metadata := map[string]interface{}{
		"content": result.Content,
		"model":   result.Model,
		"usage":   result.Usage,
	}
	if _, err := s.messages.CreateMessage(telegramID, models.RoleAssistant, result.Content, metadata); err != nil {
		return "", err
	}

	log.Printf("INFO: [ChatService] request %s: user %d answered by model %s.", requestID, telegramID, result.Model)
	return result.Content, nil
}
