package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/repository"

	"gorm.io/datatypes"
)

// MessageService is the durable, ordered turn history per user.
type MessageService interface {
	// CreateMessage validates and appends one conversation turn. The
	// owning user must already exist (admission precedes appends).
	CreateMessage(telegramID int64, role models.MessageRole, content string, metadata map[string]interface{}) (*models.Message, error)
	// GetConversationContext returns up to limit most recent turns in
	// chronological order (oldest first), ready for prompt assembly.
	GetConversationContext(telegramID int64, limit int) ([]models.Message, error)
	// GetHistoryPage returns a newest-first page for history browsing.
	GetHistoryPage(telegramID int64, limit, offset int) ([]models.Message, error)
	CountMessages(telegramID int64, since *time.Time) (int64, error)
	CountMessagesByRole(telegramID int64, role models.MessageRole, since *time.Time) (int64, error)
	// ClearHistory removes every turn for the user.
	ClearHistory(telegramID int64) (int64, error)
	// DeleteOlderThan removes turns older than the given number of days,
	// globally or scoped to one user when telegramID is non-nil.
	DeleteOlderThan(days int, telegramID *int64) (int64, error)
}

type messageService struct {
	users      repository.UserRepository
	messages   repository.MessageRepository
	maxContent int
}

// NewMessageService creates a new instance of MessageService.
func NewMessageService(users repository.UserRepository, messages repository.MessageRepository, maxContentLength int) MessageService {
	if maxContentLength <= 0 || maxContentLength > models.MaxMessageLength {
		maxContentLength = models.MaxMessageLength
	}
	return &messageService{users: users, messages: messages, maxContent: maxContentLength}
}

func (s *messageService) CreateMessage(telegramID int64, role models.MessageRole, content string, metadata map[string]interface{}) (*models.Message, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidMessageData, role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", apperrors.ErrInvalidMessageData)
	}
	if n := utf8.RuneCountInString(content); n > s.maxContent {
		return nil, fmt.Errorf("%w: content length %d exceeds limit %d", apperrors.ErrInvalidMessageData, n, s.maxContent)
	}

	user, err := s.resolveUser(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperrors.UserNotFoundError{TelegramID: telegramID}
	}

	message := &models.Message{
		UserID:  user.ID,
		Role:    role,
		Content: content,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata is not serializable: %v", apperrors.ErrInvalidMessageData, err)
		}
		message.AIMetadata = datatypes.JSON(raw)
	}

	if err := s.messages.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) GetConversationContext(telegramID int64, limit int) ([]models.Message, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Message{}, nil
	}

	user, err := s.resolveUser(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []models.Message{}, nil
	}

	recent, err := s.messages.GetRecent(user.ID, limit)
	if err != nil {
		return nil, err
	}
	// The repository yields newest-first; the prompt wants oldest-first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

func (s *messageService) GetHistoryPage(telegramID int64, limit, offset int) ([]models.Message, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Message{}, nil
	}

	user, err := s.resolveUser(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []models.Message{}, nil
	}
	return s.messages.GetPage(user.ID, limit, offset)
}

func (s *messageService) CountMessages(telegramID int64, since *time.Time) (int64, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return 0, err
	}
	user, err := s.resolveUser(telegramID)
	if err != nil || user == nil {
		return 0, err
	}
	return s.messages.Count(user.ID, since)
}

func (s *messageService) CountMessagesByRole(telegramID int64, role models.MessageRole, since *time.Time) (int64, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return 0, err
	}
	user, err := s.resolveUser(telegramID)
	if err != nil || user == nil {
		return 0, err
	}
	return s.messages.CountByRole(user.ID, role, since)
}

func (s *messageService) ClearHistory(telegramID int64) (int64, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return 0, err
	}
	user, err := s.resolveUser(telegramID)
	if err != nil || user == nil {
		return 0, err
	}
	return s.messages.DeleteAll(user.ID)
}

func (s *messageService) DeleteOlderThan(days int, telegramID *int64) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("cleanup age must be positive, got %d days", days)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if telegramID == nil {
		return s.messages.DeleteOlderThan(cutoff, nil)
	}

	if err := validateTelegramID(*telegramID); err != nil {
		return 0, err
	}
	user, err := s.resolveUser(*telegramID)
	if err != nil || user == nil {
		return 0, err
	}
	return s.messages.DeleteOlderThan(cutoff, &user.ID)
}

func (s *messageService) resolveUser(telegramID int64) (*models.User, error) {
	return s.users.GetByTelegramID(telegramID)
}
