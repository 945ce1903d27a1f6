package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

// MockUserRepository is a mock type for the repository.UserRepository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(telegramID int64, firstName, username string) (*models.User, error) {
	args := m.Called(telegramID, firstName, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateInfo(telegramID int64, firstName, username string) error {
	args := m.Called(telegramID, firstName, username)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementRequestsToday(telegramID int64) (bool, error) {
	args := m.Called(telegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ResetDailyCounters() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockMessageRepository is a mock type for the repository.MessageRepository interface.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetRecent(userID uint, limit int) ([]models.Message, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetPage(userID uint, limit, offset int) ([]models.Message, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) Count(userID uint, since *time.Time) (int64, error) {
	args := m.Called(userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) CountByRole(userID uint, role models.MessageRole, since *time.Time) (int64, error) {
	args := m.Called(userID, role, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) DeleteAll(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) DeleteOlderThan(cutoff time.Time, userID *uint) (int64, error) {
	args := m.Called(cutoff, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProvider is a mock type for the Provider interface.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GenerateResult), args.Error(1)
}

// MockPromptBuilder is a mock type for the PromptBuilder interface.
type MockPromptBuilder struct {
	mock.Mock
}

func (m *MockPromptBuilder) Build(messages []models.Message) string {
	args := m.Called(messages)
	return args.String(0)
}

// MockQuotaService is a mock type for the QuotaService interface.
type MockQuotaService struct {
	mock.Mock
}

func (m *MockQuotaService) CanMakeRequest(telegramID int64) (bool, error) {
	args := m.Called(telegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuotaService) Consume(telegramID int64, firstName, username string) (*models.User, error) {
	args := m.Called(telegramID, firstName, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockQuotaService) ResetAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockMessageService is a mock type for the MessageService interface.
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) CreateMessage(telegramID int64, role models.MessageRole, content string, metadata map[string]interface{}) (*models.Message, error) {
	args := m.Called(telegramID, role, content, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) GetConversationContext(telegramID int64, limit int) ([]models.Message, error) {
	args := m.Called(telegramID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageService) GetHistoryPage(telegramID int64, limit, offset int) ([]models.Message, error) {
	args := m.Called(telegramID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageService) CountMessages(telegramID int64, since *time.Time) (int64, error) {
	args := m.Called(telegramID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) CountMessagesByRole(telegramID int64, role models.MessageRole, since *time.Time) (int64, error) {
	args := m.Called(telegramID, role, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) ClearHistory(telegramID int64) (int64, error) {
	args := m.Called(telegramID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) DeleteOlderThan(days int, telegramID *int64) (int64, error) {
	args := m.Called(days, telegramID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserService is a mock type for the UserService interface.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) HandleNewUser(telegramID int64, firstName, username string) (*models.User, error) {
	args := m.Called(telegramID, firstName, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
