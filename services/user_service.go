package services

import (
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/repository"
)

// UserService registers chat participants lazily: every observed
// interaction resolves to a user row, created on first contact.
type UserService interface {
	// HandleNewUser validates the identity and get-or-creates the user.
	HandleNewUser(telegramID int64, firstName, username string) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) HandleNewUser(telegramID int64, firstName, username string) (*models.User, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return nil, err
	}
	return s.users.GetOrCreate(telegramID, firstName, username)
}
