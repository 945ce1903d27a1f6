package services

import (
	"fmt"
	"log"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/repository"
)

// QuotaService is the admission-control ledger: one request counter per
// user per UTC day.
type QuotaService interface {
	// CanMakeRequest reports whether the user still has budget today.
	// Unknown users are always admitted. Never mutates state.
	CanMakeRequest(telegramID int64) (bool, error)
	// Consume get-or-creates the user and atomically charges one request
	// against today's budget. Returns QuotaExceededError when the budget
	// is exhausted.
	Consume(telegramID int64, firstName, username string) (*models.User, error)
	// ResetAll zeroes every nonzero counter and returns how many users
	// were affected. Meant for external scheduled invocation.
	ResetAll() (int64, error)
}

type quotaService struct {
	users repository.UserRepository
}

// NewQuotaService creates a new instance of QuotaService.
func NewQuotaService(users repository.UserRepository) QuotaService {
	return &quotaService{users: users}
}

func (s *quotaService) CanMakeRequest(telegramID int64) (bool, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return false, err
	}

	user, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		return false, err
	}
	if user == nil {
		// First contact: the user row is created on Consume.
		return true, nil
	}
	return user.RequestsToday < user.DailyLimit, nil
}

func (s *quotaService) Consume(telegramID int64, firstName, username string) (*models.User, error) {
	if err := validateTelegramID(telegramID); err != nil {
		return nil, err
	}

	user, err := s.users.GetOrCreate(telegramID, firstName, username)
	if err != nil {
		return nil, err
	}

	ok, err := s.users.IncrementRequestsToday(telegramID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("INFO: [QuotaService] User %d rejected: %d/%d requests used today.",
			telegramID, user.RequestsToday, user.DailyLimit)
		return nil, &apperrors.QuotaExceededError{Used: user.RequestsToday, Limit: user.DailyLimit}
	}

	refreshed, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, fmt.Errorf("user %d disappeared after quota increment", telegramID)
	}
	return refreshed, nil
}

func (s *quotaService) ResetAll() (int64, error) {
	affected, err := s.users.ResetDailyCounters()
	if err != nil {
		return 0, err
	}
	log.Printf("INFO: [QuotaService] Daily counters reset for %d users.", affected)
	return affected, nil
}
