package repository

import (
	"errors"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// GetByTelegramID returns the user or nil when no such row exists.
	GetByTelegramID(telegramID int64) (*models.User, error)
	// GetOrCreate resolves the user by telegram id, creating the row on
	// first contact with the configured daily limit.
	GetOrCreate(telegramID int64, firstName, username string) (*models.User, error)
	// UpdateInfo refreshes mutable profile fields of an existing user.
	UpdateInfo(telegramID int64, firstName, username string) error
	// IncrementRequestsToday atomically consumes one unit of today's
	// budget. It reports false, without mutating anything, when the
	// counter already reached the user's daily limit.
	IncrementRequestsToday(telegramID int64) (bool, error)
	// ResetDailyCounters zeroes requests_today for every user with a
	// nonzero counter and returns how many rows were affected.
	ResetDailyCounters() (int64, error)
}

type userRepository struct {
	db           *gorm.DB
	defaultLimit int
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB, defaultDailyLimit int) UserRepository {
	if defaultDailyLimit <= 0 {
		defaultDailyLimit = models.DefaultDailyLimit
	}
	return &userRepository{db: db, defaultLimit: defaultDailyLimit}
}

func (r *userRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "telegram_id = ?", telegramID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &apperrors.StorageError{Op: "user.get", Err: err}
	}
	return &user, nil
}

func (r *userRepository) GetOrCreate(telegramID int64, firstName, username string) (*models.User, error) {
	var user models.User
	err := r.db.
		Where(&models.User{TelegramID: telegramID}).
		Attrs(models.User{
			FirstName:  firstName,
			Username:   username,
			DailyLimit: r.defaultLimit,
		}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, &apperrors.StorageError{Op: "user.get_or_create", Err: err}
	}
	return &user, nil
}

func (r *userRepository) UpdateInfo(telegramID int64, firstName, username string) error {
	err := r.db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]interface{}{
			"first_name": firstName,
			"username":   username,
		}).Error
	if err != nil {
		return &apperrors.StorageError{Op: "user.update_info", Err: err}
	}
	return nil
}

// IncrementRequestsToday is a single conditional UPDATE so concurrent
// requests from the same user cannot overshoot the limit: the check and
// the increment happen in one statement at the store level.
func (r *userRepository) IncrementRequestsToday(telegramID int64) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("telegram_id = ? AND requests_today < daily_limit", telegramID).
		UpdateColumn("requests_today", gorm.Expr("requests_today + 1"))
	if res.Error != nil {
		return false, &apperrors.StorageError{Op: "user.increment_requests", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) ResetDailyCounters() (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("requests_today > 0").
		UpdateColumn("requests_today", 0)
	if res.Error != nil {
		return 0, &apperrors.StorageError{Op: "user.reset_daily_counters", Err: res.Error}
	}
	return res.RowsAffected, nil
}
