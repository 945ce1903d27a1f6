package repository

import (
	"time"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for interacting with stored
// conversation turns. All ordered reads sort by creation time with the
// row id as tie-breaker.
type MessageRepository interface {
	Create(message *models.Message) error
	// GetRecent returns up to limit turns, newest first.
	GetRecent(userID uint, limit int) ([]models.Message, error)
	// GetPage returns a newest-first page for history browsing.
	GetPage(userID uint, limit, offset int) ([]models.Message, error)
	// Count returns the total turn count, optionally bounded to turns
	// created at or after since.
	Count(userID uint, since *time.Time) (int64, error)
	CountByRole(userID uint, role models.MessageRole, since *time.Time) (int64, error)
	// DeleteAll removes every turn for the user and returns the count removed.
	DeleteAll(userID uint) (int64, error)
	// DeleteOlderThan removes turns created before cutoff, globally or
	// scoped to one user when userID is non-nil.
	DeleteOlderThan(cutoff time.Time, userID *uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return &apperrors.StorageError{Op: "message.create", Err: err}
	}
	return nil
}

func (r *messageRepository) GetRecent(userID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		return []models.Message{}, nil
	}
	var messages []models.Message
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, &apperrors.StorageError{Op: "message.get_recent", Err: err}
	}
	return messages, nil
}

func (r *messageRepository) GetPage(userID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		return []models.Message{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	var messages []models.Message
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, &apperrors.StorageError{Op: "message.get_page", Err: err}
	}
	return messages, nil
}

func (r *messageRepository) Count(userID uint, since *time.Time) (int64, error) {
	query := r.db.Model(&models.Message{}).Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, &apperrors.StorageError{Op: "message.count", Err: err}
	}
	return count, nil
}

func (r *messageRepository) CountByRole(userID uint, role models.MessageRole, since *time.Time) (int64, error) {
	query := r.db.Model(&models.Message{}).Where("user_id = ? AND role = ?", userID, role)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, &apperrors.StorageError{Op: "message.count_by_role", Err: err}
	}
	return count, nil
}

func (r *messageRepository) DeleteAll(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&models.Message{})
	if res.Error != nil {
		return 0, &apperrors.StorageError{Op: "message.delete_all", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func (r *messageRepository) DeleteOlderThan(cutoff time.Time, userID *uint) (int64, error) {
	query := r.db.Where("created_at < ?", cutoff)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	res := query.Delete(&models.Message{})
	if res.Error != nil {
		return 0, &apperrors.StorageError{Op: "message.delete_older_than", Err: res.Error}
	}
	return res.RowsAffected, nil
}
