package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

const testTelegramID int64 = 123456789

func TestQuotaService_CanMakeRequest_InvalidID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewQuotaService(repo)

	for _, id := range []int64{0, -5, 99999999, 10000000000} {
		_, err := svc.CanMakeRequest(id)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTelegramID, "id %d should be rejected", id)
	}
	repo.AssertNotCalled(t, "GetByTelegramID")
}

func TestQuotaService_CanMakeRequest_NewUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByTelegramID", testTelegramID).Return(nil, nil)
	svc := NewQuotaService(repo)

	allowed, err := svc.CanMakeRequest(testTelegramID)

	assert.NoError(t, err)
	assert.True(t, allowed, "unknown users are always admitted")
	repo.AssertExpectations(t)
}

func TestQuotaService_CanMakeRequest_BelowAndAtLimit(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewQuotaService(repo)

	repo.On("GetByTelegramID", testTelegramID).Return(
		&models.User{TelegramID: testTelegramID, RequestsToday: 19, DailyLimit: 20}, nil).Once()
	allowed, err := svc.CanMakeRequest(testTelegramID)
	assert.NoError(t, err)
	assert.True(t, allowed)

	repo.On("GetByTelegramID", testTelegramID).Return(
		&models.User{TelegramID: testTelegramID, RequestsToday: 20, DailyLimit: 20}, nil).Once()
	allowed, err = svc.CanMakeRequest(testTelegramID)
	assert.NoError(t, err)
	assert.False(t, allowed)

	// The advisory check never mutates state.
	repo.AssertNotCalled(t, "IncrementRequestsToday", testTelegramID)
	repo.AssertExpectations(t)
}

func TestQuotaService_Consume_Success(t *testing.T) {
	repo := new(MockUserRepository)
	created := &models.User{ID: 1, TelegramID: testTelegramID, RequestsToday: 0, DailyLimit: 20}
	refreshed := &models.User{ID: 1, TelegramID: testTelegramID, RequestsToday: 1, DailyLimit: 20}

	repo.On("GetOrCreate", testTelegramID, "Alice", "alice").Return(created, nil)
	repo.On("IncrementRequestsToday", testTelegramID).Return(true, nil)
	repo.On("GetByTelegramID", testTelegramID).Return(refreshed, nil)

	svc := NewQuotaService(repo)
	user, err := svc.Consume(testTelegramID, "Alice", "alice")

	assert.NoError(t, err)
	assert.Equal(t, 1, user.RequestsToday)
	repo.AssertExpectations(t)
}

func TestQuotaService_Consume_QuotaExceeded(t *testing.T) {
	repo := new(MockUserRepository)
	exhausted := &models.User{ID: 1, TelegramID: testTelegramID, RequestsToday: 20, DailyLimit: 20}

	repo.On("GetOrCreate", testTelegramID, "Alice", "alice").Return(exhausted, nil)
	repo.On("IncrementRequestsToday", testTelegramID).Return(false, nil)

	svc := NewQuotaService(repo)
	user, err := svc.Consume(testTelegramID, "Alice", "alice")

	assert.Nil(t, user)
	var exceeded *apperrors.QuotaExceededError
	assert.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 20, exceeded.Used)
	assert.Equal(t, 20, exceeded.Limit)
	repo.AssertExpectations(t)
}

func TestQuotaService_Consume_InvalidID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewQuotaService(repo)

	_, err := svc.Consume(42, "Bob", "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidTelegramID)
	repo.AssertNotCalled(t, "GetOrCreate")
}

func TestQuotaService_ResetAll(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("ResetDailyCounters").Return(int64(3), nil)
	svc := NewQuotaService(repo)

	affected, err := svc.ResetAll()

	assert.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	repo.AssertExpectations(t)
}
