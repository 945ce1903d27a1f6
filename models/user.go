package models

import "time"

// DefaultDailyLimit is the number of AI requests a user may make per UTC day
// unless the user row says otherwise.
const DefaultDailyLimit = 20

// User is a distinct chat participant, created lazily on first interaction.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TelegramID    int64     `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username      string    `json:"username,omitempty" gorm:"size:32"`
	FirstName     string    `json:"first_name" gorm:"size:64"`
	DailyLimit    int       `json:"daily_limit" gorm:"default:20"`
	RequestsToday int       `json:"requests_today" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// RemainingRequests reports how much of today's budget is left.
func (u *User) RemainingRequests() int {
	remaining := u.DailyLimit - u.RequestsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}
