package models

import (
	"time"

	"gorm.io/datatypes"
)

// MessageRole identifies the author side of a conversation turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the two enumerated values.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// MaxMessageLength bounds message content at the service boundary.
const MaxMessageLength = 4096

// Message is one utterance in a conversation, owned by exactly one User.
// Rows are append-only in the steady-state flow: created once per turn,
// deleted only by per-user clear or age-based cleanup.
type Message struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index;not null"`
	Role       MessageRole    `json:"role" gorm:"size:16;not null"`
	Content    string         `json:"content" gorm:"size:4096;not null"`
	AIMetadata datatypes.JSON `json:"ai_metadata,omitempty" gorm:"column:ai_metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName specifies the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}
