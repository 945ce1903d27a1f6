package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures. They are raised before any
// store mutation, so callers can safely treat them as "nothing happened".
var (
	// ErrInvalidTelegramID indicates a malformed external user identifier.
	ErrInvalidTelegramID = errors.New("telegram id must be a positive 9-10 digit number")

	// ErrInvalidMessageData indicates empty or oversized message content.
	ErrInvalidMessageData = errors.New("invalid message data")
)

// UserNotFoundError indicates an operation referenced a user record that
// does not exist. This is a caller invariant violation: admission must
// always precede message operations.
type UserNotFoundError struct {
	TelegramID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with telegram id %d not found", e.TelegramID)
}

// QuotaExceededError indicates the user exhausted the daily request budget.
// It is an expected, user-visible condition, not a system failure.
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user requests count %d exceeded daily limit %d", e.Used, e.Limit)
}

// ProviderError wraps a failure of the generative-text backend. The core
// performs no internal retry; the caller decides what to do with it.
type ProviderError struct {
	Model string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider failed (model %s): %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StorageError wraps any persistence-layer failure so raw driver errors
// never leak past the repository boundary.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
