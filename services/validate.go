package services

import (
	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
)

// Telegram assigns user ids in the 9-10 decimal digit range; anything
// outside it is rejected before any store lookup.
const (
	minTelegramID = 100000000
	maxTelegramID = 9999999999
)

func validateTelegramID(telegramID int64) error {
	if telegramID < minTelegramID || telegramID > maxTelegramID {
		return apperrors.ErrInvalidTelegramID
	}
	return nil
}
