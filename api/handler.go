package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/services"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/utils"
)

// APIHandler exposes the operational endpoints: health, per-user usage
// statistics, the scheduled quota reset and message cleanup. The chat
// pipeline itself has no HTTP surface; it is driven by the Telegram
// transport.
type APIHandler struct {
	quota    services.QuotaService
	messages services.MessageService
	cabinet  services.CabinetService
}

// NewAPIHandler creates a new APIHandler with its service dependencies.
func NewAPIHandler(quota services.QuotaService, messages services.MessageService, cabinet services.CabinetService) *APIHandler {
	return &APIHandler{quota: quota, messages: messages, cabinet: cabinet}
}

// HealthHandler reports process liveness.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UserStatsHandler returns profile, daily and all-time usage for one user.
func (h *APIHandler) UserStatsHandler(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegramID"), 10, 64)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "telegramID must be an integer", err)
		return
	}

	profile, err := h.cabinet.GetProfileInfo(telegramID)
	if err != nil {
		h.replyError(c, err)
		return
	}
	daily, err := h.cabinet.GetDailyUsage(telegramID)
	if err != nil {
		h.replyError(c, err)
		return
	}
	allTime, err := h.cabinet.GetAllTimeStats(telegramID)
	if err != nil {
		h.replyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":      profile.TelegramID,
		"first_name":       profile.FullName,
		"username":         profile.Username,
		"member_since":     utils.FormatTime(profile.MemberSince),
		"requests_today":   daily.RequestsUsed,
		"daily_limit":      daily.DailyLimit,
		"remaining":        daily.Remaining,
		"usage_percentage": daily.UsagePercentage,
		"total_messages":   allTime.TotalMessages,
		"user_requests":    allTime.UserRequests,
		"ai_responses":     allTime.AIResponses,
	})
}

// ResetQuotasHandler zeroes every nonzero daily counter. This is the
// endpoint a daily scheduler (cron, systemd timer) is expected to hit.
func (h *APIHandler) ResetQuotasHandler(c *gin.Context) {
	affected, err := h.quota.ResetAll()
	if err != nil {
		h.replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users_reset": affected})
}

// CleanupRequest is the body of the message cleanup endpoint.
type CleanupRequest struct {
	Days       int    `json:"days" binding:"required,min=1"`
	TelegramID *int64 `json:"telegram_id,omitempty"`
}

// CleanupMessagesHandler deletes turns older than the given age, globally
// or for a single user.
func (h *APIHandler) CleanupMessagesHandler(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid cleanup request: "+err.Error(), err)
		return
	}

	removed, err := h.messages.DeleteOlderThan(req.Days, req.TelegramID)
	if err != nil {
		h.replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages_removed": removed})
}

// replyError maps the error taxonomy to HTTP statuses.
func (h *APIHandler) replyError(c *gin.Context, err error) {
	var notFound *apperrors.UserNotFoundError
	switch {
	case errors.Is(err, apperrors.ErrInvalidTelegramID):
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidMessageData):
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &notFound):
		utils.SendJSONError(c, http.StatusNotFound, err.Error(), err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
	}
}
