package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
)

// exportPageSize bounds how many turns a single export renders.
const exportPageSize = 1000

// ProfileInfo is the user-facing account summary.
type ProfileInfo struct {
	FullName    string
	Username    string
	TelegramID  int64
	MemberSince time.Time
	Limited     bool
}

// DailyUsage is today's budget consumption.
type DailyUsage struct {
	RequestsUsed    int
	DailyLimit      int
	Remaining       int
	UsagePercentage float64
}

// PeriodStats aggregates turn counts over a time window.
type PeriodStats struct {
	TotalMessages int64
	UserRequests  int64
	AIResponses   int64
	DailyAverage  float64
}

// AllTimeStats aggregates counts since registration.
type AllTimeStats struct {
	TotalMessages   int64
	UserRequests    int64
	AIResponses     int64
	DaysRegistered  int
	AvgDailyRequest float64
}

// CabinetService provides the personal-cabinet statistics and history
// management built on top of the user registry and the message store.
type CabinetService interface {
	GetProfileInfo(telegramID int64) (*ProfileInfo, error)
	GetDailyUsage(telegramID int64) (*DailyUsage, error)
	GetWeeklyStats(telegramID int64) (*PeriodStats, error)
	GetAllTimeStats(telegramID int64) (*AllTimeStats, error)
	// GetRecentMessages returns a newest-first history page.
	GetRecentMessages(telegramID int64, limit, offset int) ([]models.Message, error)
	// ExportHistory renders the full history as plain text, oldest first.
	ExportHistory(telegramID int64) (string, error)
	ClearHistory(telegramID int64) (int64, error)
}

type cabinetService struct {
	users    UserService
	messages MessageService
}

// NewCabinetService creates a new instance of CabinetService.
func NewCabinetService(users UserService, messages MessageService) CabinetService {
	return &cabinetService{users: users, messages: messages}
}

func (s *cabinetService) GetProfileInfo(telegramID int64) (*ProfileInfo, error) {
	user, err := s.users.HandleNewUser(telegramID, "", "")
	if err != nil {
		return nil, err
	}
	return &ProfileInfo{
		FullName:    user.FirstName,
		Username:    user.Username,
		TelegramID:  user.TelegramID,
		MemberSince: user.CreatedAt,
		Limited:     user.RequestsToday >= user.DailyLimit,
	}, nil
}

func (s *cabinetService) GetDailyUsage(telegramID int64) (*DailyUsage, error) {
	user, err := s.users.HandleNewUser(telegramID, "", "")
	if err != nil {
		return nil, err
	}
	usage := &DailyUsage{
		RequestsUsed: user.RequestsToday,
		DailyLimit:   user.DailyLimit,
		Remaining:    user.RemainingRequests(),
	}
	if user.DailyLimit > 0 {
		usage.UsagePercentage = float64(user.RequestsToday) / float64(user.DailyLimit) * 100
	}
	return usage, nil
}

func (s *cabinetService) GetWeeklyStats(telegramID int64) (*PeriodStats, error) {
	if _, err := s.users.HandleNewUser(telegramID, "", ""); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	total, err := s.messages.CountMessages(telegramID, &since)
	if err != nil {
		return nil, err
	}
	userRequests, err := s.messages.CountMessagesByRole(telegramID, models.RoleUser, &since)
	if err != nil {
		return nil, err
	}

	return &PeriodStats{
		TotalMessages: total,
		UserRequests:  userRequests,
		AIResponses:   total - userRequests,
		DailyAverage:  float64(userRequests) / 7,
	}, nil
}

func (s *cabinetService) GetAllTimeStats(telegramID int64) (*AllTimeStats, error) {
	user, err := s.users.HandleNewUser(telegramID, "", "")
	if err != nil {
		return nil, err
	}

	total, err := s.messages.CountMessages(telegramID, nil)
	if err != nil {
		return nil, err
	}
	userRequests, err := s.messages.CountMessagesByRole(telegramID, models.RoleUser, nil)
	if err != nil {
		return nil, err
	}

	daysRegistered := int(time.Since(user.CreatedAt).Hours()/24) + 1
	if daysRegistered < 1 {
		daysRegistered = 1
	}

	return &AllTimeStats{
		TotalMessages:   total,
		UserRequests:    userRequests,
		AIResponses:     total - userRequests,
		DaysRegistered:  daysRegistered,
		AvgDailyRequest: float64(userRequests) / float64(daysRegistered),
	}, nil
}

func (s *cabinetService) GetRecentMessages(telegramID int64, limit, offset int) ([]models.Message, error) {
	if _, err := s.users.HandleNewUser(telegramID, "", ""); err != nil {
		return nil, err
	}
	return s.messages.GetHistoryPage(telegramID, limit, offset)
}

func (s *cabinetService) ExportHistory(telegramID int64) (string, error) {
	user, err := s.users.HandleNewUser(telegramID, "", "")
	if err != nil {
		return "", err
	}

	page, err := s.messages.GetHistoryPage(telegramID, exportPageSize, 0)
	if err != nil {
		return "", err
	}
	// The page is newest-first; the export reads top to bottom.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	var b strings.Builder
	b.WriteString("Message History Export\n")
	fmt.Fprintf(&b, "User: %s\n", user.FirstName)
	fmt.Fprintf(&b, "Exported: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total messages: %d\n", len(page))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, msg := range page {
		author := "You"
		if msg.Role == models.RoleAssistant {
			author = "AI Assistant"
		}
		fmt.Fprintf(&b, "[%d] %s (%s):\n%s\n\n",
			i+1, author, msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Content)
	}
	return b.String(), nil
}

func (s *cabinetService) ClearHistory(telegramID int64) (int64, error) {
	if _, err := s.users.HandleNewUser(telegramID, "", ""); err != nil {
		return 0, err
	}
	return s.messages.ClearHistory(telegramID)
}
