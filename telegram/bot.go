package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/apperrors"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/services"
)

const (
	genericErrorReply = "Something went wrong while processing your message. Please try again later."
	emptyTextReply    = "Please send me a text message."
	historyPageSize   = 10
)

// Bot consumes Telegram updates via long polling and routes them to the
// message pipeline and the personal cabinet.
type Bot struct {
	client      *Client
	chat        services.ChatService
	cabinet     services.CabinetService
	pollTimeout int
}

// NewBot creates a Bot. pollTimeout is the getUpdates long-poll timeout
// in seconds.
func NewBot(client *Client, chat services.ChatService, cabinet services.CabinetService, pollTimeout int) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Bot{client: client, chat: chat, cabinet: cabinet, pollTimeout: pollTimeout}
}

// Run polls for updates until the context is cancelled. A failing update
// never crashes the loop: errors are logged and answered generically.
func (b *Bot) Run(ctx context.Context) error {
	log.Println("INFO: [Bot] Starting long-poll loop.")
	var offset int64
	for {
		select {
		case <-ctx.Done():
			log.Println("INFO: [Bot] Stopping long-poll loop.")
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(offset, b.pollTimeout)
		if err != nil {
			log.Printf("WARN: [Bot] getUpdates failed: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			// One goroutine per update so a slow generation does not
			// stall the poll loop for everyone else.
			go b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update: commands to their handlers, plain
// text to the message pipeline.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	var reply string
	var err error
	switch {
	case text == "":
		reply = emptyTextReply
	case strings.HasPrefix(text, "/start"):
		reply = b.startReply(msg.From.FirstName)
	case strings.HasPrefix(text, "/help"):
		reply = helpReply()
	case strings.HasPrefix(text, "/cabinet"):
		reply, err = b.cabinetReply(msg.From.ID)
	case strings.HasPrefix(text, "/history"):
		reply, err = b.historyReply(msg.From.ID)
	case strings.HasPrefix(text, "/export"):
		reply, err = b.cabinet.ExportHistory(msg.From.ID)
	case strings.HasPrefix(text, "/clear"):
		reply, err = b.clearReply(msg.From.ID)
	default:
		reply, err = b.chat.ProcessUserMessage(ctx, msg.From.ID, msg.From.FirstName, msg.From.Username, text)
	}

	if err != nil {
		log.Printf("ERROR: [Bot] Failed to handle update %d from user %d: %v", update.UpdateID, msg.From.ID, err)
		reply = userFacingError(err)
	}

	if sendErr := b.client.SendMessage(msg.Chat.ID, reply); sendErr != nil {
		log.Printf("ERROR: [Bot] Failed to send reply to chat %d: %v", msg.Chat.ID, sendErr)
	}
}

// userFacingError maps the error taxonomy to replies: expected conditions
// get a specific message, faults a generic one (detail stays in the logs).
func userFacingError(err error) string {
	var exceeded *apperrors.QuotaExceededError
	switch {
	case errors.As(err, &exceeded):
		return services.LimitReachedReply
	case errors.Is(err, apperrors.ErrInvalidMessageData):
		return "Your message is empty or too long. Please send up to 4096 characters."
	case errors.Is(err, apperrors.ErrInvalidTelegramID):
		return genericErrorReply
	default:
		return genericErrorReply
	}
}

func (b *Bot) startReply(firstName string) string {
	if firstName == "" {
		firstName = "there"
	}
	return fmt.Sprintf(
		"Welcome to TextFlow AI Bot, %s!\n\n"+
			"Send me any message and I will answer with AI.\n\n"+
			"Commands:\n"+
			"/cabinet - usage statistics\n"+
			"/history - recent messages\n"+
			"/export - export your history\n"+
			"/clear - delete your history\n"+
			"/help - help",
		firstName)
}

func helpReply() string {
	return "Just send a text message to chat with the AI.\n" +
		"Daily limit resets at midnight UTC.\n" +
		"Use /cabinet for your usage statistics."
}

func (b *Bot) cabinetReply(telegramID int64) (string, error) {
	profile, err := b.cabinet.GetProfileInfo(telegramID)
	if err != nil {
		return "", err
	}
	daily, err := b.cabinet.GetDailyUsage(telegramID)
	if err != nil {
		return "", err
	}
	weekly, err := b.cabinet.GetWeeklyStats(telegramID)
	if err != nil {
		return "", err
	}
	allTime, err := b.cabinet.GetAllTimeStats(telegramID)
	if err != nil {
		return "", err
	}

	status := "Active"
	if profile.Limited {
		status = "Limit reached"
	}
	return fmt.Sprintf(
		"Your cabinet\n\n"+
			"Status: %s\n"+
			"Member since: %s\n\n"+
			"Today: %d/%d requests (%.1f%%), %d remaining\n"+
			"Last 7 days: %d messages (%d yours, %d AI), %.1f requests/day\n"+
			"All time: %d messages over %d days",
		status,
		profile.MemberSince.Format("January 2, 2006"),
		daily.RequestsUsed, daily.DailyLimit, daily.UsagePercentage, daily.Remaining,
		weekly.TotalMessages, weekly.UserRequests, weekly.AIResponses, weekly.DailyAverage,
		allTime.TotalMessages, allTime.DaysRegistered), nil
}

func (b *Bot) historyReply(telegramID int64) (string, error) {
	page, err := b.cabinet.GetRecentMessages(telegramID, historyPageSize, 0)
	if err != nil {
		return "", err
	}
	if len(page) == 0 {
		return "No messages yet. Send me something!", nil
	}

	var sb strings.Builder
	sb.WriteString("Recent messages (newest first):\n\n")
	for _, m := range page {
		author := "You"
		if m.Role != models.RoleUser {
			author = "AI"
		}
		content := m.Content
		if len([]rune(content)) > 100 {
			content = string([]rune(content)[:100]) + "..."
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", m.CreatedAt.Format("01/02 15:04"), author, content)
	}
	return sb.String(), nil
}

func (b *Bot) clearReply(telegramID int64) (string, error) {
	removed, err := b.cabinet.ClearHistory(telegramID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("History cleared: %d messages removed.", removed), nil
}
