package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vertigoDK/TextFlowAI-TelegramBot/api"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/config"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/database"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/middleware"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/models"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/repository"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/services"
	"github.com/vertigoDK/TextFlowAI-TelegramBot/telegram"
)

const telegramAPIBase = "https://api.telegram.org/bot"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load configuration: %v", err)
	}

	db, err := database.Init(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}
	runMigrations(db)

	// Repositories
	userRepo := repository.NewUserRepository(db, cfg.Limits.DailyRequests)
	messageRepo := repository.NewMessageRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Services
	userService := services.NewUserService(userRepo)
	quotaService := services.NewQuotaService(userRepo)
	messageService := services.NewMessageService(userRepo, messageRepo, cfg.Limits.MaxMessageLength)
	provider, err := services.NewOpenAIProvider(cfg)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize AI provider: %v", err)
	}
	generator := services.NewGenerator(provider, services.NewConversationPromptBuilder(cfg.AI.SystemPrompt))
	chatService := services.NewChatService(userService, quotaService, messageService, generator, cfg.Limits.ContextWindow)
	cabinetService := services.NewCabinetService(userService, messageService)
	log.Println("INFO: [Main] Services initialized.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram transport
	if cfg.Telegram.Token == "" {
		log.Fatalf("FATAL: [Main] telegram.token is not configured.")
	}
	botClient := telegram.NewClient(telegramAPIBase+cfg.Telegram.Token,
		time.Duration(cfg.Telegram.PollTimeoutSeconds+10)*time.Second)
	bot := telegram.NewBot(botClient, chatService, cabinetService, cfg.Telegram.PollTimeoutSeconds)
	go func() {
		if err := bot.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("ERROR: [Main] Bot loop stopped: %v", err)
		}
	}()

	// Daily quota reset at midnight UTC.
	go runDailyReset(ctx, quotaService)

	// Operational HTTP API
	apiHandler := api.NewAPIHandler(quotaService, messageService, cabinetService)
	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	serverPort := ":" + cfg.Server.Port
	log.Printf("INFO: [Main] Starting server on %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	r.GET("/healthz", handler.HealthHandler)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/users/:telegramID/stats", handler.UserStatsHandler)
		apiGroup.POST("/quota/reset", handler.ResetQuotasHandler)
		apiGroup.POST("/messages/cleanup", handler.CleanupMessagesHandler)
	}
}

// runDailyReset zeroes the per-user counters at every midnight UTC.
func runDailyReset(ctx context.Context, quota services.QuotaService) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}
		if _, err := quota.ResetAll(); err != nil {
			log.Printf("ERROR: [Main] Daily quota reset failed: %v", err)
		}
	}
}
