package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/handlers"
	"github.com/onurcolak/whatsapp-bridge-service/internal/middlewares"
	"github.com/onurcolak/whatsapp-bridge-service/internal/repository"
	"github.com/onurcolak/whatsapp-bridge-service/internal/scheduler"
	"github.com/onurcolak/whatsapp-bridge-service/internal/service"
	"github.com/onurcolak/whatsapp-bridge-service/internal/session"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/ai"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/database"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/gateway"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/redis"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/webhook"
	"github.com/onurcolak/whatsapp-bridge-service/routes"

	_ "github.com/onurcolak/whatsapp-bridge-service/docs" // swagger docs
)

// @title WhatsApp Bridge Service API
// @version 1.0
// @description Bridges WhatsApp gateway instances, simulated QR sessions and webhook message ingestion
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email onur.colak@useinsider.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to read .env file: %v", err)
	}

	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Auth.APIKey == "" {
		logger.Fatalf("API_KEY is required but not set")
	}
	if cfg.Auth.SchedulerAPIKey == "" {
		logger.Fatalf("SCHEDULER_API_KEY is required but not set")
	}

	logger.Infof("Starting WhatsApp Bridge Service...")

	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Valkey is optional: without it sessions stay in memory.
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Valkey not available: %v", err)
		redisClient = nil
	}

	var sessionStore session.Store = session.NewMemoryStore()
	storeName := "memory"
	if cfg.Session.Store == "valkey" {
		if redisClient != nil {
			sessionStore = redis.NewSessionStore(redisClient, cfg.Session.TTL)
			storeName = "valkey"
		} else {
			logger.Warnf("SESSION_STORE=valkey but Valkey is unavailable, falling back to memory")
		}
	}
	logger.Infof("Session store: %s", storeName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var generator ai.Generator = ai.TemplateGenerator{}
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiGenerator(ctx, cfg.AI)
		if err != nil {
			logger.Warnf("Gemini unavailable, using template replies: %v", err)
		} else {
			defer func() {
				if err := gemini.Close(); err != nil {
					logger.Warnf("Failed to close Gemini client: %v", err)
				}
			}()
			generator = gemini
		}
	}

	gatewayClient := gateway.NewClient(cfg.Gateway)
	logger.Infof("Gateway configured: %s", gatewayClient.GetURL())

	alertClient := webhook.NewWebhookClient(cfg.Webhook)

	webhookRepo := repository.NewWebhookRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)

	suggestionService := service.NewSuggestionService(messageRepo, suggestionRepo, generator, cfg.Suggestion)
	webhookService := service.NewWebhookService(webhookRepo, messageRepo, suggestionService)
	eventService := service.NewEventService(messageRepo)
	instanceService := service.NewInstanceService(gatewayClient)
	companionService := service.NewCompanionService(generator)
	notificationService := service.NewNotificationService()

	registry := session.NewRegistry(sessionStore, cfg.Session)

	sched := scheduler.NewScheduler(suggestionService, alertClient, cfg.Suggestion.Interval)

	health := handlers.NewHealthHandler(db, nil, storeName)
	if redisClient != nil {
		health = handlers.NewHealthHandler(db, redisClient, storeName)
	}

	h := routes.Handlers{
		Health:          health,
		Instance:        handlers.NewInstanceHandler(instanceService),
		Message:         handlers.NewMessageHandler(instanceService),
		Webhook:         handlers.NewWebhookHandler(webhookService, suggestionService),
		ProviderWebhook: handlers.NewProviderWebhookHandler(eventService),
		Session:         handlers.NewSessionHandler(registry),
		Companion:       handlers.NewCompanionHandler(companionService),
		Notification:    handlers.NewNotificationHandler(notificationService),
		Scheduler:       handlers.NewSchedulerHandler(sched, ctx, cfg),
	}

	if os.Getenv("AUTO_START_SCHEDULER") != "false" {
		logger.Infof("Auto-starting suggestion scheduler...")
		if err := sched.StartWithParams(
			ctx,
			int(cfg.Suggestion.Interval.Minutes()),
			cfg.Alert.WebhookURL,
			cfg.Alert.IterationCount,
		); err != nil {
			logger.Warnf("Failed to auto-start scheduler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middlewares.APIKeyHeader,
		},
	}))

	routes.RegisterRoutes(e, h, cfg)

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	if sched.IsRunning() {
		logger.Infof("Stopping scheduler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping scheduler: %v", err)
			}
		case <-stopCtx.Done():
			logger.Warnf("Scheduler stop timeout, forcing shutdown")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	registry.Close()

	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	if redisClient != nil {
		logger.Infof("Closing Valkey connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Valkey: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
