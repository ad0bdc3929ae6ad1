package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/handlers"
	"github.com/onurcolak/whatsapp-bridge-service/internal/middlewares"
)

// Handlers groups everything RegisterRoutes wires.
type Handlers struct {
	Health          *handlers.HealthHandler
	Instance        *handlers.InstanceHandler
	Message         *handlers.MessageHandler
	Webhook         *handlers.WebhookHandler
	ProviderWebhook *handlers.ProviderWebhookHandler
	Session         *handlers.SessionHandler
	Companion       *handlers.CompanionHandler
	Notification    *handlers.NotificationHandler
	Scheduler       *handlers.SchedulerHandler
}

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(e *echo.Echo, h Handlers, cfg *environments.Config) {
	e.GET("/health", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Callbacks from the gateway and from registered platforms carry no key.
	e.POST("/webhook", h.ProviderWebhook.Receive)
	e.POST("/webhooks/whatsapp/:webhookId", h.Webhook.IngestMessage)

	v1 := e.Group("/api/v1", middlewares.APIKeyAuth(cfg.Auth.APIKey))

	instances := v1.Group("/instances")
	instances.POST("", h.Instance.CreateInstance)
	instances.GET("/:name", h.Instance.GetInstance)
	instances.DELETE("/:name", h.Instance.DeleteInstance)

	messages := v1.Group("/messages")
	messages.POST("", h.Message.SendMessage)
	messages.GET("", h.Message.ListMessages)

	webhooks := v1.Group("/webhooks")
	webhooks.POST("/register", h.Webhook.RegisterWebhook)
	webhooks.GET("/list", h.Webhook.ListWebhooks)
	webhooks.DELETE("/list", h.Webhook.DeleteWebhook)
	webhooks.GET("/stats", h.Webhook.GetStats)
	webhooks.GET("/suggestions", h.Webhook.ListSuggestions)

	sessions := v1.Group("/sessions")
	sessions.POST("", h.Session.CreateSession)
	sessions.GET("", h.Session.ListSessions)
	sessions.DELETE("", h.Session.EvictClient)
	sessions.GET("/:name", h.Session.GetSession)
	sessions.DELETE("/:name", h.Session.DeleteSession)
	sessions.POST("/:name/confirm", h.Session.ConfirmSession)

	v1.POST("/companion", h.Companion.Control)
	v1.GET("/companion", h.Companion.Status)

	v1.POST("/notifications/config", h.Notification.Configure)
	v1.GET("/notifications/config", h.Notification.GetConfig)

	// Scheduler routes with their own API key
	schedulerGroup := e.Group("/api/v1/scheduler", middlewares.APIKeyAuth(cfg.Auth.SchedulerAPIKey))

	schedulerGroup.POST("/start", h.Scheduler.StartScheduler)
	schedulerGroup.POST("/stop", h.Scheduler.StopScheduler)
	schedulerGroup.GET("/status", h.Scheduler.GetSchedulerStatus)
}
