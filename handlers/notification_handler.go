package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

type notificationConfigurer interface {
	Configure(cfg domain.NotificationConfig) domain.NotificationConfig
	Config() domain.NotificationConfig
}

type NotificationHandler struct {
	service notificationConfigurer
}

func NewNotificationHandler(service notificationConfigurer) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type NotificationConfigRequest struct {
	Enabled  bool     `json:"enabled"`
	Endpoint string   `json:"endpoint" validate:"omitempty,url"`
	Topics   []string `json:"topics" validate:"omitempty,max=20,dive,required,max=100"`
}

// Configure godoc
// @Summary Set push notification config
// @Description Validates and stores the config. Nothing is delivered.
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param request body NotificationConfigRequest true "Config"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/notifications/config [post]
func (h *NotificationHandler) Configure(c echo.Context) error {
	var req NotificationConfigRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	cfg := h.service.Configure(domain.NotificationConfig{
		Enabled:  req.Enabled,
		Endpoint: req.Endpoint,
		Topics:   req.Topics,
	})
	return response.OkWithMessage(c, "Notification config saved", cfg)
}

// GetConfig godoc
// @Summary Get push notification config
// @Tags notifications
// @Produce json
// @Param x-api-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/notifications/config [get]
func (h *NotificationHandler) GetConfig(c echo.Context) error {
	return response.Ok(c, h.service.Config())
}
