package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

type messageGateway interface {
	SendMessage(ctx context.Context, name, remoteJID, text string) (*domain.SendResult, error)
	ListMessages(ctx context.Context, name, remoteJID string, limit int) ([]domain.ChatMessage, error)
}

// MessageHandler sends and lists chat messages through a gateway instance.
type MessageHandler struct {
	service messageGateway
}

func NewMessageHandler(service messageGateway) *MessageHandler {
	return &MessageHandler{service: service}
}

type SendMessageRequest struct {
	InstanceName string `json:"instanceName" validate:"required"`
	RemoteJID    string `json:"remoteJid" validate:"required"`
	Message      string `json:"message" validate:"required,max=4096"`
}

// SendMessage godoc
// @Summary Send a text message
// @Description Sends a text message through a connected instance. Rejected when the instance is not open.
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param message body SendMessageRequest true "Message to send"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [post]
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	result, err := h.service.SendMessage(c.Request().Context(), req.InstanceName, req.RemoteJID, req.Message)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Message sent", result)
}

// ListMessages godoc
// @Summary List chat history
// @Description Returns recent messages of an instance, optionally filtered by chat
// @Tags messages
// @Produce json
// @Param x-api-key header string true "API key"
// @Param instanceName query string true "Instance name"
// @Param remoteJid query string false "Chat JID"
// @Param limit query int false "Max messages (default: 20, max: 100)"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [get]
func (h *MessageHandler) ListMessages(c echo.Context) error {
	name := c.QueryParam("instanceName")
	if name == "" {
		return response.BadRequestWithMessage(c, "instanceName is required")
	}

	limit, err := parseLimit(c, 0)
	if err != nil {
		return response.BadRequest(c, err)
	}

	messages, err := h.service.ListMessages(c.Request().Context(), name, c.QueryParam("remoteJid"), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	return response.Ok(c, map[string]any{"messages": messages})
}

// parseLimit reads the optional limit query parameter. Clamping is left to
// the service.
func parseLimit(c echo.Context, fallback int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}
