package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/service"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

const defaultSuggestionLimit = 50

type webhookManager interface {
	Register(ctx context.Context, in service.RegisterWebhookInput) (*domain.Webhook, error)
	List(ctx context.Context, clientID string) ([]domain.Webhook, error)
	Delete(ctx context.Context, clientID, webhookID string) error
	Ingest(ctx context.Context, webhookID string, in service.IngestInput) (*domain.IngestResult, error)
	Stats(ctx context.Context, clientID string) (domain.MessageStats, error)
}

type suggestionLister interface {
	ListSuggestions(ctx context.Context, clientID string, limit int) ([]domain.Suggestion, error)
}

// WebhookHandler manages per-client registrations and their inbound message
// endpoint.
type WebhookHandler struct {
	webhooks    webhookManager
	suggestions suggestionLister
}

func NewWebhookHandler(webhooks webhookManager, suggestions suggestionLister) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, suggestions: suggestions}
}

type RegisterWebhookRequest struct {
	ClientID  string `json:"clientId" validate:"required,clientid,max=64"`
	Name      string `json:"name" validate:"omitempty,max=255"`
	Platform  string `json:"platform" validate:"required,max=50"`
	URL       string `json:"url" validate:"required,url"`
	UserRole  string `json:"userRole" validate:"omitempty,max=50"`
	AIEnabled bool   `json:"aiEnabled"`
}

// IngestRequest accepts timestamp as RFC3339 or unix milliseconds.
type IngestRequest struct {
	From      string `json:"from" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Timestamp any    `json:"timestamp,omitempty" swaggertype:"string"`
}

// RegisterWebhook godoc
// @Summary Register a webhook
// @Description Creates (or updates) a registration with id <clientId>_<unixMillis>
// @Tags webhooks
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param request body RegisterWebhookRequest true "Registration"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/webhooks/register [post]
func (h *WebhookHandler) RegisterWebhook(c echo.Context) error {
	var req RegisterWebhookRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	w, err := h.webhooks.Register(c.Request().Context(), service.RegisterWebhookInput{
		ClientID:  req.ClientID,
		Name:      req.Name,
		URL:       req.URL,
		Platform:  req.Platform,
		UserRole:  req.UserRole,
		AIEnabled: req.AIEnabled,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Webhook registered", map[string]any{
		"webhookId": w.ID,
		"status":    w.Status,
		"webhook":   w,
	})
}

// ListWebhooks godoc
// @Summary List webhooks of a client
// @Tags webhooks
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string true "Client id"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/webhooks/list [get]
func (h *WebhookHandler) ListWebhooks(c echo.Context) error {
	clientID := c.QueryParam("clientId")
	if clientID == "" {
		return response.BadRequestWithMessage(c, "clientId is required")
	}

	webhooks, err := h.webhooks.List(c.Request().Context(), clientID)
	if err != nil {
		return response.FromError(c, err)
	}
	if webhooks == nil {
		webhooks = []domain.Webhook{}
	}

	return response.Ok(c, map[string]any{"webhooks": webhooks})
}

// DeleteWebhook godoc
// @Summary Delete a webhook
// @Tags webhooks
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string true "Client id"
// @Param webhookId query string true "Webhook id"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/webhooks/list [delete]
func (h *WebhookHandler) DeleteWebhook(c echo.Context) error {
	clientID := c.QueryParam("clientId")
	webhookID := c.QueryParam("webhookId")
	if clientID == "" || webhookID == "" {
		return response.BadRequestWithMessage(c, "clientId and webhookId are required")
	}

	if err := h.webhooks.Delete(c.Request().Context(), clientID, webhookID); err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Webhook deleted", map[string]any{"webhookId": webhookID})
}

// IngestMessage godoc
// @Summary Receive a message for a registration
// @Description Tags sentiment, stores the message and bumps the registration counter. Unknown or inactive registrations get 404.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param webhookId path string true "Webhook id"
// @Param request body IngestRequest true "Inbound message"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /webhooks/whatsapp/{webhookId} [post]
func (h *WebhookHandler) IngestMessage(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	ts, err := parseTimestamp(req.Timestamp)
	if err != nil {
		return response.BadRequest(c, err)
	}

	result, err := h.webhooks.Ingest(c.Request().Context(), c.Param("webhookId"), service.IngestInput{
		From:      req.From,
		Message:   req.Message,
		Timestamp: ts,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Message received", result)
}

// GetStats godoc
// @Summary Inbound message statistics
// @Description Counts of a client's stored messages by sentiment
// @Tags webhooks
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string true "Client id"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/webhooks/stats [get]
func (h *WebhookHandler) GetStats(c echo.Context) error {
	clientID := c.QueryParam("clientId")
	if clientID == "" {
		return response.BadRequestWithMessage(c, "clientId is required")
	}

	stats, err := h.webhooks.Stats(c.Request().Context(), clientID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Ok(c, stats)
}

// ListSuggestions godoc
// @Summary List AI reply suggestions
// @Tags webhooks
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string true "Client id"
// @Param limit query int false "Max suggestions (default: 50)"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/webhooks/suggestions [get]
func (h *WebhookHandler) ListSuggestions(c echo.Context) error {
	clientID := c.QueryParam("clientId")
	if clientID == "" {
		return response.BadRequestWithMessage(c, "clientId is required")
	}

	limit, err := parseLimit(c, defaultSuggestionLimit)
	if err != nil {
		return response.BadRequest(c, err)
	}

	suggestions, err := h.suggestions.ListSuggestions(c.Request().Context(), clientID, limit)
	if err != nil {
		return response.FromError(c, err)
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	return response.Ok(c, map[string]any{"suggestions": suggestions})
}

func parseTimestamp(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if t <= 0 || t != math.Trunc(t) {
			return nil, fmt.Errorf("timestamp must be unix milliseconds or RFC3339")
		}
		ts := time.UnixMilli(int64(t))
		return &ts, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			ts := time.UnixMilli(ms)
			return &ts, nil
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("timestamp must be unix milliseconds or RFC3339")
		}
		return &ts, nil
	default:
		return nil, fmt.Errorf("timestamp must be unix milliseconds or RFC3339")
	}
}
