package handlers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/service"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
)

const maxProviderPayload = 5 << 20

type eventDispatcher interface {
	Handle(ctx context.Context, ev domain.ProviderEvent) service.EventOutcome
}

// ProviderWebhookHandler receives the gateway's own event callbacks.
type ProviderWebhookHandler struct {
	events eventDispatcher
}

func NewProviderWebhookHandler(events eventDispatcher) *ProviderWebhookHandler {
	return &ProviderWebhookHandler{events: events}
}

// Receive godoc
// @Summary Provider event callback
// @Description Accepts any gateway event. Only a body that is not JSON is rejected; everything else is acknowledged so the provider does not redeliver.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body domain.ProviderEvent true "Provider event"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /webhook [post]
func (h *ProviderWebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxProviderPayload))
	if err != nil {
		return response.BadRequestWithMessage(c, "unable to read request body")
	}

	if !json.Valid(body) {
		return response.BadRequestWithMessage(c, "invalid JSON payload")
	}

	// Valid JSON of an unexpected shape is acknowledged as an unknown event.
	var ev domain.ProviderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logger.Warnf("Provider callback has unexpected shape: %v", err)
		ev = domain.ProviderEvent{}
	}

	outcome := h.events.Handle(c.Request().Context(), ev)
	return response.OkWithMessage(c, "Event received", outcome)
}
