package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/service"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

type companion interface {
	Activate() domain.CompanionStatus
	Deactivate() domain.CompanionStatus
	SetPersonality(p string) (domain.CompanionStatus, error)
	SetDelay(millis int) (domain.CompanionStatus, error)
	ProcessMessage(ctx context.Context, message string) (domain.CompanionReply, error)
	Status() domain.CompanionStatus
}

type CompanionHandler struct {
	companion companion
}

func NewCompanionHandler(c companion) *CompanionHandler {
	return &CompanionHandler{companion: c}
}

// CompanionRequest carries one action. delay may be a number or a numeric
// string.
type CompanionRequest struct {
	Action      string `json:"action" validate:"required,oneof=activate deactivate set_personality set_delay process_message status"`
	Message     string `json:"message,omitempty"`
	Personality string `json:"personality,omitempty"`
	Delay       any    `json:"delay,omitempty" swaggertype:"integer"`
}

// Control godoc
// @Summary Control the companion
// @Description Actions: activate, deactivate, set_personality, set_delay, process_message, status
// @Tags companion
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param request body CompanionRequest true "Action"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/companion [post]
func (h *CompanionHandler) Control(c echo.Context) error {
	var req CompanionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	switch req.Action {
	case "activate":
		return response.OkWithMessage(c, "Companion activated", h.companion.Activate())
	case "deactivate":
		return response.OkWithMessage(c, "Companion deactivated", h.companion.Deactivate())
	case "set_personality":
		status, err := h.companion.SetPersonality(req.Personality)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.OkWithMessage(c, "Personality updated", status)
	case "set_delay":
		millis, err := service.ParseDelay(req.Delay)
		if err != nil {
			return response.FromError(c, err)
		}
		status, err := h.companion.SetDelay(millis)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.OkWithMessage(c, "Delay updated", status)
	case "process_message":
		reply, err := h.companion.ProcessMessage(c.Request().Context(), req.Message)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Ok(c, reply)
	default:
		return response.Ok(c, h.companion.Status())
	}
}

// Status godoc
// @Summary Companion status
// @Tags companion
// @Produce json
// @Param x-api-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/companion [get]
func (h *CompanionHandler) Status(c echo.Context) error {
	return response.Ok(c, h.companion.Status())
}
