package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

type instanceManager interface {
	CreateInstance(ctx context.Context, name, webhookURL string) (*domain.Instance, error)
	GetStatus(ctx context.Context, name string) (*domain.Instance, error)
	DeleteInstance(ctx context.Context, name string) error
}

type InstanceHandler struct {
	service instanceManager
}

func NewInstanceHandler(service instanceManager) *InstanceHandler {
	return &InstanceHandler{service: service}
}

type CreateInstanceRequest struct {
	InstanceName string `json:"instanceName" validate:"required,max=100"`
	WebhookURL   string `json:"webhookUrl" validate:"omitempty,url"`
}

// CreateInstance godoc
// @Summary Create a gateway instance
// @Description Creates the instance on the WhatsApp gateway and requests a connection QR code
// @Tags instances
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param request body CreateInstanceRequest true "Instance to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/instances [post]
func (h *InstanceHandler) CreateInstance(c echo.Context) error {
	var req CreateInstanceRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	inst, err := h.service.CreateInstance(c.Request().Context(), req.InstanceName, req.WebhookURL)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Instance created", map[string]any{"instance": inst})
}

// GetInstance godoc
// @Summary Get instance status
// @Description Returns the gateway connection state plus profile (open) or QR code (close/connecting) when available
// @Tags instances
// @Produce json
// @Param x-api-key header string true "API key"
// @Param name path string true "Instance name"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/instances/{name} [get]
func (h *InstanceHandler) GetInstance(c echo.Context) error {
	inst, err := h.service.GetStatus(c.Request().Context(), c.Param("name"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Ok(c, inst)
}

// DeleteInstance godoc
// @Summary Delete an instance
// @Description Logs the instance out and deletes it on the gateway
// @Tags instances
// @Produce json
// @Param x-api-key header string true "API key"
// @Param name path string true "Instance name"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/instances/{name} [delete]
func (h *InstanceHandler) DeleteInstance(c echo.Context) error {
	name := c.Param("name")
	if err := h.service.DeleteInstance(c.Request().Context(), name); err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Instance " + name + " deleted",
	})
}
