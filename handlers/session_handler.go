package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/response"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/validator"
)

type sessionRegistry interface {
	Create(ctx context.Context, clientID, name string) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, clientID string) ([]domain.Session, error)
	Delete(ctx context.Context, id string) error
	Confirm(ctx context.Context, id string, profile *domain.SessionProfile) (*domain.Session, error)
	EvictClient(ctx context.Context, clientID string) (int, error)
}

// SessionHandler exposes the simulated QR sessions.
type SessionHandler struct {
	registry sessionRegistry
}

func NewSessionHandler(registry sessionRegistry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

type CreateSessionRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100,excludesall=/?#"`
	ClientID string `json:"clientId" validate:"omitempty,max=64"`
}

type ConfirmSessionRequest struct {
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Platform string `json:"platform" validate:"omitempty,max=50"`
}

// CreateSession godoc
// @Summary Start a simulated session
// @Description Creates a session awaiting a QR scan. It expires after the QR timeout unless confirmed.
// @Tags sessions
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param request body CreateSessionRequest false "Session options"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	s, err := h.registry.Create(c.Request().Context(), req.ClientID, req.Name)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Session created", map[string]any{"session": s})
}

// ListSessions godoc
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string false "Only sessions of this client"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c echo.Context) error {
	sessions, err := h.registry.List(c.Request().Context(), c.QueryParam("clientId"))
	if err != nil {
		return response.FromError(c, err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	return response.Ok(c, map[string]any{"sessions": sessions})
}

// GetSession godoc
// @Summary Poll a session
// @Tags sessions
// @Produce json
// @Param x-api-key header string true "API key"
// @Param name path string true "Session id"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/sessions/{name} [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	s, err := h.registry.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Ok(c, map[string]any{"session": s})
}

// DeleteSession godoc
// @Summary Remove a session
// @Description Releases the session, cancels its pending timers and deletes it
// @Tags sessions
// @Produce json
// @Param x-api-key header string true "API key"
// @Param name path string true "Session id"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/sessions/{name} [delete]
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	id := c.Param("name")
	if err := h.registry.Delete(c.Request().Context(), id); err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Session removed", map[string]any{"id": id})
}

// EvictClient godoc
// @Summary Remove every session of a client
// @Tags sessions
// @Produce json
// @Param x-api-key header string true "API key"
// @Param clientId query string true "Client id"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/sessions [delete]
func (h *SessionHandler) EvictClient(c echo.Context) error {
	clientID := c.QueryParam("clientId")
	if clientID == "" {
		return response.BadRequestWithMessage(c, "clientId is required")
	}

	removed, err := h.registry.EvictClient(c.Request().Context(), clientID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Client sessions removed", map[string]any{"removed": removed})
}

// ConfirmSession godoc
// @Summary Confirm a QR scan
// @Description Moves an awaiting_scan session to connected. Other states are rejected.
// @Tags sessions
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key"
// @Param name path string true "Session id"
// @Param request body ConfirmSessionRequest false "Linked profile"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/sessions/{name}/confirm [post]
func (h *SessionHandler) ConfirmSession(c echo.Context) error {
	var req ConfirmSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	var profile *domain.SessionProfile
	if req.Phone != "" || req.Name != "" {
		profile = &domain.SessionProfile{Phone: req.Phone, Name: req.Name, Platform: req.Platform}
	}

	s, err := h.registry.Confirm(c.Request().Context(), c.Param("name"), profile)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.OkWithMessage(c, "Session connected", map[string]any{"session": s})
}
