package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/session"
)

func newSessionTestHandler(t *testing.T) *SessionHandler {
	t.Helper()

	registry := session.NewRegistry(session.NewMemoryStore(), environments.SessionConfig{
		QRTimeout: time.Minute,
		QRServer:  "test",
	})
	t.Cleanup(registry.Close)
	return NewSessionHandler(registry)
}

func decodeSession(t *testing.T, env envelope) domain.Session {
	t.Helper()

	var data struct {
		Session domain.Session `json:"session"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	return data.Session
}

func sessionRequest(t *testing.T, method, id, body string, handle func(echo.Context) error) (int, envelope) {
	t.Helper()

	c, rec := newTestContext(method, "/api/v1/sessions/"+id, body)
	c.SetParamNames("name")
	c.SetParamValues(id)

	if err := handle(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec.Code, decodeEnvelope(t, rec)
}

func TestSessionHandler_CreateReturnsQR(t *testing.T) {
	h := newSessionTestHandler(t)

	c, rec := newTestContext(http.MethodPost, "/api/v1/sessions", `{"name": "shop", "clientId": "c1"}`)
	if err := h.CreateSession(c); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	s := decodeSession(t, decodeEnvelope(t, rec))
	if s.ID != "shop" || s.ClientID != "c1" || s.Status != domain.SessionAwaitingScan {
		t.Errorf("unexpected session %+v", s)
	}
	if s.QR == nil || !strings.HasPrefix(*s.QR, "data:image/png;base64,") {
		t.Errorf("expected data URI QR, got %v", s.QR)
	}
}

func TestSessionHandler_CreateWithoutBodyGeneratesID(t *testing.T) {
	h := newSessionTestHandler(t)

	c, rec := newTestContext(http.MethodPost, "/api/v1/sessions", "")
	if err := h.CreateSession(c); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	s := decodeSession(t, decodeEnvelope(t, rec))
	if !strings.HasPrefix(s.ID, "session_") || s.ClientID != "default" {
		t.Errorf("unexpected generated session %+v", s)
	}
}

func TestSessionHandler_DuplicateNameIs400(t *testing.T) {
	h := newSessionTestHandler(t)

	for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
		c, rec := newTestContext(http.MethodPost, "/api/v1/sessions", `{"name": "shop"}`)
		if err := h.CreateSession(c); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
		if rec.Code != want {
			t.Fatalf("attempt %d: expected status %d, got %d", i+1, want, rec.Code)
		}
	}
}

func TestSessionHandler_GetDeleteThenNotFound(t *testing.T) {
	h := newSessionTestHandler(t)

	c, _ := newTestContext(http.MethodPost, "/api/v1/sessions", `{"name": "shop"}`)
	if err := h.CreateSession(c); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	code, env := sessionRequest(t, http.MethodGet, "shop", "", h.GetSession)
	if code != http.StatusOK || decodeSession(t, env).ID != "shop" {
		t.Fatalf("expected session shop, got %d", code)
	}

	code, _ = sessionRequest(t, http.MethodDelete, "shop", "", h.DeleteSession)
	if code != http.StatusOK {
		t.Fatalf("expected status 200 on delete, got %d", code)
	}

	code, _ = sessionRequest(t, http.MethodGet, "shop", "", h.GetSession)
	if code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", code)
	}

	code, _ = sessionRequest(t, http.MethodDelete, "shop", "", h.DeleteSession)
	if code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", code)
	}
}

func TestSessionHandler_ConfirmOnlyOnce(t *testing.T) {
	h := newSessionTestHandler(t)

	c, _ := newTestContext(http.MethodPost, "/api/v1/sessions", `{"name": "shop"}`)
	if err := h.CreateSession(c); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	code, env := sessionRequest(t, http.MethodPost, "shop",
		`{"phone": "+5511999", "name": "Shop"}`, h.ConfirmSession)
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", code, env.Error)
	}

	s := decodeSession(t, env)
	if s.Status != domain.SessionConnected || s.QR != nil {
		t.Errorf("expected connected session without QR, got %+v", s)
	}
	if s.Profile == nil || s.Profile.Phone != "+5511999" {
		t.Errorf("expected supplied profile, got %+v", s.Profile)
	}

	code, _ = sessionRequest(t, http.MethodPost, "shop", "", h.ConfirmSession)
	if code != http.StatusBadRequest {
		t.Fatalf("expected status 400 on second confirm, got %d", code)
	}
}

func TestSessionHandler_EvictClient(t *testing.T) {
	h := newSessionTestHandler(t)

	for _, body := range []string{
		`{"name": "a", "clientId": "c1"}`,
		`{"name": "b", "clientId": "c1"}`,
		`{"name": "c", "clientId": "c2"}`,
	} {
		c, _ := newTestContext(http.MethodPost, "/api/v1/sessions", body)
		if err := h.CreateSession(c); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
	}

	c, rec := newTestContext(http.MethodDelete, "/api/v1/sessions?clientId=c1", "")
	if err := h.EvictClient(c); err != nil {
		t.Fatalf("EvictClient returned error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"removed":2`) {
		t.Fatalf("expected two removed, got %d %s", rec.Code, rec.Body.String())
	}

	c, rec = newTestContext(http.MethodGet, "/api/v1/sessions", "")
	if err := h.ListSessions(c); err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}

	var data struct {
		Sessions []domain.Session `json:"sessions"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatalf("failed to decode sessions: %v", err)
	}
	if len(data.Sessions) != 1 || data.Sessions[0].ClientID != "c2" {
		t.Errorf("expected only c2 session left, got %+v", data.Sessions)
	}
}

func TestSessionHandler_EvictRequiresClientID(t *testing.T) {
	h := newSessionTestHandler(t)

	c, rec := newTestContext(http.MethodDelete, "/api/v1/sessions", "")
	if err := h.EvictClient(c); err != nil {
		t.Fatalf("EvictClient returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
