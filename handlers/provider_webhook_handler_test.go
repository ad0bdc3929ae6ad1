package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/service"
)

type fakeDispatcher struct {
	events []domain.ProviderEvent
}

func (f *fakeDispatcher) Handle(ctx context.Context, ev domain.ProviderEvent) service.EventOutcome {
	f.events = append(f.events, ev)
	return service.EventOutcome{Event: domain.ParseEventType(ev.Event).String(), Instance: ev.Instance, Processed: 1}
}

func TestProviderWebhook_InvalidJSONIs400(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	handler := NewProviderWebhookHandler(dispatcher)

	c, rec := newTestContext(http.MethodPost, "/webhook", `{"event": "messages.upsert",`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(dispatcher.events) != 0 {
		t.Errorf("expected no dispatch, got %d", len(dispatcher.events))
	}
}

func TestProviderWebhook_UnexpectedShapeIsAcknowledged(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	handler := NewProviderWebhookHandler(dispatcher)

	c, rec := newTestContext(http.MethodPost, "/webhook", `[1, 2, 3]`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Event != "" {
		t.Errorf("expected one empty event dispatched, got %+v", dispatcher.events)
	}
}

func TestProviderWebhook_DispatchesEvent(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	handler := NewProviderWebhookHandler(dispatcher)

	body := `{"event": "MESSAGES_UPSERT", "instance": "shop", "data": {"key": {"remoteJid": "5511@s.whatsapp.net"}}}`
	c, rec := newTestContext(http.MethodPost, "/webhook", body)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var outcome service.EventOutcome
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &outcome); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if outcome.Event != "messages.upsert" || outcome.Instance != "shop" || outcome.Processed != 1 {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if len(dispatcher.events[0].Data) == 0 {
		t.Errorf("expected raw data to reach the dispatcher")
	}
}
