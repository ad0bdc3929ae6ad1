package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

func TestEventService_MessagesUpsertStoresIncomingText(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewEventService(messages)

	data := `{"key":{"remoteJid":"5511999@s.whatsapp.net","fromMe":false,"id":"A1"},
		"message":{"conversation":"muito obrigado"},"messageTimestamp":"1709294400"}`

	out := svc.Handle(context.Background(), domain.ProviderEvent{
		Event:    "MESSAGES_UPSERT",
		Instance: "shop",
		Data:     json.RawMessage(data),
	})

	if out.Event != "messages.upsert" || out.Processed != 1 || out.Skipped != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	stored := messages.all()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	got := stored[0]
	if got.From != "5511999" || got.ClientID != "shop" || got.Platform != "whatsapp" {
		t.Errorf("unexpected stored message %+v", got)
	}
	if got.Sentiment != domain.SentimentPositive {
		t.Errorf("expected positive, got %s", got.Sentiment)
	}
	if !got.Timestamp.Equal(time.Unix(1709294400, 0)) {
		t.Errorf("expected provider timestamp, got %v", got.Timestamp)
	}
}

func TestEventService_MessagesUpsertSkipsOwnAndEmpty(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewEventService(messages)

	data := `{"messages":[
		{"key":{"remoteJid":"1@s.whatsapp.net","fromMe":true,"id":"A"},"message":{"conversation":"sent by us"}},
		{"key":{"remoteJid":"2@s.whatsapp.net","id":"B"},"message":{"imageMessage":{}}},
		{"key":{"remoteJid":"3@s.whatsapp.net","id":"C"},"message":{"extendedTextMessage":{"text":"tudo certo"}},"messageTimestamp":1709294400}
	]}`

	out := svc.Handle(context.Background(), domain.ProviderEvent{
		Event:    "messages.upsert",
		Instance: "shop",
		Data:     json.RawMessage(data),
	})

	if out.Processed != 1 || out.Skipped != 2 {
		t.Fatalf("expected 1 processed and 2 skipped, got %+v", out)
	}
	if messages.all()[0].Message != "tudo certo" {
		t.Errorf("unexpected stored text %q", messages.all()[0].Message)
	}
}

func TestEventService_StoreFailureIsCountedNotReturned(t *testing.T) {
	messages := &fakeMessageRepo{createErr: errors.New("db down")}
	svc := NewEventService(messages)

	data := `[{"key":{"remoteJid":"1@s.whatsapp.net","id":"A"},"message":{"conversation":"oi"}}]`
	out := svc.Handle(context.Background(), domain.ProviderEvent{
		Event:    "messages.upsert",
		Instance: "shop",
		Data:     json.RawMessage(data),
	})

	if out.Processed != 0 || out.Skipped != 1 {
		t.Fatalf("expected the failure to be counted as skipped, got %+v", out)
	}
}

func TestEventService_OtherEventsWriteNothing(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewEventService(messages)
	ctx := context.Background()

	cases := map[string]string{
		"QRCODE_UPDATED":      "qrcode.updated",
		"connection.update":   "connection.update",
		"MESSAGES_UPDATE":     "messages.update",
		"APPLICATION_STARTUP": "application.startup",
		"CHATS_SET":           "unknown",
	}

	for tag, want := range cases {
		out := svc.Handle(ctx, domain.ProviderEvent{
			Event:    tag,
			Instance: "shop",
			Data:     json.RawMessage(`{"state":"open"}`),
		})
		if out.Event != want {
			t.Errorf("%s: expected %s, got %s", tag, want, out.Event)
		}
	}

	if n := len(messages.all()); n != 0 {
		t.Errorf("expected no stored messages, got %d", n)
	}
}

func TestEventService_UnreadableUpsertDataIsAcknowledged(t *testing.T) {
	svc := NewEventService(&fakeMessageRepo{})

	out := svc.Handle(context.Background(), domain.ProviderEvent{
		Event:    "messages.upsert",
		Instance: "shop",
		Data:     json.RawMessage(`"not an object"`),
	})
	if out.Processed != 0 || out.Skipped != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}
