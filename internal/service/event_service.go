package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/sentiment"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

const providerPlatform = "whatsapp"

// EventOutcome summarises how a provider callback was handled.
type EventOutcome struct {
	Event     string `json:"event"`
	Instance  string `json:"instance"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// EventService routes generic provider callbacks. Only messages.upsert writes
// anything; the other recognised events are logged.
type EventService struct {
	messages messageRepository
	now      func() time.Time
}

func NewEventService(messages messageRepository) *EventService {
	return &EventService{messages: messages, now: time.Now}
}

// Handle never fails: per-message problems are logged and counted as skipped
// so the provider always gets an acknowledgement.
func (s *EventService) Handle(ctx context.Context, ev domain.ProviderEvent) EventOutcome {
	eventType := domain.ParseEventType(ev.Event)
	outcome := EventOutcome{Event: eventType.String(), Instance: ev.Instance}

	switch eventType {
	case domain.EventQRUpdated:
		logger.Infof("Provider event: qr updated for instance %s", ev.Instance)
	case domain.EventConnectionUpdate:
		logger.Infof("Provider event: connection update for instance %s: %s", ev.Instance, connectionState(ev.Data))
	case domain.EventMessagesUpsert:
		outcome.Processed, outcome.Skipped = s.upsertMessages(ctx, ev)
	case domain.EventMessagesUpdate:
		logger.Debugf("Provider event: message status update for instance %s", ev.Instance)
	case domain.EventStartup:
		logger.Infof("Provider event: application startup reported by instance %s", ev.Instance)
	case domain.EventUnknown:
		logger.Warnf("Provider event %q from instance %s not recognised, acknowledging", ev.Event, ev.Instance)
	}

	return outcome
}

func (s *EventService) upsertMessages(ctx context.Context, ev domain.ProviderEvent) (processed, skipped int) {
	batch, err := decodeUpsert(ev.Data)
	if err != nil {
		logger.Warnf("Provider messages.upsert for %s has unreadable data: %v", ev.Instance, err)
		return 0, 0
	}

	for _, pm := range batch {
		if err := s.storeProviderMessage(ctx, ev.Instance, pm); err != nil {
			logger.Warnf("Skipping provider message %s from %s: %v", pm.Key.ID, pm.Key.RemoteJID, err)
			skipped++
			continue
		}
		processed++
	}

	logger.Infof("Provider messages.upsert for %s: %d stored, %d skipped", ev.Instance, processed, skipped)
	return processed, skipped
}

func (s *EventService) storeProviderMessage(ctx context.Context, instance string, pm domain.ProviderMessage) error {
	if pm.Key.FromMe {
		return fmt.Errorf("outgoing message")
	}

	text := strings.TrimSpace(pm.Text())
	if text == "" {
		return fmt.Errorf("no text content")
	}

	from := strings.TrimSpace(strings.SplitN(pm.Key.RemoteJID, "@", 2)[0])
	if from == "" {
		return fmt.Errorf("missing sender")
	}

	ts := s.now()
	if unix := pm.UnixTimestamp(); unix > 0 {
		ts = time.Unix(unix, 0)
	}

	_, err := s.messages.Create(ctx, &domain.InboundMessage{
		ClientID:  instance,
		From:      from,
		Message:   text,
		Timestamp: ts,
		Platform:  providerPlatform,
		Sentiment: sentiment.Tag(text),
	})
	return err
}

// decodeUpsert accepts a single message, a bare list or {messages: [...]}.
func decodeUpsert(raw json.RawMessage) ([]domain.ProviderMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []domain.ProviderMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var wrapped struct {
		Messages []domain.ProviderMessage `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Messages) > 0 {
		return wrapped.Messages, nil
	}

	var single domain.ProviderMessage
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []domain.ProviderMessage{single}, nil
}

func connectionState(raw json.RawMessage) string {
	var data struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.State == "" {
		return "unknown"
	}
	return data.State
}
