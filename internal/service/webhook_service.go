package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/sentiment"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/besteffort"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

type webhookRepository interface {
	Upsert(ctx context.Context, w *domain.Webhook) error
	GetByID(ctx context.Context, id string) (*domain.Webhook, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Webhook, error)
	Delete(ctx context.Context, clientID, id string) (bool, error)
	RecordMessage(ctx context.Context, id string, receivedAt time.Time) error
}

type suggestionMaker interface {
	Generate(ctx context.Context, msg *domain.InboundMessage) (*domain.Suggestion, error)
}

type WebhookService struct {
	webhooks   webhookRepository
	messages   messageRepository
	suggestion suggestionMaker
	now        func() time.Time
}

func NewWebhookService(
	webhooks webhookRepository,
	messages messageRepository,
	suggestion suggestionMaker,
) *WebhookService {
	return &WebhookService{
		webhooks:   webhooks,
		messages:   messages,
		suggestion: suggestion,
		now:        time.Now,
	}
}

type RegisterWebhookInput struct {
	ClientID  string
	Name      string
	URL       string
	Platform  string
	UserRole  string
	AIEnabled bool
}

type IngestInput struct {
	From      string
	Message   string
	Timestamp *time.Time
}

// WebhookID builds the registration id "<clientId>_<unixMillis>".
func WebhookID(clientID string, createdAt time.Time) string {
	return clientID + domain.WebhookIDDelimiter + strconv.FormatInt(createdAt.UnixMilli(), 10)
}

// ClientIDFromWebhookID returns the prefix up to the first delimiter. A client
// id that itself contains the delimiter cannot round-trip, which is why
// registration rejects such ids.
func ClientIDFromWebhookID(webhookID string) (string, bool) {
	clientID, _, found := strings.Cut(webhookID, domain.WebhookIDDelimiter)
	if !found || clientID == "" {
		return "", false
	}
	return clientID, true
}

func (s *WebhookService) Register(ctx context.Context, in RegisterWebhookInput) (*domain.Webhook, error) {
	if strings.Contains(in.ClientID, domain.WebhookIDDelimiter) {
		return nil, fmt.Errorf("%w: clientId must not contain %q", domain.ErrInvalidInput, domain.WebhookIDDelimiter)
	}

	now := s.now()
	name := in.Name
	if name == "" {
		name = fmt.Sprintf("%s webhook", in.Platform)
	}
	role := in.UserRole
	if role == "" {
		role = "user"
	}

	w := &domain.Webhook{
		ID:        WebhookID(in.ClientID, now),
		ClientID:  in.ClientID,
		Name:      name,
		URL:       in.URL,
		Platform:  in.Platform,
		Status:    domain.WebhookActive,
		UserRole:  role,
		AIEnabled: in.AIEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.webhooks.Upsert(ctx, w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	logger.Infof("Webhook %s registered for client %s (%s)", w.ID, w.ClientID, w.Platform)
	return w, nil
}

func (s *WebhookService) List(ctx context.Context, clientID string) ([]domain.Webhook, error) {
	webhooks, err := s.webhooks.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return webhooks, nil
}

func (s *WebhookService) Delete(ctx context.Context, clientID, webhookID string) error {
	deleted, err := s.webhooks.Delete(ctx, clientID, webhookID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if !deleted {
		return fmt.Errorf("%w: webhook %s", domain.ErrNotFound, webhookID)
	}

	logger.Infof("Webhook %s deleted for client %s", webhookID, clientID)
	return nil
}

// Ingest accepts one inbound message for a registration. Unknown, foreign or
// inactive registrations are rejected before any write.
func (s *WebhookService) Ingest(ctx context.Context, webhookID string, in IngestInput) (*domain.IngestResult, error) {
	from := strings.TrimSpace(in.From)
	body := strings.TrimSpace(in.Message)
	if from == "" || body == "" {
		return nil, fmt.Errorf("%w: from and message are required", domain.ErrInvalidInput)
	}

	clientID, ok := ClientIDFromWebhookID(webhookID)
	if !ok {
		return nil, fmt.Errorf("%w: webhook %s", domain.ErrNotFound, webhookID)
	}

	hook, err := s.webhooks.GetByID(ctx, webhookID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if hook == nil || hook.ClientID != clientID || hook.Status != domain.WebhookActive {
		return nil, fmt.Errorf("%w: webhook %s not found or inactive", domain.ErrNotFound, webhookID)
	}

	receivedAt := s.now()
	ts := receivedAt
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}

	hookID := hook.ID
	msg := &domain.InboundMessage{
		ClientID:  clientID,
		From:      from,
		Message:   body,
		Timestamp: ts,
		Platform:  hook.Platform,
		Sentiment: sentiment.Tag(body),
		WebhookID: &hookID,
	}

	id, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	msg.ID = id

	if err := s.webhooks.RecordMessage(ctx, hook.ID, receivedAt); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	result := &domain.IngestResult{
		MessageID: id,
		WebhookID: hook.ID,
		Sentiment: msg.Sentiment,
		Processed: true,
	}

	if hook.AIEnabled && s.suggestion != nil {
		suggested := besteffort.Try(ctx, "suggestion for message "+strconv.FormatInt(id, 10),
			func(ctx context.Context) (*domain.Suggestion, error) {
				return s.suggestion.Generate(ctx, msg)
			})
		if suggested != nil && *suggested != nil {
			text := (*suggested).Suggestion
			result.Suggestion = &text
		}
	}

	logger.Infof("Webhook %s ingested message %d from %s (%s)", hook.ID, id, from, msg.Sentiment)
	return result, nil
}

func (s *WebhookService) Stats(ctx context.Context, clientID string) (domain.MessageStats, error) {
	stats, err := s.messages.GetStats(ctx, clientID)
	if err != nil {
		return domain.MessageStats{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return stats, nil
}
