package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/internal/sentiment"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

// Small internal interfaces so we can test without touching a real DB or model.
type messageRepository interface {
	Create(ctx context.Context, m *domain.InboundMessage) (int64, error)
	Claim(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
	MarkProcessed(ctx context.Context, id int64) error
	GetUnprocessed(ctx context.Context, limit int) ([]domain.InboundMessage, error)
	GetStats(ctx context.Context, clientID string) (domain.MessageStats, error)
}

type suggestionRepository interface {
	Create(ctx context.Context, s *domain.Suggestion) (int64, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Suggestion, error)
}

type suggestionGenerator interface {
	Suggest(ctx context.Context, message string, sentiment domain.Sentiment) (string, error)
}

// ErrMessageClaimed is returned by Generate when another worker already
// owns the message.
var ErrMessageClaimed = errors.New("message already claimed")

// SuggestionService generates suggested replies for inbound messages of
// AI-enabled registrations, inline at ingestion and for the backlog.
type SuggestionService struct {
	messages    messageRepository
	suggestions suggestionRepository
	generator   suggestionGenerator
	config      environments.SuggestionConfig
	now         func() time.Time
}

func NewSuggestionService(
	messages messageRepository,
	suggestions suggestionRepository,
	generator suggestionGenerator,
	config environments.SuggestionConfig,
) *SuggestionService {
	return &SuggestionService{
		messages:    messages,
		suggestions: suggestions,
		generator:   generator,
		config:      config,
		now:         time.Now,
	}
}

// Generate produces, stores and returns a suggestion for msg, then marks the
// message processed.
func (s *SuggestionService) Generate(ctx context.Context, msg *domain.InboundMessage) (*domain.Suggestion, error) {
	claimed, err := s.messages.Claim(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: %d", ErrMessageClaimed, msg.ID)
	}

	suggestion, err := s.generate(ctx, msg)
	if err != nil {
		if releaseErr := s.messages.Release(ctx, msg.ID); releaseErr != nil {
			logger.Errorf("Failed to release message %d: %v", msg.ID, releaseErr)
		}
		return nil, err
	}

	// The suggestion is stored, so a failed mark leaves the message claimed
	// rather than back in the backlog.
	if err := s.messages.MarkProcessed(ctx, msg.ID); err != nil {
		return nil, err
	}
	msg.Processed = true

	return suggestion, nil
}

func (s *SuggestionService) generate(ctx context.Context, msg *domain.InboundMessage) (*domain.Suggestion, error) {
	analysis := sentiment.Analyze(msg.Message)

	text, err := s.generator.Suggest(ctx, msg.Message, msg.Sentiment)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestion: %w", err)
	}

	suggestion := &domain.Suggestion{
		ClientID:        msg.ClientID,
		From:            msg.From,
		OriginalMessage: msg.Message,
		Sentiment:       msg.Sentiment,
		Suggestion:      text,
		Confidence:      analysis.Confidence,
		CreatedAt:       s.now(),
	}

	id, err := s.suggestions.Create(ctx, suggestion)
	if err != nil {
		return nil, err
	}
	suggestion.ID = id

	return suggestion, nil
}

// ProcessBacklog retries suggestion generation for messages that were
// ingested but never processed.
func (s *SuggestionService) ProcessBacklog(ctx context.Context) ([]domain.SuggestionResult, error) {
	messages, err := s.messages.GetUnprocessed(ctx, s.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed messages: %w", err)
	}

	if len(messages) == 0 {
		logger.Debugf("No unprocessed messages in backlog")
		return nil, nil
	}

	logger.Infof("Generating suggestions for %d backlog messages", len(messages))

	results := make([]domain.SuggestionResult, 0, len(messages))
	for i := range messages {
		msg := &messages[i]

		result := domain.SuggestionResult{MessageID: msg.ID}
		_, err := s.Generate(ctx, msg)
		if errors.Is(err, ErrMessageClaimed) {
			logger.Debugf("Message %d is being processed elsewhere, skipping", msg.ID)
			continue
		}
		if err != nil {
			logger.Errorf("Failed to generate suggestion for message %d: %v", msg.ID, err)
			result.Error = err
		} else {
			result.Success = true
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *SuggestionService) ListSuggestions(ctx context.Context, clientID string, limit int) ([]domain.Suggestion, error) {
	return s.suggestions.ListByClient(ctx, clientID, limit)
}
