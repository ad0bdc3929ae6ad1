package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

type SuggestionRepository struct {
	db *sqlx.DB
}

func NewSuggestionRepository(db *sqlx.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) (int64, error) {
	query := `
		INSERT INTO ai_suggestions (client_id, from_number, original_message, sentiment, suggestion, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		s.ClientID, s.From, s.OriginalMessage, s.Sentiment, s.Suggestion, s.Confidence, s.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create suggestion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

func (r *SuggestionRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Suggestion, error) {
	query := `
		SELECT id, client_id, from_number, original_message, sentiment, suggestion, confidence, created_at
		FROM ai_suggestions
		WHERE client_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	suggestions := []domain.Suggestion{}
	if err := r.db.SelectContext(ctx, &suggestions, query, clientID, limit); err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	return suggestions, nil
}
