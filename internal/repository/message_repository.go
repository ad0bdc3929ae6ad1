package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

// Values of whatsapp_messages.processed. processingState marks a message a
// worker has claimed but not yet finished.
const (
	unprocessedState = 0
	processedState   = 1
	processingState  = 2
)

// MessageRepository handles database operations for inbound WhatsApp messages.
type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.InboundMessage) (int64, error) {
	query := `
		INSERT INTO whatsapp_messages (client_id, from_number, message, timestamp, platform, sentiment, processed, webhook_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		m.ClientID, m.From, m.Message, m.Timestamp, m.Platform, m.Sentiment, m.Processed, m.WebhookID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

func (r *MessageRepository) MarkProcessed(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE whatsapp_messages SET processed = ? WHERE id = ?`, processedState, id)
	if err != nil {
		return fmt.Errorf("failed to mark message as processed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no message found with id %d", id)
	}

	return nil
}

// Claim moves an unprocessed message into the in-progress state. It reports
// false when another worker already claimed or processed it.
func (r *MessageRepository) Claim(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE whatsapp_messages SET processed = ? WHERE id = ? AND processed = ?`,
		processingState, id, unprocessedState)
	if err != nil {
		return false, fmt.Errorf("failed to claim message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

// Release returns a claimed message to the backlog.
func (r *MessageRepository) Release(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE whatsapp_messages SET processed = ? WHERE id = ? AND processed = ?`,
		unprocessedState, id, processingState)
	if err != nil {
		return fmt.Errorf("failed to release message: %w", err)
	}
	return nil
}

// GetUnprocessed returns the oldest messages still waiting for a suggestion
// on registrations that have AI assist enabled.
func (r *MessageRepository) GetUnprocessed(ctx context.Context, limit int) ([]domain.InboundMessage, error) {
	query := `
		SELECT m.id, m.client_id, m.from_number, m.message, m.timestamp, m.platform,
		       m.sentiment, m.processed, m.webhook_id
		FROM whatsapp_messages m
		JOIN webhooks w ON w.id = m.webhook_id
		WHERE m.processed = 0 AND w.ai_enabled = 1 AND w.status = 'active'
		ORDER BY m.timestamp ASC
		LIMIT ?
	`

	var messages []domain.InboundMessage
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get unprocessed messages: %w", err)
	}

	return messages, nil
}

// GetStats returns message counts by sentiment for one client.
func (r *MessageRepository) GetStats(ctx context.Context, clientID string) (domain.MessageStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN sentiment = 'positive' THEN 1 ELSE 0 END), 0) AS positive,
			COALESCE(SUM(CASE WHEN sentiment = 'negative' THEN 1 ELSE 0 END), 0) AS negative,
			COALESCE(SUM(CASE WHEN sentiment = 'neutral' THEN 1 ELSE 0 END), 0)  AS neutral,
			COALESCE(SUM(CASE WHEN processed = 1 THEN 1 ELSE 0 END), 0)          AS processed
		FROM whatsapp_messages
		WHERE client_id = ?
	`

	var stats domain.MessageStats
	if err := r.db.GetContext(ctx, &stats, query, clientID); err != nil {
		return domain.MessageStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
