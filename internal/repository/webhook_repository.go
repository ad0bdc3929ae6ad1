package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

// WebhookRepository handles database operations for webhook registrations.
type WebhookRepository struct {
	db *sqlx.DB
}

func NewWebhookRepository(db *sqlx.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

const webhookColumns = `id, client_id, name, url, platform, status, user_role,
	message_count, last_received, ai_enabled, created_at, updated_at`

// Upsert inserts the registration or, when the id already exists, refreshes
// its url, platform, status and flags.
func (r *WebhookRepository) Upsert(ctx context.Context, w *domain.Webhook) error {
	query := `
		INSERT INTO webhooks (id, client_id, name, url, platform, status, user_role, ai_enabled, created_at, updated_at)
		VALUES (:id, :client_id, :name, :url, :platform, :status, :user_role, :ai_enabled, :created_at, :updated_at)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			url = VALUES(url),
			platform = VALUES(platform),
			status = VALUES(status),
			user_role = VALUES(user_role),
			ai_enabled = VALUES(ai_enabled),
			updated_at = VALUES(updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, w); err != nil {
		return fmt.Errorf("failed to upsert webhook: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when no registration matches.
func (r *WebhookRepository) GetByID(ctx context.Context, id string) (*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = ?`

	var w domain.Webhook
	if err := r.db.GetContext(ctx, &w, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}

	return &w, nil
}

func (r *WebhookRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE client_id = ? ORDER BY created_at DESC`

	webhooks := []domain.Webhook{}
	if err := r.db.SelectContext(ctx, &webhooks, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	return webhooks, nil
}

// Delete reports whether a registration of clientID with that id existed.
func (r *WebhookRepository) Delete(ctx context.Context, clientID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return false, fmt.Errorf("failed to delete webhook: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// RecordMessage bumps the counter in a single statement so concurrent
// ingestions are serialised by the database.
func (r *WebhookRepository) RecordMessage(ctx context.Context, id string, receivedAt time.Time) error {
	query := `
		UPDATE webhooks
		SET message_count = message_count + 1, last_received = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, receivedAt, id)
	if err != nil {
		return fmt.Errorf("failed to record webhook message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no webhook found with id %s", id)
	}

	return nil
}
