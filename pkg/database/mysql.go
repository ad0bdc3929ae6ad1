package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS webhooks (
		id VARCHAR(191) PRIMARY KEY,
		client_id VARCHAR(150) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		url VARCHAR(2048) NOT NULL,
		platform VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		user_role VARCHAR(50) NOT NULL DEFAULT 'user',
		message_count BIGINT NOT NULL DEFAULT 0,
		last_received DATETIME NULL,
		ai_enabled TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_webhooks_client_id (client_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS whatsapp_messages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id VARCHAR(150) NOT NULL,
		from_number VARCHAR(64) NOT NULL,
		message TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		platform VARCHAR(50) NOT NULL,
		sentiment VARCHAR(10) NOT NULL,
		processed TINYINT(1) NOT NULL DEFAULT 0,
		webhook_id VARCHAR(191) NULL,
		INDEX idx_whatsapp_messages_client_id (client_id),
		INDEX idx_whatsapp_messages_processed (processed),
		INDEX idx_whatsapp_messages_webhook_id (webhook_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS ai_suggestions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id VARCHAR(150) NOT NULL,
		from_number VARCHAR(64) NOT NULL,
		original_message TEXT NOT NULL,
		sentiment VARCHAR(10) NOT NULL,
		suggestion TEXT NOT NULL,
		confidence DOUBLE NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_ai_suggestions_client_id (client_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

func RunMigrations(db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	logger.Infof("Database migrations completed (%d statements)", len(migrations))

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM webhooks")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d webhooks, skipping seed", count)
		return nil
	}

	testWebhooks := []struct {
		clientID  string
		createdMs string
		name      string
		url       string
		platform  string
		aiEnabled bool
	}{
		{"demo", "1700000000000", "Demo Make scenario", "https://hook.make.com/demo", "make", true},
		{"acme", "1700000000001", "Acme Zapier zap", "https://hooks.zapier.com/hooks/catch/acme", "zapier", false},
		{"globex", "1700000000002", "Globex n8n flow", "https://n8n.globex.example/webhook/wa", "n8n", true},
	}

	for _, w := range testWebhooks {
		id := w.clientID + "_" + w.createdMs
		_, err := db.Exec(
			`INSERT INTO webhooks (id, client_id, name, url, platform, status, ai_enabled)
			 VALUES (?, ?, ?, ?, ?, 'active', ?)`,
			id, w.clientID, w.name, w.url, w.platform, w.aiEnabled,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test webhooks", len(testWebhooks))
	return nil
}
