package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

type Client struct {
	client valkey.Client
}

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// SessionStore keeps session records as JSON values under session:<id>.
// Every write refreshes the key TTL.
type SessionStore struct {
	client valkey.Client
	ttl    time.Duration
}

func NewSessionStore(c *Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: c.client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	exists, err := s.client.Do(ctx, s.client.B().Exists().Key(sessionKey(session.ID)).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to check session %s: %w", session.ID, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: session %s already exists", domain.ErrInvalidInput, session.ID)
	}
	return s.put(ctx, session)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	result := s.client.Do(ctx, s.client.B().Get().Key(sessionKey(id)).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}

	return &session, nil
}

func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	if _, err := s.Get(ctx, session.ID); err != nil {
		return err
	}
	return s.put(ctx, session)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Do(ctx, s.client.B().Del().Key(sessionKey(id)).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context) ([]domain.Session, error) {
	pattern := sessionKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		result := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan session keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	sessions := make([]domain.Session, 0, len(keys))
	for _, key := range keys {
		session, err := s.Get(ctx, strings.TrimPrefix(key, sessionKeyPrefix))
		if err != nil {
			// expired between SCAN and GET
			logger.Debugf("skipping session key %q: %v", key, err)
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions, nil
}

func (s *SessionStore) put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	cmd := s.client.B().Set().Key(sessionKey(session.ID)).Value(string(data)).Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.ID, err)
	}

	logger.Debugf("Stored session %s (%s) in Redis", session.ID, session.Status)
	return nil
}
