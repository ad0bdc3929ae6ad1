package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

// fakeWebhookRepo keeps registrations in memory, mirroring the MySQL upsert.
type fakeWebhookRepo struct {
	mu       sync.Mutex
	hooks    map[string]domain.Webhook
	upsertErr error
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{hooks: map[string]domain.Webhook{}}
}

func (f *fakeWebhookRepo) Upsert(ctx context.Context, w *domain.Webhook) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.hooks[w.ID]; ok {
		existing.Name = w.Name
		existing.URL = w.URL
		existing.Platform = w.Platform
		existing.Status = w.Status
		existing.UserRole = w.UserRole
		existing.AIEnabled = w.AIEnabled
		existing.UpdatedAt = w.UpdatedAt
		f.hooks[w.ID] = existing
		return nil
	}
	f.hooks[w.ID] = *w
	return nil
}

func (f *fakeWebhookRepo) GetByID(ctx context.Context, id string) (*domain.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.hooks[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (f *fakeWebhookRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []domain.Webhook{}
	for _, w := range f.hooks {
		if w.ClientID == clientID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeWebhookRepo) Delete(ctx context.Context, clientID, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.hooks[id]
	if !ok || w.ClientID != clientID {
		return false, nil
	}
	delete(f.hooks, id)
	return true, nil
}

func (f *fakeWebhookRepo) RecordMessage(ctx context.Context, id string, receivedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.hooks[id]
	if !ok {
		return errors.New("no such webhook")
	}
	w.MessageCount++
	at := receivedAt
	w.LastReceived = &at
	f.hooks[id] = w
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []domain.InboundMessage
	claimed   map[int64]bool
	createErr error
	statsErr  error
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *domain.InboundMessage) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *m
	stored.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, stored)
	return stored.ID, nil
}

func (f *fakeMessageRepo) Claim(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.messages {
		if m.ID != id {
			continue
		}
		if m.Processed || f.claimed[id] {
			return false, nil
		}
		if f.claimed == nil {
			f.claimed = map[int64]bool{}
		}
		f.claimed[id] = true
		return true, nil
	}
	return false, nil
}

func (f *fakeMessageRepo) Release(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.claimed, id)
	return nil
}

func (f *fakeMessageRepo) MarkProcessed(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i].Processed = true
			delete(f.claimed, id)
			return nil
		}
	}
	return errors.New("no such message")
}

func (f *fakeMessageRepo) GetUnprocessed(ctx context.Context, limit int) ([]domain.InboundMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.InboundMessage
	for _, m := range f.messages {
		if !m.Processed && !f.claimed[m.ID] && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) GetStats(ctx context.Context, clientID string) (domain.MessageStats, error) {
	if f.statsErr != nil {
		return domain.MessageStats{}, f.statsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var stats domain.MessageStats
	for _, m := range f.messages {
		if m.ClientID != clientID {
			continue
		}
		stats.Total++
		switch m.Sentiment {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
		if m.Processed {
			stats.Processed++
		}
	}
	return stats, nil
}

func (f *fakeMessageRepo) all() []domain.InboundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.InboundMessage(nil), f.messages...)
}

type fakeSuggestionRepo struct {
	mu          sync.Mutex
	suggestions []domain.Suggestion
}

func (f *fakeSuggestionRepo) Create(ctx context.Context, s *domain.Suggestion) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *s
	stored.ID = int64(len(f.suggestions) + 1)
	f.suggestions = append(f.suggestions, stored)
	return stored.ID, nil
}

func (f *fakeSuggestionRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Suggestion
	for _, s := range f.suggestions {
		if s.ClientID == clientID && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	suggestion string
	reply      string
	err        error
	calls      int
}

func (f *fakeGenerator) Suggest(ctx context.Context, message string, sentiment domain.Sentiment) (string, error) {
	f.calls++
	return f.suggestion, f.err
}

func (f *fakeGenerator) Reply(ctx context.Context, personality domain.Personality, message string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
