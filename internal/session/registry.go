// Package session owns the simulated WhatsApp link lifecycle: sessions start
// awaiting a QR scan and end connected, expired or removed.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/qrcode"
)

const (
	defaultClientID = "default"
	timerOpTimeout  = 5 * time.Second
)

// Handle is an external client resource bound to a session. It is released
// before the session record is removed.
type Handle interface {
	Disconnect(ctx context.Context) error
}

// entry holds the runtime state of a session that cannot live in the Store.
type entry struct {
	expireTimer  *time.Timer
	connectTimer *time.Timer
	handle       Handle
}

func (e *entry) stopTimers() {
	if e.expireTimer != nil {
		e.expireTimer.Stop()
		e.expireTimer = nil
	}
	if e.connectTimer != nil {
		e.connectTimer.Stop()
		e.connectTimer = nil
	}
}

type Registry struct {
	store Store
	cfg   environments.SessionConfig

	now       func() time.Time
	randDelay func(lo, hi time.Duration) time.Duration
	encodeQR  func(domain.QRPayload) (string, error)

	// mu serialises every transition so a timer firing concurrently with an
	// explicit call sees a consistent record.
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(store Store, cfg environments.SessionConfig) *Registry {
	return &Registry{
		store:     store,
		cfg:       cfg,
		now:       time.Now,
		randDelay: uniformDelay,
		encodeQR:  qrcode.SessionDataURI,
		entries:   make(map[string]*entry),
	}
}

func uniformDelay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)+1))
}

// Create starts a new session awaiting a scan. When name is given it becomes
// the session id.
func (r *Registry) Create(ctx context.Context, clientID, name string) (*domain.Session, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		clientID = defaultClientID
	}

	id := strings.TrimSpace(name)
	if id == "" {
		id = "session_" + uuid.NewString()
	}

	now := r.now()
	qr, err := r.encodeQR(domain.QRPayload{
		SessionID: id,
		ClientID:  clientID,
		Timestamp: now.UnixMilli(),
		Server:    r.cfg.QRServer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build session qr: %w", err)
	}

	s := &domain.Session{
		ID:        id,
		ClientID:  clientID,
		Name:      strings.TrimSpace(name),
		Status:    domain.SessionAwaitingScan,
		QR:        &qr,
		CreatedAt: now,
		ExpiresAt: now.Add(r.cfg.QRTimeout),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Create(ctx, s); err != nil {
		return nil, err
	}

	e := &entry{}
	e.expireTimer = time.AfterFunc(r.cfg.QRTimeout, func() { r.expire(id, e) })
	if r.cfg.SimulateScan {
		delay := r.randDelay(r.cfg.ConnectMin, r.cfg.ConnectMax)
		e.connectTimer = time.AfterFunc(delay, func() { r.simulateScan(id, e) })
		logger.Debugf("Session %s will auto-connect in %v", id, delay)
	}
	r.entries[id] = e

	logger.Infof("Session %s created for client %s (expires at %s)", id, clientID, s.ExpiresAt.Format(time.RFC3339))

	return s, nil
}

// Get returns the session. A session still awaiting a scan past its
// deadline is expired on read, whether or not this process holds its timer.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Session, error) {
	s, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.overdue(s) {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expireOverdueLocked(ctx, id)
}

// List returns every session, or only the sessions of clientID when set.
func (r *Registry) List(ctx context.Context, clientID string) ([]domain.Session, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Session, 0, len(all))
	for _, s := range all {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		if r.overdue(&s) {
			expired, err := r.Get(ctx, s.ID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			s = *expired
		}
		out = append(out, s)
	}
	return out, nil
}

// AttachHandle binds an external resource to a live session.
func (r *Registry) AttachHandle(ctx context.Context, id string, h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Get(ctx, id); err != nil {
		return err
	}

	e, ok := r.entries[id]
	if !ok {
		e = &entry{}
		r.entries[id] = e
	}
	e.handle = h
	return nil
}

// Confirm is the callback-driven scan confirmation: awaiting_scan becomes
// connected. Any other state is rejected.
func (r *Registry) Confirm(ctx context.Context, id string, profile *domain.SessionProfile) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.overdue(s) {
		if s, err = r.expireOverdueLocked(ctx, id); err != nil {
			return nil, err
		}
	}
	if s.Status != domain.SessionAwaitingScan {
		return nil, fmt.Errorf("%w: session %s is %s, not %s",
			domain.ErrInvalidInput, id, s.Status, domain.SessionAwaitingScan)
	}

	if profile == nil {
		profile = r.simulatedProfile()
	}
	if profile.ConnectedAt.IsZero() {
		profile.ConnectedAt = r.now()
	}

	if err := r.connectLocked(ctx, s, profile); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete releases the session handle, cancels pending timers and removes
// the record. A failed release keeps the session intact.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Get(ctx, id); err != nil {
		return err
	}

	e := r.entries[id]
	if e != nil && e.handle != nil {
		if err := e.handle.Disconnect(ctx); err != nil {
			return fmt.Errorf("%w: failed to disconnect session %s: %v", domain.ErrUpstream, id, err)
		}
		e.handle = nil
	}

	if e != nil {
		e.stopTimers()
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	delete(r.entries, id)

	logger.Infof("Session %s removed", id)
	return nil
}

// EvictClient deletes every session owned by clientID and reports how many
// were removed.
func (r *Registry) EvictClient(ctx context.Context, clientID string) (int, error) {
	sessions, err := r.List(ctx, clientID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, s := range sessions {
		if err := r.Delete(ctx, s.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close stops every pending timer. Records stay in the store.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.stopTimers()
	}
}

func (r *Registry) overdue(s *domain.Session) bool {
	return s.Status == domain.SessionAwaitingScan && !r.now().Before(s.ExpiresAt)
}

// expireOverdueLocked re-reads the session under r.mu and expires it if it
// is still awaiting a scan past its deadline.
func (r *Registry) expireOverdueLocked(ctx context.Context, id string) (*domain.Session, error) {
	s, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.overdue(s) {
		return s, nil
	}

	if err := r.markExpired(ctx, s); err != nil {
		return nil, err
	}
	if e := r.entries[id]; e != nil {
		e.stopTimers()
	}
	logger.Infof("Session %s expired on read", id)
	return s, nil
}

func (r *Registry) markExpired(ctx context.Context, s *domain.Session) error {
	s.Status = domain.SessionExpired
	s.QR = nil
	return r.store.Update(ctx, s)
}

func (r *Registry) expire(id string, owner *entry) {
	r.fire(id, owner, "expire", r.markExpired)
}

func (r *Registry) simulateScan(id string, owner *entry) {
	r.fire(id, owner, "auto-connect", func(ctx context.Context, s *domain.Session) error {
		return r.connectLocked(ctx, s, r.simulatedProfile())
	})
}

// fire runs a deferred transition. It is a no-op once the session has left
// awaiting_scan, or when owner no longer backs id because the session was
// removed or recreated under the same name.
func (r *Registry) fire(id string, owner *entry, action string, apply func(context.Context, *domain.Session) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timerOpTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[id] != owner {
		return
	}

	s, err := r.store.Get(ctx, id)
	if err != nil {
		logger.Warnf("Session %s %s skipped: %v", id, action, err)
		return
	}
	if s.Status != domain.SessionAwaitingScan {
		logger.Debugf("Session %s %s skipped, already %s", id, action, s.Status)
		return
	}

	if err := apply(ctx, s); err != nil {
		logger.Errorf("Session %s %s failed: %v", id, action, err)
		return
	}

	if e := r.entries[id]; e != nil {
		e.stopTimers()
	}
	logger.Infof("Session %s is now %s", id, s.Status)
}

func (r *Registry) connectLocked(ctx context.Context, s *domain.Session, profile *domain.SessionProfile) error {
	s.Status = domain.SessionConnected
	s.QR = nil
	s.Profile = profile
	if err := r.store.Update(ctx, s); err != nil {
		return err
	}
	if e := r.entries[s.ID]; e != nil {
		e.stopTimers()
	}
	return nil
}

func (r *Registry) simulatedProfile() *domain.SessionProfile {
	return &domain.SessionProfile{
		Phone:       fmt.Sprintf("+55 11 9%04d-%04d", rand.Intn(10000), rand.Intn(10000)),
		Name:        "WhatsApp User",
		Platform:    "android",
		ConnectedAt: r.now(),
	}
}
