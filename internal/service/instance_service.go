package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/besteffort"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/gateway"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/qrcode"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type gatewayClient interface {
	CreateInstance(ctx context.Context, name, webhookURL string) (*gateway.CreateInstanceResponse, error)
	Connect(ctx context.Context, name string) (*gateway.ConnectResponse, error)
	ConnectionState(ctx context.Context, name string) (string, error)
	FetchProfile(ctx context.Context, name string) (*domain.InstanceProfile, error)
	Logout(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
	SendText(ctx context.Context, name, number, text string) (*domain.SendResult, error)
	FindMessages(ctx context.Context, name, remoteJID string, limit int) ([]domain.ChatMessage, error)
}

// InstanceService orchestrates gateway-backed instances. Descriptors are kept
// in a local cache so status calls can merge gateway state with what was
// registered here.
type InstanceService struct {
	gateway gatewayClient
	cache   *cache.Cache
}

func NewInstanceService(gw gatewayClient) *InstanceService {
	return &InstanceService{
		gateway: gw,
		cache:   cache.New(cache.NoExpiration, 0),
	}
}

func (s *InstanceService) CreateInstance(ctx context.Context, name, webhookURL string) (*domain.Instance, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: instanceName is required", domain.ErrInvalidInput)
	}

	created, err := s.gateway.CreateInstance(ctx, name, webhookURL)
	if err != nil {
		return nil, err
	}

	connect, err := s.gateway.Connect(ctx, name)
	if err != nil {
		return nil, err
	}

	status := created.Instance.Status
	if status == "" {
		status = domain.InstanceStateConnecting
	}

	inst := &domain.Instance{
		Name:       name,
		Status:     status,
		WebhookURL: webhookURL,
	}
	inst.QR, inst.PairingCode = qrFromConnect(connect)
	if inst.QR == nil && created.QRCode != nil {
		inst.QR, inst.PairingCode = qrFromConnect(created.QRCode)
	}

	s.cache.Set(name, *inst, cache.NoExpiration)
	logger.Infof("Instance %s created (status: %s)", name, status)

	return inst, nil
}

// GetStatus asks the gateway for the connection state. Profile (when open)
// and QR (when closed or connecting) are best-effort and degrade to null.
func (s *InstanceService) GetStatus(ctx context.Context, name string) (*domain.Instance, error) {
	state, err := s.gateway.ConnectionState(ctx, name)
	if err != nil {
		return nil, err
	}

	inst := domain.Instance{Name: name}
	if cached, ok := s.cache.Get(name); ok {
		inst = cached.(domain.Instance)
		inst.QR, inst.PairingCode, inst.Profile = nil, nil, nil
	}
	inst.Status = state

	switch state {
	case domain.InstanceStateOpen:
		if profile := besteffort.Try(ctx, "profile fetch for "+name, func(ctx context.Context) (*domain.InstanceProfile, error) {
			return s.gateway.FetchProfile(ctx, name)
		}); profile != nil {
			inst.Profile = *profile
		}
	case domain.InstanceStateClose, domain.InstanceStateConnecting:
		if connect := besteffort.Try(ctx, "qr fetch for "+name, func(ctx context.Context) (*gateway.ConnectResponse, error) {
			return s.gateway.Connect(ctx, name)
		}); connect != nil {
			inst.QR, inst.PairingCode = qrFromConnect(*connect)
		}
	}

	s.cache.Set(name, inst, cache.NoExpiration)
	return &inst, nil
}

// DeleteInstance logs out then deletes. The local entry is evicted only when
// both succeed, so a failure never drops the handle of a live instance.
func (s *InstanceService) DeleteInstance(ctx context.Context, name string) error {
	if err := s.gateway.Logout(ctx, name); err != nil {
		return err
	}
	if err := s.gateway.Delete(ctx, name); err != nil {
		return err
	}

	s.cache.Delete(name)
	logger.Infof("Instance %s deleted", name)
	return nil
}

// SendMessage re-checks the connection first. The check is not atomic with
// the send; the gateway's own send failure is authoritative.
func (s *InstanceService) SendMessage(ctx context.Context, name, remoteJID, text string) (*domain.SendResult, error) {
	state, err := s.gateway.ConnectionState(ctx, name)
	if err != nil {
		return nil, err
	}
	if state != domain.InstanceStateOpen {
		return nil, fmt.Errorf("%w: instance %s is not connected (state: %s)", domain.ErrInvalidInput, name, state)
	}

	return s.gateway.SendText(ctx, name, remoteJID, text)
}

func (s *InstanceService) ListMessages(ctx context.Context, name, remoteJID string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.gateway.FindMessages(ctx, name, remoteJID, limit)
}

// CachedInstance reports the locally known descriptor, if any.
func (s *InstanceService) CachedInstance(name string) (*domain.Instance, bool) {
	v, ok := s.cache.Get(name)
	if !ok {
		return nil, false
	}
	inst := v.(domain.Instance)
	return &inst, true
}

func qrFromConnect(c *gateway.ConnectResponse) (qr *string, pairing *string) {
	if c == nil {
		return nil, nil
	}
	if c.PairingCode != "" {
		code := c.PairingCode
		pairing = &code
	}

	switch {
	case c.Base64 != "":
		uri := c.Base64
		if !strings.HasPrefix(uri, "data:") {
			uri = qrcode.DataURIPrefix + uri
		}
		qr = &uri
	case c.Code != "":
		if uri, err := qrcode.DataURI(c.Code); err == nil {
			qr = &uri
		} else {
			logger.Warnf("Failed to render gateway qr code: %v", err)
		}
	}
	return qr, pairing
}
