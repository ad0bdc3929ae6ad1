package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/gateway"
)

type fakeGateway struct {
	state      string
	stateErr   error
	connect    *gateway.ConnectResponse
	connectErr error
	profile    *domain.InstanceProfile
	profileErr error
	logoutErr  error
	deleteErr  error
	messages   []domain.ChatMessage

	sendCalls  int
	findLimits []int
}

func (f *fakeGateway) CreateInstance(ctx context.Context, name, webhookURL string) (*gateway.CreateInstanceResponse, error) {
	resp := &gateway.CreateInstanceResponse{}
	resp.Instance.InstanceName = name
	return resp, nil
}

func (f *fakeGateway) Connect(ctx context.Context, name string) (*gateway.ConnectResponse, error) {
	return f.connect, f.connectErr
}

func (f *fakeGateway) ConnectionState(ctx context.Context, name string) (string, error) {
	return f.state, f.stateErr
}

func (f *fakeGateway) FetchProfile(ctx context.Context, name string) (*domain.InstanceProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeGateway) Logout(ctx context.Context, name string) error { return f.logoutErr }

func (f *fakeGateway) Delete(ctx context.Context, name string) error { return f.deleteErr }

func (f *fakeGateway) SendText(ctx context.Context, name, number, text string) (*domain.SendResult, error) {
	f.sendCalls++
	return &domain.SendResult{MessageID: "m1", RemoteJID: number, Status: "PENDING"}, nil
}

func (f *fakeGateway) FindMessages(ctx context.Context, name, remoteJID string, limit int) ([]domain.ChatMessage, error) {
	f.findLimits = append(f.findLimits, limit)
	return f.messages, nil
}

func TestInstanceService_CreateInstanceDefaultsToConnecting(t *testing.T) {
	gw := &fakeGateway{connect: &gateway.ConnectResponse{Base64: "iVBORw0KGgo", PairingCode: "ABCD1234"}}
	svc := NewInstanceService(gw)

	inst, err := svc.CreateInstance(context.Background(), "shop", "https://hooks/x")
	if err != nil {
		t.Fatalf("CreateInstance returned error: %v", err)
	}
	if inst.Status != domain.InstanceStateConnecting {
		t.Errorf("expected connecting, got %s", inst.Status)
	}
	if inst.QR == nil || !strings.HasPrefix(*inst.QR, "data:image/png;base64,") {
		t.Errorf("expected QR data URI, got %v", inst.QR)
	}
	if inst.PairingCode == nil || *inst.PairingCode != "ABCD1234" {
		t.Errorf("expected pairing code, got %v", inst.PairingCode)
	}
	if _, ok := svc.CachedInstance("shop"); !ok {
		t.Errorf("expected instance to be cached")
	}
}

func TestInstanceService_CreateInstanceRequiresName(t *testing.T) {
	svc := NewInstanceService(&fakeGateway{})

	if _, err := svc.CreateInstance(context.Background(), "  ", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInstanceService_GetStatusOpenWithProfile(t *testing.T) {
	gw := &fakeGateway{
		state:   domain.InstanceStateOpen,
		profile: &domain.InstanceProfile{OwnerJID: "5511@s.whatsapp.net", Name: "Shop"},
	}
	svc := NewInstanceService(gw)

	inst, err := svc.GetStatus(context.Background(), "shop")
	if err != nil {
		t.Fatalf("GetStatus returned error: %v", err)
	}
	if inst.Profile == nil || inst.Profile.Name != "Shop" {
		t.Errorf("expected profile, got %+v", inst.Profile)
	}
	if inst.QR != nil {
		t.Errorf("expected no QR for an open instance")
	}
}

func TestInstanceService_GetStatusDegradesWhenProfileFails(t *testing.T) {
	gw := &fakeGateway{state: domain.InstanceStateOpen, profileErr: errors.New("timeout")}
	svc := NewInstanceService(gw)

	inst, err := svc.GetStatus(context.Background(), "shop")
	if err != nil {
		t.Fatalf("expected status despite profile failure, got %v", err)
	}
	if inst.Status != domain.InstanceStateOpen {
		t.Errorf("expected open, got %s", inst.Status)
	}
	if inst.Profile != nil {
		t.Errorf("expected null profile")
	}
}

func TestInstanceService_GetStatusDegradesWhenQRFails(t *testing.T) {
	gw := &fakeGateway{state: domain.InstanceStateClose, connectErr: errors.New("boom")}
	svc := NewInstanceService(gw)

	inst, err := svc.GetStatus(context.Background(), "shop")
	if err != nil {
		t.Fatalf("expected status despite QR failure, got %v", err)
	}
	if inst.QR != nil {
		t.Errorf("expected null QR")
	}
}

func TestInstanceService_GetStatusPropagatesStateError(t *testing.T) {
	gw := &fakeGateway{stateErr: domain.ErrNotFound}
	svc := NewInstanceService(gw)

	if _, err := svc.GetStatus(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInstanceService_DeleteKeepsCacheOnFailure(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{connect: &gateway.ConnectResponse{}}
	svc := NewInstanceService(gw)

	if _, err := svc.CreateInstance(ctx, "shop", ""); err != nil {
		t.Fatalf("CreateInstance returned error: %v", err)
	}

	gw.deleteErr = domain.ErrUpstream
	if err := svc.DeleteInstance(ctx, "shop"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if _, ok := svc.CachedInstance("shop"); !ok {
		t.Fatalf("expected cached instance to survive a failed delete")
	}

	gw.deleteErr = nil
	if err := svc.DeleteInstance(ctx, "shop"); err != nil {
		t.Fatalf("DeleteInstance returned error: %v", err)
	}
	if _, ok := svc.CachedInstance("shop"); ok {
		t.Fatalf("expected cached instance to be evicted")
	}
}

func TestInstanceService_SendRejectsWhenNotOpen(t *testing.T) {
	gw := &fakeGateway{state: domain.InstanceStateConnecting}
	svc := NewInstanceService(gw)

	_, err := svc.SendMessage(context.Background(), "shop", "5511@s.whatsapp.net", "oi")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gw.sendCalls != 0 {
		t.Fatalf("expected no send call, got %d", gw.sendCalls)
	}
}

func TestInstanceService_SendWhenOpen(t *testing.T) {
	gw := &fakeGateway{state: domain.InstanceStateOpen}
	svc := NewInstanceService(gw)

	res, err := svc.SendMessage(context.Background(), "shop", "5511@s.whatsapp.net", "oi")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if res.MessageID != "m1" || gw.sendCalls != 1 {
		t.Fatalf("unexpected send result %+v (calls=%d)", res, gw.sendCalls)
	}
}

func TestInstanceService_ListMessagesClampsLimit(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewInstanceService(gw)
	ctx := context.Background()

	for _, limit := range []int{0, 50, 500} {
		if _, err := svc.ListMessages(ctx, "shop", "5511@s.whatsapp.net", limit); err != nil {
			t.Fatalf("ListMessages returned error: %v", err)
		}
	}

	want := []int{defaultHistoryLimit, 50, maxHistoryLimit}
	for i, got := range gw.findLimits {
		if got != want[i] {
			t.Errorf("call %d: expected limit %d, got %d", i, want[i], got)
		}
	}
}
