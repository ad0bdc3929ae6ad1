package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(environments.GatewayConfig{
		URL:     srv.URL,
		APIKey:  "secret",
		Timeout: 2 * time.Second,
	})
	c.httpClient.SetRetryCount(0)
	return c
}

func TestConnectionState_SendsAPIKeyAndParsesState(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance/connectionState/shop" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("apikey") != "secret" {
			t.Errorf("expected apikey header to be set")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"shop","state":"open"}}`))
	})

	state, err := c.ConnectionState(context.Background(), "shop")
	if err != nil {
		t.Fatalf("ConnectionState returned error: %v", err)
	}
	if state != domain.InstanceStateOpen {
		t.Fatalf("expected state open, got %q", state)
	}
}

func TestSendText_PostsNumberAndText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/message/sendText/shop" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body sendTextRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Number != "5511999999999" || body.Text != "hello" {
			t.Errorf("unexpected body %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"key":{"remoteJid":"5511999999999@s.whatsapp.net","id":"ABC"},"status":"PENDING","messageTimestamp":"1700000000"}`))
	})

	res, err := c.SendText(context.Background(), "shop", "5511999999999", "hello")
	if err != nil {
		t.Fatalf("SendText returned error: %v", err)
	}
	if res.MessageID != "ABC" || res.Timestamp != 1700000000 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheck_MapsStatusCodes(t *testing.T) {
	status := http.StatusNotFound
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	})

	if err := c.Logout(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}

	status = http.StatusBadGateway
	if err := c.Delete(context.Background(), "shop"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream for 502, got %v", err)
	}
}

func TestFindMessages_AcceptsWrappedAndBareLists(t *testing.T) {
	payloads := []string{
		`{"messages":{"records":[{"key":{"remoteJid":"a@s.whatsapp.net","id":"1"},"message":{"conversation":"oi"},"messageTimestamp":1700000000}]}}`,
		`[{"key":{"remoteJid":"a@s.whatsapp.net","id":"1"},"message":{"extendedTextMessage":{"text":"oi"}},"messageTimestamp":1700000000}]`,
	}

	for _, p := range payloads {
		payload := p
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		})

		msgs, err := c.FindMessages(context.Background(), "shop", "a@s.whatsapp.net", 20)
		if err != nil {
			t.Fatalf("FindMessages returned error: %v", err)
		}
		if len(msgs) != 1 || msgs[0].Text != "oi" || msgs[0].Timestamp != 1700000000 {
			t.Fatalf("unexpected messages for %s: %+v", payload, msgs)
		}
	}
}

func newRetryingClient(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(environments.GatewayConfig{URL: srv.URL, APIKey: "secret", Timeout: timeout})
	c.httpClient.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(time.Millisecond)
	return c
}

func TestSendText_TimeoutIsNotRetried(t *testing.T) {
	var posts atomic.Int32
	c := newRetryingClient(t, 100*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	})

	_, err := c.SendText(context.Background(), "shop", "5511999999999", "hello")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream on timeout, got %v", err)
	}
	if got := posts.Load(); got != 1 {
		t.Fatalf("expected exactly one POST to reach the gateway, got %d", got)
	}
}

func TestCreateInstance_ServerErrorIsNotRetried(t *testing.T) {
	var posts atomic.Int32
	c := newRetryingClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.CreateInstance(context.Background(), "shop", ""); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if got := posts.Load(); got != 1 {
		t.Fatalf("expected exactly one POST, got %d", got)
	}
}

func TestConnectionState_RetriesServerErrors(t *testing.T) {
	var gets atomic.Int32
	c := newRetryingClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		if gets.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"shop","state":"open"}}`))
	})

	state, err := c.ConnectionState(context.Background(), "shop")
	if err != nil {
		t.Fatalf("ConnectionState returned error: %v", err)
	}
	if state != domain.InstanceStateOpen || gets.Load() != 3 {
		t.Fatalf("expected open after 3 attempts, got %q after %d", state, gets.Load())
	}
}
