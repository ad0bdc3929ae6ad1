// Package gateway talks to the external WhatsApp gateway HTTP API.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

const apiKeyHeader = "apikey"

var defaultWebhookEvents = []string{
	"QRCODE_UPDATED",
	"CONNECTION_UPDATE",
	"MESSAGES_UPSERT",
	"MESSAGES_UPDATE",
	"APPLICATION_STARTUP",
}

type Client struct {
	httpClient *resty.Client
	baseURL    string
}

func NewClient(cfg environments.GatewayConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(300*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		AddRetryCondition(retryReads).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(apiKeyHeader, cfg.APIKey)

	return &Client{
		httpClient: client,
		baseURL:    cfg.URL,
	}
}

// retryReads retries only GETs. A POST or DELETE that timed out may already
// have reached WhatsApp, so its first failure is final.
func retryReads(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) GetURL() string {
	return c.baseURL
}

type createInstanceRequest struct {
	InstanceName string          `json:"instanceName"`
	QRCode       bool            `json:"qrcode"`
	Integration  string          `json:"integration"`
	Webhook      *webhookRequest `json:"webhook,omitempty"`
}

type webhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

type CreateInstanceResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		Status       string `json:"status"`
	} `json:"instance"`
	QRCode *ConnectResponse `json:"qrcode"`
}

// ConnectResponse carries the pairing material. Base64 is already a data URI
// when present; Code is the raw QR content.
type ConnectResponse struct {
	PairingCode string `json:"pairingCode"`
	Code        string `json:"code"`
	Base64      string `json:"base64"`
}

type connectionStateResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	} `json:"instance"`
}

type fetchedInstance struct {
	Name          string `json:"name"`
	OwnerJID      string `json:"ownerJid"`
	ProfileName   string `json:"profileName"`
	ProfilePicURL string `json:"profilePicUrl"`
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendTextResponse struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		ID        string `json:"id"`
	} `json:"key"`
	Status           string `json:"status"`
	MessageTimestamp any    `json:"messageTimestamp"`
}

func (c *Client) CreateInstance(ctx context.Context, name, webhookURL string) (*CreateInstanceResponse, error) {
	payload := createInstanceRequest{
		InstanceName: name,
		QRCode:       true,
		Integration:  "WHATSAPP-BAILEYS",
	}
	if webhookURL != "" {
		payload.Webhook = &webhookRequest{URL: webhookURL, Events: defaultWebhookEvents}
	}

	var out CreateInstanceResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/instance/create")
	if err := check("create instance", resp, err); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Connect(ctx context.Context, name string) (*ConnectResponse, error) {
	var out ConnectResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(&out).
		Get("/instance/connect/{name}")
	if err := check("connect instance", resp, err); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ConnectionState(ctx context.Context, name string) (string, error) {
	var out connectionStateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(&out).
		Get("/instance/connectionState/{name}")
	if err := check("connection state", resp, err); err != nil {
		return "", err
	}

	return out.Instance.State, nil
}

func (c *Client) FetchProfile(ctx context.Context, name string) (*domain.InstanceProfile, error) {
	var out []fetchedInstance
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("instanceName", name).
		SetResult(&out).
		Get("/instance/fetchInstances")
	if err := check("fetch instance", resp, err); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: gateway returned no profile for %s", domain.ErrUpstream, name)
	}

	return &domain.InstanceProfile{
		OwnerJID:   out[0].OwnerJID,
		Name:       out[0].ProfileName,
		PictureURL: out[0].ProfilePicURL,
	}, nil
}

func (c *Client) Logout(ctx context.Context, name string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Delete("/instance/logout/{name}")
	return check("logout instance", resp, err)
}

func (c *Client) Delete(ctx context.Context, name string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Delete("/instance/delete/{name}")
	return check("delete instance", resp, err)
}

func (c *Client) SendText(ctx context.Context, name, number, text string) (*domain.SendResult, error) {
	var out sendTextResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetBody(sendTextRequest{Number: number, Text: text}).
		SetResult(&out).
		Post("/message/sendText/{name}")
	if err := check("send text", resp, err); err != nil {
		return nil, err
	}

	logger.Infof("Gateway sendText for %s completed in %v (status: %d)", name, time.Since(startTime), resp.StatusCode())

	return &domain.SendResult{
		MessageID: out.Key.ID,
		RemoteJID: out.Key.RemoteJID,
		Status:    out.Status,
		Timestamp: asUnix(out.MessageTimestamp),
	}, nil
}

type findMessagesRequest struct {
	Where struct {
		Key struct {
			RemoteJID string `json:"remoteJid,omitempty"`
		} `json:"key"`
	} `json:"where"`
	Limit int `json:"limit,omitempty"`
}

type gatewayMessage struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	PushName         string                  `json:"pushName"`
	Message          *domain.ProviderContent `json:"message"`
	MessageTimestamp any                     `json:"messageTimestamp"`
}

// FindMessages returns chat history. Newer gateway versions wrap the list in
// {messages: {records: [...]}}, older ones return a bare array.
func (c *Client) FindMessages(ctx context.Context, name, remoteJID string, limit int) ([]domain.ChatMessage, error) {
	var body findMessagesRequest
	body.Where.Key.RemoteJID = remoteJID
	body.Limit = limit

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetBody(body).
		Post("/chat/findMessages/{name}")
	if err := check("find messages", resp, err); err != nil {
		return nil, err
	}

	records, err := decodeMessages(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: find messages: %v", domain.ErrUpstream, err)
	}

	out := make([]domain.ChatMessage, 0, len(records))
	for _, r := range records {
		pm := domain.ProviderMessage{Message: r.Message}
		out = append(out, domain.ChatMessage{
			ID:        r.Key.ID,
			RemoteJID: r.Key.RemoteJID,
			FromMe:    r.Key.FromMe,
			PushName:  r.PushName,
			Text:      pm.Text(),
			Timestamp: asUnix(r.MessageTimestamp),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func decodeMessages(raw []byte) ([]gatewayMessage, error) {
	var wrapped struct {
		Messages struct {
			Records []gatewayMessage `json:"records"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Messages.Records != nil {
		return wrapped.Messages.Records, nil
	}

	var list []gatewayMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("unexpected messages payload: %w", err)
	}
	return list, nil
}

// asUnix accepts the gateway's timestamp as a number or numeric string.
func asUnix(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		var n int64
		if _, err := fmt.Sscan(t, &n); err == nil {
			return n
		}
	}
	return 0
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, op, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s: gateway returned 404", domain.ErrNotFound, op)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrUpstream, op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
