package domain

import "time"

type SessionStatus string

const (
	SessionAwaitingScan SessionStatus = "awaiting_scan"
	SessionConnected    SessionStatus = "connected"
	SessionExpired      SessionStatus = "expired"
)

// Session is one simulated WhatsApp link attempt. QR is only set while the
// session is awaiting a scan.
type Session struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Name      string          `json:"name,omitempty"`
	Status    SessionStatus   `json:"status"`
	QR        *string         `json:"qr"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Profile   *SessionProfile `json:"profile,omitempty"`
}

type SessionProfile struct {
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	Platform    string    `json:"platform"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// QRPayload is the blob encoded into the session QR image.
type QRPayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	Timestamp int64  `json:"timestamp"`
	Server    string `json:"server"`
}
