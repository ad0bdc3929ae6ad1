package domain

// Gateway connection states.
const (
	InstanceStateOpen       = "open"
	InstanceStateClose      = "close"
	InstanceStateConnecting = "connecting"
)

type Instance struct {
	Name        string           `json:"instanceName"`
	Status      string           `json:"status"`
	QR          *string          `json:"qr"`
	PairingCode *string          `json:"pairingCode,omitempty"`
	WebhookURL  string           `json:"webhookUrl,omitempty"`
	Profile     *InstanceProfile `json:"profile"`
}

type InstanceProfile struct {
	OwnerJID   string `json:"ownerJid"`
	Name       string `json:"profileName"`
	PictureURL string `json:"profilePicUrl,omitempty"`
}

type SendResult struct {
	MessageID string `json:"messageId"`
	RemoteJID string `json:"remoteJid"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type ChatMessage struct {
	ID        string `json:"id"`
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	PushName  string `json:"pushName,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
