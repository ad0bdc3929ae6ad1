package domain

import "time"

type WebhookStatus string

const (
	WebhookActive   WebhookStatus = "active"
	WebhookInactive WebhookStatus = "inactive"
)

// WebhookIDDelimiter separates the owning client id from the creation
// timestamp in a registration id.
const WebhookIDDelimiter = "_"

type Webhook struct {
	ID           string        `db:"id" json:"id"`
	ClientID     string        `db:"client_id" json:"clientId"`
	Name         string        `db:"name" json:"name"`
	URL          string        `db:"url" json:"url"`
	Platform     string        `db:"platform" json:"platform"`
	Status       WebhookStatus `db:"status" json:"status"`
	UserRole     string        `db:"user_role" json:"userRole"`
	MessageCount int64         `db:"message_count" json:"messageCount"`
	LastReceived *time.Time    `db:"last_received" json:"lastReceived,omitempty"`
	AIEnabled    bool          `db:"ai_enabled" json:"aiEnabled"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// InboundMessage is a provider-delivered chat message after normalisation.
type InboundMessage struct {
	ID        int64     `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"clientId"`
	From      string    `db:"from_number" json:"from"`
	Message   string    `db:"message" json:"message"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Platform  string    `db:"platform" json:"platform"`
	Sentiment Sentiment `db:"sentiment" json:"sentiment"`
	Processed bool      `db:"processed" json:"processed"`
	WebhookID *string   `db:"webhook_id" json:"webhookId,omitempty"`
}

type Suggestion struct {
	ID              int64     `db:"id" json:"id"`
	ClientID        string    `db:"client_id" json:"clientId"`
	From            string    `db:"from_number" json:"from"`
	OriginalMessage string    `db:"original_message" json:"originalMessage"`
	Sentiment       Sentiment `db:"sentiment" json:"sentiment"`
	Suggestion      string    `db:"suggestion" json:"suggestion"`
	Confidence      float64   `db:"confidence" json:"confidence"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type IngestResult struct {
	MessageID  int64     `json:"messageId"`
	WebhookID  string    `json:"webhookId"`
	Sentiment  Sentiment `json:"sentiment"`
	Processed  bool      `json:"processed"`
	Suggestion *string   `json:"suggestion,omitempty"`
}

// SuggestionResult reports one backlog retry.
type SuggestionResult struct {
	MessageID int64
	Success   bool
	Error     error
}

type MessageStats struct {
	Total     int64 `db:"total" json:"total"`
	Positive  int64 `db:"positive" json:"positive"`
	Negative  int64 `db:"negative" json:"negative"`
	Neutral   int64 `db:"neutral" json:"neutral"`
	Processed int64 `db:"processed" json:"processed"`
}
