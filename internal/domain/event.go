package domain

import (
	"encoding/json"
	"strings"
)

// EventType is the tag of a generic provider callback.
type EventType int

const (
	EventUnknown EventType = iota
	EventQRUpdated
	EventConnectionUpdate
	EventMessagesUpsert
	EventMessagesUpdate
	EventStartup
)

var eventTags = map[string]EventType{
	"qrcode.updated":      EventQRUpdated,
	"connection.update":   EventConnectionUpdate,
	"messages.upsert":     EventMessagesUpsert,
	"messages.update":     EventMessagesUpdate,
	"application.startup": EventStartup,
}

// ParseEventType accepts both dotted (messages.upsert) and upper snake
// (MESSAGES_UPSERT) tags.
func ParseEventType(tag string) EventType {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "_", ".")
	if t, ok := eventTags[normalized]; ok {
		return t
	}
	return EventUnknown
}

func (t EventType) String() string {
	switch t {
	case EventQRUpdated:
		return "qrcode.updated"
	case EventConnectionUpdate:
		return "connection.update"
	case EventMessagesUpsert:
		return "messages.upsert"
	case EventMessagesUpdate:
		return "messages.update"
	case EventStartup:
		return "application.startup"
	default:
		return "unknown"
	}
}

type ProviderEvent struct {
	Event    string          `json:"event"`
	Instance string          `json:"instance"`
	Data     json.RawMessage `json:"data"`
}

type ProviderMessageKey struct {
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

type ProviderMessage struct {
	Key              ProviderMessageKey `json:"key"`
	PushName         string             `json:"pushName"`
	Message          *ProviderContent   `json:"message"`
	MessageTimestamp json.Number        `json:"messageTimestamp"`
}

type ProviderContent struct {
	Conversation        string `json:"conversation"`
	ExtendedTextMessage *struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage"`
	ImageMessage *struct {
		Caption string `json:"caption"`
	} `json:"imageMessage"`
}

// Text returns the human readable body of the message, if any.
func (m ProviderMessage) Text() string {
	if m.Message == nil {
		return ""
	}
	switch {
	case m.Message.Conversation != "":
		return m.Message.Conversation
	case m.Message.ExtendedTextMessage != nil:
		return m.Message.ExtendedTextMessage.Text
	case m.Message.ImageMessage != nil:
		return m.Message.ImageMessage.Caption
	}
	return ""
}

// UnixTimestamp accepts the timestamp as a number or numeric string; zero
// when absent.
func (m ProviderMessage) UnixTimestamp() int64 {
	n, err := m.MessageTimestamp.Int64()
	if err != nil {
		return 0
	}
	return n
}
