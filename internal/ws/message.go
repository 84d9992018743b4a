// Package ws upgrades HTTP connections to websocket sessions and bridges them
// to the broadcast hub: inbound frames become published payloads, published
// payloads become outbound frames.
package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the chat frame exchanged with websocket clients.
type Message struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// encodeInbound normalizes a raw inbound frame into the canonical wire form
// published to the hub.
func encodeInbound(raw []byte, now time.Time) ([]byte, error) {
	return json.Marshal(parseInbound(raw, now))
}

// parseInbound decodes raw as a Message. A frame that is not a well-formed
// Message is not rejected: it is wrapped into an anonymous message carrying
// the raw text, so every inbound frame still reaches the hub.
func parseInbound(raw []byte, now time.Time) Message {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Message != "" {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if msg.User == "" {
			msg.User = "anonymous"
		}
		if msg.Timestamp == "" {
			msg.Timestamp = now.UTC().Format(time.RFC3339)
		}
		return msg
	}

	return Message{
		ID:        uuid.NewString(),
		User:      "anonymous",
		Message:   string(raw),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
