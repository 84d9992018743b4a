// Package event defines the durable domain event record and its append-only
// log contract.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the business-significant state changes recorded by the log.
type Type string

const (
	TypeUserCreated Type = "user_created"
	TypeUserDeleted Type = "user_deleted"
)

// Event is immutable once created. The JSON shape doubles as the websocket
// notification payload, so field names are part of the wire contract.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"eventType"`
	EntityData json.RawMessage `json:"entityData"`
	Message    string          `json:"message"`
	Timestamp  string          `json:"timestamp"`
}

// New builds an event with a fresh id and the current UTC time.
func New(typ Type, message string, entity json.RawMessage) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		EntityData: entity,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Log is the append-only persistence contract. Once Append returns nil the
// event survives a process restart. Append failures must not stop the caller
// from continuing; notification delivery takes priority over durability.
type Log interface {
	Append(ctx context.Context, evt Event) error
}
