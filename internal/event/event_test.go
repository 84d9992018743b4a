package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suntzu974/zevis/internal/event"
)

func TestNewPopulatesIdentityAndTimestamp(t *testing.T) {
	evt := event.New(event.TypeUserCreated, "New user created: Alice (alice@example.com)", nil)

	require.NotEmpty(t, evt.ID)
	require.Equal(t, event.TypeUserCreated, evt.Type)

	ts, err := time.Parse(time.RFC3339, evt.Timestamp)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestEventWireFormat(t *testing.T) {
	entity, err := json.Marshal(map[string]string{"name": "Alice"})
	require.NoError(t, err)

	raw, err := json.Marshal(event.New(event.TypeUserDeleted, "User deleted: Alice (alice@example.com)", entity))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, field := range []string{"id", "eventType", "entityData", "message", "timestamp"} {
		require.Contains(t, decoded, field)
	}
	require.Equal(t, "user_deleted", decoded["eventType"])
}

func TestMemoryLogAppendAndFailWith(t *testing.T) {
	log := event.NewMemoryLog()
	ctx := context.Background()

	first := event.New(event.TypeUserCreated, "New user created: Alice (alice@example.com)", nil)
	require.NoError(t, log.Append(ctx, first))
	require.Len(t, log.Events(), 1)

	outage := errors.New("disk full")
	log.FailWith(outage)
	err := log.Append(ctx, event.New(event.TypeUserCreated, "New user created: Bob (bob@example.com)", nil))
	require.ErrorIs(t, err, outage)
	require.Len(t, log.Events(), 1)

	log.FailWith(nil)
	require.NoError(t, log.Append(ctx, event.New(event.TypeUserDeleted, "User deleted: Alice (alice@example.com)", nil)))
	require.Len(t, log.Events(), 2)
}
