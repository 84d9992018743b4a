// Package notify turns committed mutations into durable events and live
// broadcasts.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/suntzu974/zevis/internal/event"
	"github.com/suntzu974/zevis/internal/hub"
	"github.com/suntzu974/zevis/internal/platform/metrics"
	"github.com/suntzu974/zevis/internal/user"
)

// Service persists each event to the log, then publishes it to the hub.
// Persistence runs first but its failure does not stop the broadcast:
// live notification takes priority over strict consistency. All failures
// are logged and swallowed; callers never see them.
type Service struct {
	log     event.Log
	hub     *hub.Hub
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(log event.Log, h *hub.Hub, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{log: log, hub: h, logger: logger, metrics: m}
}

func (s *Service) UserCreated(ctx context.Context, u user.User) {
	msg := fmt.Sprintf("New user created: %s (%s)", u.Name, u.Email)
	s.emit(ctx, event.TypeUserCreated, msg, u)
}

func (s *Service) UserDeleted(ctx context.Context, u user.User) {
	msg := fmt.Sprintf("User deleted: %s (%s)", u.Name, u.Email)
	s.emit(ctx, event.TypeUserDeleted, msg, u)
}

func (s *Service) emit(ctx context.Context, typ event.Type, msg string, u user.User) {
	snapshot, err := json.Marshal(u)
	if err != nil {
		s.logger.ErrorContext(ctx, "serialize event entity", "error", err, "type", typ)
		return
	}

	evt := event.New(typ, msg, snapshot)

	if err := s.log.Append(ctx, evt); err != nil {
		s.metrics.EventLogFailures.Inc()
		s.logger.ErrorContext(ctx, "append event to log",
			"error", err,
			"event_id", evt.ID,
			"type", typ,
		)
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.ErrorContext(ctx, "serialize event", "error", err, "event_id", evt.ID)
		return
	}

	s.hub.Publish(payload)
	s.metrics.EventsPublished.Inc()
}
