package ws

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/suntzu974/zevis/internal/hub"
	"github.com/suntzu974/zevis/internal/platform/metrics"
)

// Handler upgrades /ws requests and runs a session per connection.
type Handler struct {
	hub      *hub.Hub
	logger   *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewHandler(h *hub.Hub, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     h,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Register mounts the websocket endpoint on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ws", h.handleConnect)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	// Subscribe before the pumps start so no broadcast published after the
	// upgrade can be missed.
	s := &session{
		conn:   conn,
		hub:    h.hub,
		sub:    h.hub.Subscribe(),
		logger: h.logger,
	}
	h.metrics.WSSessions.Inc()
	s.onClose = h.metrics.WSSessions.Dec

	h.logger.Info("websocket session opened", "remote", r.RemoteAddr)
	go s.writePump()
	s.readPump()
	h.logger.Info("websocket session closed", "remote", r.RemoteAddr)
}
