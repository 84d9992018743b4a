package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/suntzu974/zevis/internal/hub"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is dead.
	pongWait = 60 * time.Second

	// Ping interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size.
	maxMessageSize = 4096
)

// session is one upgraded connection. It owns a hub subscription for its
// lifetime: readPump publishes inbound frames, writePump drains the
// subscription to the socket.
type session struct {
	conn    *websocket.Conn
	hub     *hub.Hub
	sub     *hub.Subscription
	logger  *slog.Logger
	once    sync.Once
	onClose func()
}

// close tears the session down from either pump. Closing the subscription
// ends writePump, closing the socket ends readPump, so a failure on one side
// unblocks the other.
func (s *session) close() {
	s.once.Do(func() {
		s.sub.Close()
		_ = s.conn.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// readPump reads frames from the peer and publishes them to the hub. One
// goroutine per session. The published message includes the sender's own
// subscription, so senders see their own messages echoed back.
func (s *session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			s.logger.Debug("ignoring non-text frame", "type", kind)
			continue
		}

		payload, err := encodeInbound(raw, time.Now())
		if err != nil {
			s.logger.Error("encode inbound message", "error", err)
			continue
		}
		s.hub.Publish(payload)
	}
}

// writePump forwards hub payloads to the peer and keeps it alive with pings.
// One goroutine per session.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case payload, ok := <-s.sub.C():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
