// Package hub is the in-process fan-out point between event producers and
// websocket sessions. One Hub is constructed at startup and passed explicitly
// to everything that publishes or subscribes.
package hub

import (
	"log/slog"
	"sync"
)

// Hub distributes published payloads to every current subscriber. Publishing
// never blocks: a subscriber whose buffer is full loses its oldest unread
// payload instead of stalling the publisher or its peers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	logger *slog.Logger
	onDrop func()
}

// Subscription is one subscriber's handle into the hub. Payloads published
// after Subscribe returns arrive on C, in publish order, with gaps when the
// subscriber lags more than the buffer capacity.
type Subscription struct {
	hub  *Hub
	ch   chan []byte
	once sync.Once
}

type Option func(*Hub)

// WithDropHandler registers a callback invoked each time a lagging
// subscriber loses a payload.
func WithDropHandler(fn func()) Option {
	return func(h *Hub) {
		h.onDrop = fn
	}
}

func New(buffer int, logger *slog.Logger, opts ...Option) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	h := &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new subscriber. The caller must Close the
// subscription when done or its buffer is leaked for the hub's lifetime.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{
		hub: h,
		ch:  make(chan []byte, h.buffer),
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish delivers payload to all current subscribers. Safe for arbitrary
// concurrent callers.
func (h *Hub) Publish(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.ch <- payload:
		default:
			// Buffer full: shed the oldest unread payload to make room.
			// A concurrent reader may drain the channel between the two
			// selects, so the enqueue is non-blocking too.
			select {
			case <-s.ch:
				if h.onDrop != nil {
					h.onDrop()
				}
			default:
			}
			select {
			case s.ch <- payload:
			default:
			}
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// C is the receive side of the subscription. It is closed by Close.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close deregisters the subscription and closes its channel. Idempotent.
// Holding the hub's write lock for both steps guarantees no Publish is
// mid-send on the channel when it closes.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}
