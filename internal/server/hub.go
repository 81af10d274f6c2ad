package server

import (
	"log/slog"
	"sync"
)

// Per-subscriber send buffer. A subscriber that falls this far behind is
// dropped rather than allowed to stall the whole table.
const subscriberBuffer = 256

// Hub fans outbound frames out to every live connection. Delivery to any
// single subscriber preserves send order; there is no cross-subscriber
// synchronization.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]chan []byte
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan []byte)}
}

// Subscribe registers a connection and returns its receive channel. The
// channel is closed on Unsubscribe or when the subscriber is dropped for
// falling behind.
func (h *Hub) Subscribe(connID string) <-chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan []byte, subscriberBuffer)
	h.subscribers[connID] = ch
	return ch
}

// Unsubscribe removes a connection and closes its channel.
func (h *Hub) Unsubscribe(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[connID]; ok {
		delete(h.subscribers, connID)
		close(ch)
	}
}

// Broadcast queues a frame for every subscriber.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID, ch := range h.subscribers {
		select {
		case ch <- data:
		default:
			slog.Warn("dropping slow subscriber", "connection_id", connID)
			delete(h.subscribers, connID)
			close(ch)
		}
	}
}

// Send queues a frame for a single subscriber.
func (h *Hub) Send(connID string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subscribers[connID]
	if !ok {
		return
	}
	select {
	case ch <- data:
	default:
		slog.Warn("dropping slow subscriber", "connection_id", connID)
		delete(h.subscribers, connID)
		close(ch)
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
