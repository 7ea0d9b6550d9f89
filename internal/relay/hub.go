package relay

import (
	"context"
	"sync"
)

// Hub fans notifications out to in-process subscribers, backing the SSE
// stream for connected clients. Sends never block: a subscriber whose
// buffer is full misses the notification.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan Notification
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	return &Hub{subs: make(map[int64]chan Notification), buffer: buffer}
}

func (h *Hub) Publish(_ context.Context, n Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away; after cancel the channel is closed.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan Notification, h.buffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var _ Publisher = (*Hub)(nil)
