package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer bounds each subscriber channel; a slow subscriber drops
// events rather than blocking the publisher.
const subscriberBuffer = 16

// Hub is the in-process channel registry backing the SSE stream. It is an
// injected capability, not a process-wide singleton.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener on a channel. The returned cancel func must
// be called when the listener goes away; it closes the event channel.
func (h *Hub) Subscribe(channel string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[chan Event]struct{})
	}
	h.subs[channel][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[channel]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(h.subs, channel)
				}
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers the event to current subscribers of the channel. Events
// for channels without subscribers are dropped; full subscriber buffers are
// skipped.
func (h *Hub) Publish(ctx context.Context, channel, event string, payload any) error {
	ev := Event{
		ID:      uuid.NewString(),
		Channel: channel,
		Name:    event,
		Payload: payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[channel] {
		select {
		case ch <- ev:
		default:
			// subscriber is not keeping up; at-most-once allows the drop
		}
	}

	return nil
}
