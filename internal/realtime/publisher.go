// Package realtime carries the best-effort push side of the notification
// fan-out. Publishing is at-most-once and non-blocking: implementations may
// drop events, and callers must never fail a request because a push failed.
package realtime

import "context"

// Event is the envelope delivered to subscribers of a channel.
type Event struct {
	ID      string `json:"id"`
	Channel string `json:"channel"`
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// Publisher pushes an event to one channel. Channels are named by user id.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// TextPayload is implemented by payloads that carry a human-readable push
// text, used by messenger-style publishers.
type TextPayload interface {
	PushText() string
}
