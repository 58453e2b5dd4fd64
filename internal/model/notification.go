package model

import "time"

// Notification types written by the meeting flows.
const (
	NotificationMeetingRequest  = "meeting_request"
	NotificationMeetingApproved = "meeting_approved"
	NotificationMeetingRejected = "meeting_rejected"
)

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is the durable, always-visible record of an event addressed
// to one user. The real-time push is a latency optimization on top of it.
type Notification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Priority      string    `json:"priority"`
	ReferenceID   int64     `json:"reference_id"`
	ReferenceType string    `json:"reference_type"` // e.g. "meeting"
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
