package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/realtime"
)

// Event names published on meeting transitions.
const (
	EventMeetingCreated = "meeting.created"
	EventMeetingUpdated = "meeting.updated"
)

// NotificationWriter is the durable notification store.
type NotificationWriter interface {
	Create(ctx context.Context, n *model.Notification) error
}

// MeetingEvent is the payload pushed on the real-time channels.
type MeetingEvent struct {
	MeetingID int64              `json:"meeting_id"`
	State     model.MeetingState `json:"state"`
	AdvisorID int64              `json:"advisor_id"`
	StudentID int64              `json:"student_id"`
	Date      string             `json:"date"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	Message   string             `json:"message"`
}

// PushText renders the event for messenger-style publishers.
func (e MeetingEvent) PushText() string {
	return e.Message
}

// Notifier performs the fan-out on every meeting transition: first the
// durable notification row, then a best-effort push to each participant's
// channel. The durable write is authoritative; push failures are logged and
// swallowed.
type Notifier struct {
	notifications NotificationWriter
	publisher     realtime.Publisher
	logger        *zap.Logger
}

func NewNotifier(notifications NotificationWriter, publisher realtime.Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// MeetingRequested notifies the advisor about a new pending meeting.
func (n *Notifier) MeetingRequested(ctx context.Context, m *model.Meeting, studentName string) error {
	msg := fmt.Sprintf("%s requested a meeting on %s from %s to %s", studentName, m.Date, m.StartTime, m.EndTime)
	if m.Agenda != "" {
		msg += ". Agenda: " + m.Agenda
	}

	if err := n.write(ctx, m.AdvisorID, msg, model.NotificationMeetingRequest, model.PriorityHigh, m.ID); err != nil {
		return err
	}

	n.push(ctx, EventMeetingCreated, m, msg)
	return nil
}

// MeetingApproved notifies the student that the advisor accepted, including
// where the meeting takes place.
func (n *Notifier) MeetingApproved(ctx context.Context, m *model.Meeting) error {
	msg := fmt.Sprintf("your meeting on %s at %s was approved", m.Date, m.StartTime)
	if m.Location != "" {
		msg += ". Location: " + m.Location
	}
	if m.RemoteLink != "" {
		msg += ". Link: " + m.RemoteLink
	}

	if err := n.write(ctx, m.StudentID, msg, model.NotificationMeetingApproved, model.PriorityNormal, m.ID); err != nil {
		return err
	}

	n.push(ctx, EventMeetingUpdated, m, msg)
	return nil
}

// MeetingRejected notifies the student that the advisor declined.
func (n *Notifier) MeetingRejected(ctx context.Context, m *model.Meeting, reason string) error {
	msg := fmt.Sprintf("your meeting on %s at %s was rejected", m.Date, m.StartTime)
	if reason != "" {
		msg += ". Reason: " + reason
	}

	if err := n.write(ctx, m.StudentID, msg, model.NotificationMeetingRejected, model.PriorityNormal, m.ID); err != nil {
		return err
	}

	n.push(ctx, EventMeetingUpdated, m, msg)
	return nil
}

func (n *Notifier) write(ctx context.Context, userID int64, msg, typ, priority string, meetingID int64) error {
	err := n.notifications.Create(ctx, &model.Notification{
		UserID:        userID,
		Message:       msg,
		Type:          typ,
		Priority:      priority,
		ReferenceID:   meetingID,
		ReferenceType: "meeting",
	})
	if err != nil {
		return apperr.Transient("write notification", err)
	}
	return nil
}

// push publishes to both participants' channels. At-most-once: failures are
// logged, never returned.
func (n *Notifier) push(ctx context.Context, event string, m *model.Meeting, msg string) {
	payload := MeetingEvent{
		MeetingID: m.ID,
		State:     m.State,
		AdvisorID: m.AdvisorID,
		StudentID: m.StudentID,
		Date:      m.Date,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Message:   msg,
	}

	for _, userID := range []int64{m.AdvisorID, m.StudentID} {
		channel := strconv.FormatInt(userID, 10)
		if err := n.publisher.Publish(ctx, channel, event, payload); err != nil {
			n.logger.Warn("realtime publish failed",
				zap.Error(err),
				zap.String("event", event),
				zap.String("channel", channel),
				zap.Int64("meeting_id", m.ID),
			)
		}
	}
}
