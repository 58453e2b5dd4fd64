package model

import "time"

type MeetingState string

const (
	MeetingStatePending   MeetingState = "pending"
	MeetingStateAccepted  MeetingState = "accepted"
	MeetingStateRejected  MeetingState = "rejected"
	MeetingStateCancelled MeetingState = "cancelled"
	MeetingStateRealized  MeetingState = "realized"
)

// Meeting is the durable record of one advising-session negotiation between
// a student and an advisor. It is created pending by the reservation engine
// and advanced by the advisor; rejected, cancelled and realized are terminal.
type Meeting struct {
	ID         int64        `json:"id"`
	ThesisID   int64        `json:"thesis_id"`
	AdvisorID  int64        `json:"advisor_id"`
	StudentID  int64        `json:"student_id"`
	Date       string       `json:"date"`       // "YYYY-MM-DD"
	StartTime  string       `json:"start_time"` // wall-clock "HH:MM"
	EndTime    string       `json:"end_time"`
	Modality   Modality     `json:"modality"`
	Agenda     string       `json:"agenda,omitempty"`
	Location   string       `json:"location,omitempty"`
	RemoteLink string       `json:"remote_link,omitempty"`
	Comments   string       `json:"comments,omitempty"`
	State      MeetingState `json:"state"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsPending checks if the meeting still awaits the advisor's decision.
func (m *Meeting) IsPending() bool {
	return m.State == MeetingStatePending
}
