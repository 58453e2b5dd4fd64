package model

import "time"

type SlotState string

const (
	SlotStateReserved SlotState = "reserved" // held by a pending meeting
	SlotStateOccupied SlotState = "occupied" // confirmed meeting
	SlotStateReleased SlotState = "released" // freed by cancellation
)

// OccupiedSlot marks a concrete-date interval of an advisor's calendar as
// taken. It is the serialization point for conflict avoidance: no two rows
// for the same advisor and date may overlap while reserved or occupied.
// AdvisorID is denormalized from the window so the conflict query and the
// uniqueness index need no join.
type OccupiedSlot struct {
	ID        int64     `json:"id"`
	WindowID  int64     `json:"window_id"`
	AdvisorID int64     `json:"advisor_id"`
	Date      string    `json:"date"`       // "YYYY-MM-DD"
	StartTime string    `json:"start_time"` // wall-clock "HH:MM"
	EndTime   string    `json:"end_time"`
	State     SlotState `json:"state"`
	StudentID *int64    `json:"student_id"`
	MeetingID *int64    `json:"meeting_id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Blocks reports whether the slot currently removes its interval from the
// bookable pool.
func (s *OccupiedSlot) Blocks() bool {
	return s.State == SlotStateReserved || s.State == SlotStateOccupied
}
