package model

import "time"

type Modality string

const (
	ModalityInPerson Modality = "in_person"
	ModalityVirtual  Modality = "virtual"
	ModalityHybrid   Modality = "hybrid"
)

// IsValid reports whether the modality is one of the known values.
func (m Modality) IsValid() bool {
	switch m {
	case ModalityInPerson, ModalityVirtual, ModalityHybrid:
		return true
	}
	return false
}

// AvailabilityWindow is a recurring weekly template describing when an
// advisor can be booked. Windows are deactivated rather than deleted.
type AvailabilityWindow struct {
	ID                int64     `json:"id"`
	AdvisorID         int64     `json:"advisor_id"`
	DayOfWeek         string    `json:"day_of_week"` // "sunday".."saturday"
	StartTime         string    `json:"start_time"`  // wall-clock "HH:MM"
	EndTime           string    `json:"end_time"`
	Modality          Modality  `json:"modality"`
	Location          string    `json:"location,omitempty"`
	RemoteLink        string    `json:"remote_link,omitempty"`
	MaxMeetingsPerDay int       `json:"max_meetings_per_day"`
	Active            bool      `json:"active"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
