package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/schedule"
)

// AvailabilityRepo is the store of recurring weekly windows.
type AvailabilityRepo interface {
	Create(ctx context.Context, w *model.AvailabilityWindow) error
	GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error)
	GetActiveByAdvisor(ctx context.Context, advisorID int64) ([]*model.AvailabilityWindow, error)
	GetActiveByAdvisorAndDay(ctx context.Context, advisorID int64, day string) ([]*model.AvailabilityWindow, error)
	Update(ctx context.Context, w *model.AvailabilityWindow) error
	Deactivate(ctx context.Context, id int64) error
}

// OccupiedReader reads the blocking (reserved/occupied) intervals of an
// advisor for one date.
type OccupiedReader interface {
	GetBlockingByAdvisorDate(ctx context.Context, advisorID int64, date string) ([]*model.OccupiedSlot, error)
}

// WindowInput carries the editable fields of an availability window.
type WindowInput struct {
	DayOfWeek         string         `json:"day_of_week" binding:"required"`
	StartTime         string         `json:"start_time" binding:"required"`
	EndTime           string         `json:"end_time" binding:"required"`
	Modality          model.Modality `json:"modality" binding:"required"`
	Location          string         `json:"location"`
	RemoteLink        string         `json:"remote_link"`
	MaxMeetingsPerDay int            `json:"max_meetings_per_day"`
	Notes             string         `json:"notes"`
}

// Slot is one bookable interval materialized from a window.
type Slot struct {
	WindowID   int64          `json:"window_id"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Modality   model.Modality `json:"modality"`
	Location   string         `json:"location,omitempty"`
	RemoteLink string         `json:"remote_link,omitempty"`
}

// SlotList is the materializer output for one advisor and date. Message
// explains an empty list; an empty list is not an error.
type SlotList struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Slots   []Slot `json:"slots"`
	Message string `json:"message,omitempty"`
}

// DaySchedule groups an advisor's windows for the weekly view.
type DaySchedule struct {
	Day     string                      `json:"day"`
	Windows []*model.AvailabilityWindow `json:"windows"`
}

// AvailabilityService owns the recurring templates and materializes them
// into concrete bookable slots.
type AvailabilityService struct {
	windows  AvailabilityRepo
	occupied OccupiedReader
	logger   *zap.Logger
}

func NewAvailabilityService(windows AvailabilityRepo, occupied OccupiedReader, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		windows:  windows,
		occupied: occupied,
		logger:   logger,
	}
}

func validateWindowInput(in *WindowInput) error {
	if !schedule.IsWeekdayName(in.DayOfWeek) {
		return apperr.Validationf("unknown day of week %q", in.DayOfWeek)
	}
	if _, err := schedule.ParseInterval(in.StartTime, in.EndTime); err != nil {
		return apperr.Validation(err.Error())
	}
	if !in.Modality.IsValid() {
		return apperr.Validationf("unknown modality %q", in.Modality)
	}
	if in.MaxMeetingsPerDay <= 0 {
		return apperr.Validation("max_meetings_per_day must be positive")
	}
	return nil
}

// CreateWindow adds a recurring window for the advisor. Cross-window overlap
// is intentionally not checked at write time; the materializer and the
// reservation engine resolve overlaps per concrete date.
func (s *AvailabilityService) CreateWindow(ctx context.Context, advisorID int64, in WindowInput) (*model.AvailabilityWindow, error) {
	if err := validateWindowInput(&in); err != nil {
		return nil, err
	}

	w := &model.AvailabilityWindow{
		AdvisorID:         advisorID,
		DayOfWeek:         in.DayOfWeek,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Modality:          in.Modality,
		Location:          in.Location,
		RemoteLink:        in.RemoteLink,
		MaxMeetingsPerDay: in.MaxMeetingsPerDay,
		Active:            true,
		Notes:             in.Notes,
	}

	if err := s.windows.Create(ctx, w); err != nil {
		return nil, apperr.Transient("create availability window", err)
	}

	s.logger.Info("availability window created",
		zap.Int64("window_id", w.ID),
		zap.Int64("advisor_id", advisorID),
		zap.String("day", w.DayOfWeek),
	)

	return w, nil
}

// UpdateWindow rewrites a window owned by the advisor.
func (s *AvailabilityService) UpdateWindow(ctx context.Context, advisorID, windowID int64, in WindowInput) (*model.AvailabilityWindow, error) {
	if err := validateWindowInput(&in); err != nil {
		return nil, err
	}

	w, err := s.windows.GetByID(ctx, windowID)
	if err != nil {
		return nil, apperr.Transient("get availability window", err)
	}
	if w == nil {
		return nil, apperr.NotFound("availability window not found")
	}
	if w.AdvisorID != advisorID {
		return nil, apperr.Authorization("availability window does not belong to this advisor")
	}

	w.DayOfWeek = in.DayOfWeek
	w.StartTime = in.StartTime
	w.EndTime = in.EndTime
	w.Modality = in.Modality
	w.Location = in.Location
	w.RemoteLink = in.RemoteLink
	w.MaxMeetingsPerDay = in.MaxMeetingsPerDay
	w.Notes = in.Notes

	if err := s.windows.Update(ctx, w); err != nil {
		return nil, apperr.Transient("update availability window", err)
	}

	return w, nil
}

// DeactivateWindow soft-deletes a window owned by the advisor.
func (s *AvailabilityService) DeactivateWindow(ctx context.Context, advisorID, windowID int64) error {
	w, err := s.windows.GetByID(ctx, windowID)
	if err != nil {
		return apperr.Transient("get availability window", err)
	}
	if w == nil {
		return apperr.NotFound("availability window not found")
	}
	if w.AdvisorID != advisorID {
		return apperr.Authorization("availability window does not belong to this advisor")
	}

	if err := s.windows.Deactivate(ctx, windowID); err != nil {
		return apperr.Transient("deactivate availability window", err)
	}

	return nil
}

// WeeklySchedule lists the advisor's active windows grouped by day in
// canonical order. Days without windows are omitted.
func (s *AvailabilityService) WeeklySchedule(ctx context.Context, advisorID int64) ([]DaySchedule, error) {
	windows, err := s.windows.GetActiveByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, apperr.Transient("list availability windows", err)
	}

	byDay := make(map[string][]*model.AvailabilityWindow)
	for _, w := range windows {
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	var days []DaySchedule
	for _, day := range schedule.CanonicalDays() {
		if ws, ok := byDay[day]; ok {
			days = append(days, DaySchedule{Day: day, Windows: ws})
		}
	}

	return days, nil
}

// AvailableSlots materializes the advisor's bookable slots for a concrete
// date: a 30-minute grid over each active window of that weekday, minus any
// interval overlapping a reserved or occupied slot.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, advisorID int64, date string) (*SlotList, error) {
	weekday, err := schedule.WeekdayName(date)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	out := &SlotList{Date: date, Weekday: weekday}

	windows, err := s.windows.GetActiveByAdvisorAndDay(ctx, advisorID, weekday)
	if err != nil {
		return nil, apperr.Transient("list availability windows", err)
	}
	if len(windows) == 0 {
		out.Message = "the advisor has no availability configured for this day"
		return out, nil
	}

	blocking, err := s.occupied.GetBlockingByAdvisorDate(ctx, advisorID, date)
	if err != nil {
		return nil, apperr.Transient("list occupied slots", err)
	}

	taken := make([]schedule.Interval, 0, len(blocking))
	for _, b := range blocking {
		iv, err := schedule.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			// a malformed stored interval blocks nothing; log and move on
			s.logger.Warn("skipping malformed occupied slot",
				zap.Int64("slot_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		taken = append(taken, iv)
	}

	for _, w := range windows {
		win, err := schedule.ParseInterval(w.StartTime, w.EndTime)
		if err != nil {
			s.logger.Warn("skipping malformed availability window",
				zap.Int64("window_id", w.ID),
				zap.Error(err),
			)
			continue
		}

		for _, iv := range schedule.CutSlots(win) {
			if overlapsAny(iv, taken) {
				continue
			}
			out.Slots = append(out.Slots, Slot{
				WindowID:   w.ID,
				Start:      schedule.FormatClock(iv.Start),
				End:        schedule.FormatClock(iv.End),
				Modality:   w.Modality,
				Location:   w.Location,
				RemoteLink: w.RemoteLink,
			})
		}
	}

	sort.Slice(out.Slots, func(i, j int) bool { return out.Slots[i].Start < out.Slots[j].Start })

	if len(out.Slots) == 0 {
		out.Message = "all slots for this day are taken"
	}

	return out, nil
}

func overlapsAny(iv schedule.Interval, taken []schedule.Interval) bool {
	for _, t := range taken {
		if schedule.Overlaps(iv, t) {
			return true
		}
	}
	return false
}
