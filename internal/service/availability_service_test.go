package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
)

// 2026-01-05 is a Monday.
const mondayDate = "2026-01-05"

func newAvailabilityFixture() (*AvailabilityService, *fakeWindows, *fakeOccupied) {
	windows := &fakeWindows{}
	occupied := &fakeOccupied{}
	svc := NewAvailabilityService(windows, occupied, zap.NewNop())
	return svc, windows, occupied
}

func mustCreateWindow(t *testing.T, svc *AvailabilityService, advisorID int64, in WindowInput) *model.AvailabilityWindow {
	t.Helper()
	w, err := svc.CreateWindow(context.Background(), advisorID, in)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	return w
}

func mondayWindow() WindowInput {
	return WindowInput{
		DayOfWeek:         "monday",
		StartTime:         "09:00",
		EndTime:           "10:00",
		Modality:          model.ModalityInPerson,
		Location:          "office 211",
		MaxMeetingsPerDay: 4,
	}
}

func TestAvailableSlotsMondayWindow(t *testing.T) {
	svc, _, occupied := newAvailabilityFixture()
	w := mustCreateWindow(t, svc, 7, mondayWindow())

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if out.Weekday != "monday" {
		t.Errorf("weekday = %q", out.Weekday)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d: %+v", len(out.Slots), out.Slots)
	}
	if out.Slots[0].Start != "09:00" || out.Slots[0].End != "09:30" {
		t.Errorf("first slot = %+v", out.Slots[0])
	}
	if out.Slots[1].Start != "09:30" || out.Slots[1].End != "10:00" {
		t.Errorf("second slot = %+v", out.Slots[1])
	}
	if out.Slots[0].WindowID != w.ID {
		t.Errorf("slot window id = %d, want %d", out.Slots[0].WindowID, w.ID)
	}

	// reserving 09:00-09:30 removes exactly that slot
	occupied.slots = append(occupied.slots, &model.OccupiedSlot{
		ID:        1,
		WindowID:  w.ID,
		AdvisorID: 7,
		Date:      mondayDate,
		StartTime: "09:00",
		EndTime:   "09:30",
		State:     model.SlotStateReserved,
	})

	out, err = svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 1 || out.Slots[0].Start != "09:30" {
		t.Fatalf("expected only 09:30 slot, got %+v", out.Slots)
	}
}

func TestAvailableSlotsReleasedSlotDoesNotBlock(t *testing.T) {
	svc, _, occupied := newAvailabilityFixture()
	w := mustCreateWindow(t, svc, 7, mondayWindow())

	occupied.slots = append(occupied.slots, &model.OccupiedSlot{
		ID:        1,
		WindowID:  w.ID,
		AdvisorID: 7,
		Date:      mondayDate,
		StartTime: "09:00",
		EndTime:   "09:30",
		State:     model.SlotStateReleased,
	})

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("released slot should not block, got %+v", out.Slots)
	}
}

func TestAvailableSlotsOverlapIsBidirectional(t *testing.T) {
	svc, _, occupied := newAvailabilityFixture()
	w := mustCreateWindow(t, svc, 7, mondayWindow())

	// an occupied interval straddling both grid slots suppresses both
	occupied.slots = append(occupied.slots, &model.OccupiedSlot{
		ID:        1,
		WindowID:  w.ID,
		AdvisorID: 7,
		Date:      mondayDate,
		StartTime: "09:15",
		EndTime:   "09:45",
		State:     model.SlotStateOccupied,
	})

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 0 {
		t.Fatalf("expected no slots, got %+v", out.Slots)
	}
	if out.Message == "" {
		t.Error("expected an explanatory message for an empty slot list")
	}
}

func TestAvailableSlotsExcludesPartialFinalSlot(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()
	in := mondayWindow()
	in.EndTime = "09:45"
	mustCreateWindow(t, svc, 7, in)

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 1 || out.Slots[0].End != "09:30" {
		t.Fatalf("expected single slot ending 09:30, got %+v", out.Slots)
	}
}

func TestAvailableSlotsNoWindowsIsNotAnError(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 0 || out.Message == "" {
		t.Fatalf("expected empty list with message, got %+v", out)
	}
}

func TestAvailableSlotsInvalidDate(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	_, err := svc.AvailableSlots(context.Background(), 7, "05.01.2026")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateWindowValidation(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	tests := []struct {
		name   string
		mutate func(*WindowInput)
	}{
		{"unknown day", func(in *WindowInput) { in.DayOfWeek = "moonday" }},
		{"start after end", func(in *WindowInput) { in.StartTime, in.EndTime = "10:00", "09:00" }},
		{"malformed time", func(in *WindowInput) { in.StartTime = "9am" }},
		{"unknown modality", func(in *WindowInput) { in.Modality = "telepathy" }},
		{"zero capacity", func(in *WindowInput) { in.MaxMeetingsPerDay = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mondayWindow()
			tt.mutate(&in)
			_, err := svc.CreateWindow(context.Background(), 7, in)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestWeeklyScheduleCanonicalOrder(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	for _, day := range []string{"sunday", "wednesday", "monday"} {
		in := mondayWindow()
		in.DayOfWeek = day
		mustCreateWindow(t, svc, 7, in)
	}

	days, err := svc.WeeklySchedule(context.Background(), 7)
	if err != nil {
		t.Fatalf("weekly schedule: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 day groups, got %d", len(days))
	}
	want := []string{"monday", "wednesday", "sunday"}
	for i, day := range days {
		if day.Day != want[i] {
			t.Errorf("day[%d] = %q, want %q", i, day.Day, want[i])
		}
	}
}

func TestWeeklyScheduleEmpty(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	days, err := svc.WeeklySchedule(context.Background(), 7)
	if err != nil {
		t.Fatalf("weekly schedule: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected empty schedule, got %+v", days)
	}
}

func TestUpdateWindowOwnership(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()
	w := mustCreateWindow(t, svc, 7, mondayWindow())

	_, err := svc.UpdateWindow(context.Background(), 8, w.ID, mondayWindow())
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	_, err = svc.UpdateWindow(context.Background(), 7, w.ID+100, mondayWindow())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	in := mondayWindow()
	in.EndTime = "11:00"
	updated, err := svc.UpdateWindow(context.Background(), 7, w.ID, in)
	if err != nil {
		t.Fatalf("update window: %v", err)
	}
	if updated.EndTime != "11:00" {
		t.Errorf("end time = %q", updated.EndTime)
	}
}

func TestDeactivateWindowHidesSlots(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()
	w := mustCreateWindow(t, svc, 7, mondayWindow())

	if err := svc.DeactivateWindow(context.Background(), 7, w.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	out, err := svc.AvailableSlots(context.Background(), 7, mondayDate)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(out.Slots) != 0 {
		t.Fatalf("deactivated window still produced slots: %+v", out.Slots)
	}

	if err := svc.DeactivateWindow(context.Background(), 8, w.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}
