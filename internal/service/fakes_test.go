package service

import (
	"context"
	"sort"
	"sync"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/schedule"
)

// In-memory stand-ins for the pgx repositories. The fake store enforces the
// same uniqueness rule as the partial index in the real schema, so the
// concurrency behavior under test matches production.

type fakeWindows struct {
	mu      sync.Mutex
	nextID  int64
	windows []*model.AvailabilityWindow
}

func (f *fakeWindows) Create(_ context.Context, w *model.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.ID = f.nextID
	cp := *w
	f.windows = append(f.windows, &cp)
	return nil
}

func (f *fakeWindows) GetByID(_ context.Context, id int64) (*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeWindows) GetActiveByAdvisor(_ context.Context, advisorID int64) ([]*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityWindow
	for _, w := range f.windows {
		if w.AdvisorID == advisorID && w.Active {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if schedule.CanonicalIndex(a.DayOfWeek) != schedule.CanonicalIndex(b.DayOfWeek) {
			return schedule.CanonicalIndex(a.DayOfWeek) < schedule.CanonicalIndex(b.DayOfWeek)
		}
		return a.StartTime < b.StartTime
	})
	return out, nil
}

func (f *fakeWindows) GetActiveByAdvisorAndDay(_ context.Context, advisorID int64, day string) ([]*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityWindow
	for _, w := range f.windows {
		if w.AdvisorID == advisorID && w.DayOfWeek == day && w.Active {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeWindows) Update(_ context.Context, w *model.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.windows {
		if existing.ID == w.ID {
			cp := *w
			f.windows[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("availability window not found")
}

func (f *fakeWindows) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		if w.ID == id {
			w.Active = false
			return nil
		}
	}
	return apperr.NotFound("availability window not found")
}

type fakeOccupied struct {
	mu     sync.Mutex
	nextID int64
	slots  []*model.OccupiedSlot
}

func (f *fakeOccupied) GetBlockingByAdvisorDate(_ context.Context, advisorID int64, date string) ([]*model.OccupiedSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.OccupiedSlot
	for _, s := range f.slots {
		if s.AdvisorID == advisorID && s.Date == date && s.Blocks() {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeOccupied) byMeeting(meetingID int64) []*model.OccupiedSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.OccupiedSlot
	for _, s := range f.slots {
		if s.MeetingID != nil && *s.MeetingID == meetingID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out
}

type fakeMeetings struct {
	mu       sync.Mutex
	nextID   int64
	meetings []*model.Meeting
}

func (f *fakeMeetings) GetByID(_ context.Context, id int64) (*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.meetings {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetings) GetPendingByAdvisor(_ context.Context, advisorID int64) ([]*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Meeting
	for _, m := range f.meetings {
		if m.AdvisorID == advisorID && m.State == model.MeetingStatePending {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMeetings) GetRecentByStudent(_ context.Context, studentID int64, limit int) ([]*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Meeting
	for i := len(f.meetings) - 1; i >= 0 && len(out) < limit; i-- {
		if f.meetings[i].StudentID == studentID {
			cp := *f.meetings[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMeetings) find(id int64) *model.Meeting {
	for _, m := range f.meetings {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// fakeStore mirrors ReservationStore over the in-memory fakes, including the
// unique (advisor, date, start_time) guard for blocking slots.
type fakeStore struct {
	mu       sync.Mutex
	meetings *fakeMeetings
	occupied *fakeOccupied
}

func (f *fakeStore) CreateReservation(_ context.Context, m *model.Meeting, slot *model.OccupiedSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.occupied.mu.Lock()
	for _, s := range f.occupied.slots {
		if s.Blocks() && s.AdvisorID == slot.AdvisorID && s.Date == slot.Date && s.StartTime == slot.StartTime {
			f.occupied.mu.Unlock()
			return apperr.Conflict("the selected time is no longer available")
		}
	}
	f.occupied.mu.Unlock()

	f.meetings.mu.Lock()
	f.meetings.nextID++
	m.ID = f.meetings.nextID
	cp := *m
	f.meetings.meetings = append(f.meetings.meetings, &cp)
	f.meetings.mu.Unlock()

	slot.MeetingID = &m.ID

	f.occupied.mu.Lock()
	f.occupied.nextID++
	slot.ID = f.occupied.nextID
	scp := *slot
	f.occupied.slots = append(f.occupied.slots, &scp)
	f.occupied.mu.Unlock()

	return nil
}

func (f *fakeStore) ApproveMeeting(_ context.Context, meetingID int64, location, remoteLink, comments string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.meetings.mu.Lock()
	defer f.meetings.mu.Unlock()
	m := f.meetings.find(meetingID)
	if m == nil || m.State != model.MeetingStatePending {
		return apperr.Conflict("meeting is no longer pending")
	}

	f.occupied.mu.Lock()
	defer f.occupied.mu.Unlock()
	var reserved []*model.OccupiedSlot
	for _, s := range f.occupied.slots {
		if s.MeetingID != nil && *s.MeetingID == meetingID && s.State == model.SlotStateReserved {
			reserved = append(reserved, s)
		}
	}
	if len(reserved) != 1 {
		return apperr.Integrity("meeting does not hold exactly one reserved slot")
	}

	m.State = model.MeetingStateAccepted
	m.Location = location
	m.RemoteLink = remoteLink
	m.Comments = comments
	reserved[0].State = model.SlotStateOccupied
	return nil
}

func (f *fakeStore) RejectMeeting(_ context.Context, meetingID int64, comments string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.meetings.mu.Lock()
	defer f.meetings.mu.Unlock()
	m := f.meetings.find(meetingID)
	if m == nil || m.State != model.MeetingStatePending {
		return apperr.Conflict("meeting is no longer pending")
	}

	m.State = model.MeetingStateRejected
	m.Comments = comments

	f.occupied.mu.Lock()
	defer f.occupied.mu.Unlock()
	kept := f.occupied.slots[:0]
	for _, s := range f.occupied.slots {
		if s.MeetingID == nil || *s.MeetingID != meetingID {
			kept = append(kept, s)
		}
	}
	f.occupied.slots = kept
	return nil
}

type fakeRegistry struct {
	theses map[int64]map[int64]int64 // student -> advisor -> thesis id
	names  map[int64]string
}

func (f *fakeRegistry) ActiveThesisID(_ context.Context, studentID, advisorID int64) (int64, error) {
	return f.theses[studentID][advisorID], nil
}

func (f *fakeRegistry) DisplayName(_ context.Context, userID int64) (string, error) {
	return f.names[userID], nil
}

type fakeNotifications struct {
	mu   sync.Mutex
	err  error
	rows []*model.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	n.ID = int64(len(f.rows) + 1)
	cp := *n
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeNotifications) forUser(userID int64) []*model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload any
}

type recordPublisher struct {
	mu     sync.Mutex
	err    error
	events []publishedEvent
}

func (p *recordPublisher) Publish(_ context.Context, channel, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return p.err
}

func (p *recordPublisher) forChannel(channel string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}
