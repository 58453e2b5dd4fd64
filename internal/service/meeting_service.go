package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/schedule"
)

// recentMeetingsLimit caps the student's my-meetings listing.
const recentMeetingsLimit = 50

// MeetingReader reads meetings.
type MeetingReader interface {
	GetByID(ctx context.Context, id int64) (*model.Meeting, error)
	GetPendingByAdvisor(ctx context.Context, advisorID int64) ([]*model.Meeting, error)
	GetRecentByStudent(ctx context.Context, studentID int64, limit int) ([]*model.Meeting, error)
}

// WindowFinder resolves the active windows of an advisor for one weekday.
type WindowFinder interface {
	GetActiveByAdvisorAndDay(ctx context.Context, advisorID int64, day string) ([]*model.AvailabilityWindow, error)
}

// ReservationStore commits the multi-row transitions atomically. CreateReservation
// returns a ConflictError when a concurrent reservation won the interval.
type ReservationStore interface {
	CreateReservation(ctx context.Context, m *model.Meeting, slot *model.OccupiedSlot) error
	ApproveMeeting(ctx context.Context, meetingID int64, location, remoteLink, comments string) error
	RejectMeeting(ctx context.Context, meetingID int64, comments string) error
}

// Registry is the thesis/identity collaborator. ActiveThesisID returns zero
// when the student has no active thesis with the advisor.
type Registry interface {
	ActiveThesisID(ctx context.Context, studentID, advisorID int64) (int64, error)
	DisplayName(ctx context.Context, userID int64) (string, error)
}

// ReserveRequest is a student's request for one concrete slot.
type ReserveRequest struct {
	AdvisorID int64          `json:"-"`
	StudentID int64          `json:"-"`
	Date      string         `json:"date" binding:"required"`
	StartTime string         `json:"start_time" binding:"required"`
	EndTime   string         `json:"end_time" binding:"required"`
	Modality  model.Modality `json:"modality"`
	Agenda    string         `json:"agenda"`
}

// ApprovalInput carries the advisor's approval details.
type ApprovalInput struct {
	Location   string `json:"location"`
	RemoteLink string `json:"remote_link"`
	Comments   string `json:"comments"`
}

// MeetingService is the reservation engine and approval state machine.
type MeetingService struct {
	meetings MeetingReader
	windows  WindowFinder
	occupied OccupiedReader
	store    ReservationStore
	registry Registry
	notifier *Notifier
	logger   *zap.Logger
}

func NewMeetingService(
	meetings MeetingReader,
	windows WindowFinder,
	occupied OccupiedReader,
	store ReservationStore,
	registry Registry,
	notifier *Notifier,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetings: meetings,
		windows:  windows,
		occupied: occupied,
		store:    store,
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// Reserve validates and commits a student's request for one slot, creating a
// pending meeting and its reserved interval. Preconditions run in order and
// abort before any write; the uniqueness index behind the store closes the
// race between the overlap pre-check and the insert.
func (s *MeetingService) Reserve(ctx context.Context, req ReserveRequest) (*model.Meeting, error) {
	weekday, err := schedule.WeekdayName(req.Date)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	interval, err := schedule.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	if req.Modality != "" && !req.Modality.IsValid() {
		return nil, apperr.Validationf("unknown modality %q", req.Modality)
	}

	thesisID, err := s.registry.ActiveThesisID(ctx, req.StudentID, req.AdvisorID)
	if err != nil {
		return nil, apperr.Transient("check thesis relation", err)
	}
	if thesisID == 0 {
		return nil, apperr.Authorization("no active thesis relation with this advisor")
	}

	blocking, err := s.occupied.GetBlockingByAdvisorDate(ctx, req.AdvisorID, req.Date)
	if err != nil {
		return nil, apperr.Transient("list occupied slots", err)
	}
	for _, b := range blocking {
		taken, err := schedule.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			// a malformed stored interval blocks nothing; log and move on
			s.logger.Warn("skipping malformed occupied slot",
				zap.Int64("slot_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		if schedule.Overlaps(interval, taken) {
			return nil, apperr.Conflict("the selected time is no longer available")
		}
	}

	window, err := s.matchWindow(ctx, req.AdvisorID, weekday, interval)
	if err != nil {
		return nil, err
	}

	modality := req.Modality
	if modality == "" {
		modality = window.Modality
	}

	meeting := &model.Meeting{
		ThesisID:  thesisID,
		AdvisorID: req.AdvisorID,
		StudentID: req.StudentID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Modality:  modality,
		Agenda:    req.Agenda,
		State:     model.MeetingStatePending,
	}

	slot := &model.OccupiedSlot{
		WindowID:  window.ID,
		AdvisorID: req.AdvisorID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		State:     model.SlotStateReserved,
		StudentID: &req.StudentID,
		Reason:    "meeting reservation",
	}

	if err := s.store.CreateReservation(ctx, meeting, slot); err != nil {
		return nil, err
	}

	s.logger.Info("meeting reserved",
		zap.Int64("meeting_id", meeting.ID),
		zap.Int64("advisor_id", req.AdvisorID),
		zap.Int64("student_id", req.StudentID),
		zap.String("date", req.Date),
		zap.String("start", req.StartTime),
	)

	studentName, err := s.registry.DisplayName(ctx, req.StudentID)
	if err != nil {
		s.logger.Warn("resolve student name failed", zap.Error(err), zap.Int64("student_id", req.StudentID))
	}
	if studentName == "" {
		studentName = "a student"
	}

	if err := s.notifier.MeetingRequested(ctx, meeting, studentName); err != nil {
		return meeting, err
	}

	return meeting, nil
}

// matchWindow finds the active window whose weekday and time range contain
// the requested interval. A reservation without a covering window is an
// integrity error, never a silent zero-row write.
func (s *MeetingService) matchWindow(ctx context.Context, advisorID int64, weekday string, interval schedule.Interval) (*model.AvailabilityWindow, error) {
	windows, err := s.windows.GetActiveByAdvisorAndDay(ctx, advisorID, weekday)
	if err != nil {
		return nil, apperr.Transient("list availability windows", err)
	}

	for _, w := range windows {
		win, err := schedule.ParseInterval(w.StartTime, w.EndTime)
		if err != nil {
			continue
		}
		if win.Start <= interval.Start && win.End >= interval.End {
			return w, nil
		}
	}

	return nil, apperr.Integrity("no availability window covers the requested time")
}

// Approve accepts a pending meeting. Only the owning advisor may approve,
// and the meeting's modality dictates which of location/remote link must be
// supplied before any state changes.
func (s *MeetingService) Approve(ctx context.Context, meetingID, advisorID int64, in ApprovalInput) (*model.Meeting, error) {
	m, err := s.loadOwnedPending(ctx, meetingID, advisorID)
	if err != nil {
		return nil, err
	}

	location := firstNonEmpty(in.Location, m.Location)
	remoteLink := firstNonEmpty(in.RemoteLink, m.RemoteLink)

	switch m.Modality {
	case model.ModalityInPerson:
		if location == "" {
			return nil, apperr.Validation("location is required to approve an in-person meeting")
		}
	case model.ModalityVirtual:
		if remoteLink == "" {
			return nil, apperr.Validation("remote link is required to approve a virtual meeting")
		}
	case model.ModalityHybrid:
		if location == "" || remoteLink == "" {
			return nil, apperr.Validation("location and remote link are required to approve a hybrid meeting")
		}
	}

	if err := s.store.ApproveMeeting(ctx, meetingID, location, remoteLink, in.Comments); err != nil {
		return nil, err
	}

	m.State = model.MeetingStateAccepted
	m.Location = location
	m.RemoteLink = remoteLink
	m.Comments = in.Comments

	s.logger.Info("meeting approved",
		zap.Int64("meeting_id", meetingID),
		zap.Int64("advisor_id", advisorID),
	)

	if err := s.notifier.MeetingApproved(ctx, m); err != nil {
		return m, err
	}

	return m, nil
}

// Reject declines a pending meeting and releases its slot.
func (s *MeetingService) Reject(ctx context.Context, meetingID, advisorID int64, reason string) (*model.Meeting, error) {
	m, err := s.loadOwnedPending(ctx, meetingID, advisorID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RejectMeeting(ctx, meetingID, reason); err != nil {
		return nil, err
	}

	m.State = model.MeetingStateRejected
	m.Comments = reason

	s.logger.Info("meeting rejected",
		zap.Int64("meeting_id", meetingID),
		zap.Int64("advisor_id", advisorID),
	)

	if err := s.notifier.MeetingRejected(ctx, m, reason); err != nil {
		return m, err
	}

	return m, nil
}

func (s *MeetingService) loadOwnedPending(ctx context.Context, meetingID, advisorID int64) (*model.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, apperr.Transient("get meeting", err)
	}
	if m == nil {
		return nil, apperr.NotFound("meeting not found")
	}
	if m.AdvisorID != advisorID {
		return nil, apperr.Authorization("meeting does not belong to this advisor")
	}
	if !m.IsPending() {
		return nil, apperr.Conflict("meeting is not pending")
	}
	return m, nil
}

// PendingForAdvisor lists the advisor's pending queue.
func (s *MeetingService) PendingForAdvisor(ctx context.Context, advisorID int64) ([]*model.Meeting, error) {
	meetings, err := s.meetings.GetPendingByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, apperr.Transient("list pending meetings", err)
	}
	return meetings, nil
}

// RecentForStudent lists the student's recent meetings.
func (s *MeetingService) RecentForStudent(ctx context.Context, studentID int64) ([]*model.Meeting, error) {
	meetings, err := s.meetings.GetRecentByStudent(ctx, studentID, recentMeetingsLimit)
	if err != nil {
		return nil, apperr.Transient("list student meetings", err)
	}
	return meetings, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
