package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/apperr"
	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/repository/base"
)

// ReservationStore runs the multi-row meeting transitions atomically. The
// partial unique index on occupied_slots (advisor_id, date, start_time) is
// the authoritative guard against double booking: the service-level overlap
// pre-check can race, the index cannot.
type ReservationStore struct {
	pool     *pgxpool.Pool
	meetings *MeetingRepository
	occupied *OccupiedSlotRepository
}

func NewReservationStore(pool *pgxpool.Pool, meetings *MeetingRepository, occupied *OccupiedSlotRepository) *ReservationStore {
	return &ReservationStore{
		pool:     pool,
		meetings: meetings,
		occupied: occupied,
	}
}

// CreateReservation inserts the pending meeting and its reserved slot in one
// transaction. A concurrent reservation of the same interval surfaces as a
// ConflictError via the uniqueness index.
func (s *ReservationStore) CreateReservation(ctx context.Context, m *model.Meeting, slot *model.OccupiedSlot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Transient("begin reservation", err)
	}
	defer tx.Rollback(ctx)

	if err := s.meetings.CreateTx(ctx, tx, m); err != nil {
		return apperr.Transient("create meeting", err)
	}

	slot.MeetingID = &m.ID
	if err := s.occupied.CreateTx(ctx, tx, slot); err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("the selected time is no longer available")
		}
		return apperr.Transient("create occupied slot", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("the selected time is no longer available")
		}
		return apperr.Transient("commit reservation", err)
	}

	return nil
}

// ApproveMeeting moves a pending meeting to accepted and its slot from
// reserved to occupied. Exactly one slot row must change or the whole
// transition rolls back.
func (s *ReservationStore) ApproveMeeting(ctx context.Context, meetingID int64, location, remoteLink, comments string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Transient("begin approval", err)
	}
	defer tx.Rollback(ctx)

	affected, err := s.meetings.AcceptTx(ctx, tx, meetingID, location, remoteLink, comments)
	if err != nil {
		return apperr.Transient("accept meeting", err)
	}
	if affected == 0 {
		return apperr.Conflict("meeting is no longer pending")
	}

	slots, err := s.occupied.MarkOccupiedTx(ctx, tx, meetingID)
	if err != nil {
		return apperr.Transient("mark occupied slot", err)
	}
	if slots != 1 {
		return apperr.Integrity(fmt.Sprintf("meeting %d holds %d reserved slots, expected 1", meetingID, slots))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Transient("commit approval", err)
	}

	return nil
}

// RejectMeeting moves a pending meeting to rejected and deletes its slot,
// releasing the interval back to the available pool.
func (s *ReservationStore) RejectMeeting(ctx context.Context, meetingID int64, comments string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Transient("begin rejection", err)
	}
	defer tx.Rollback(ctx)

	affected, err := s.meetings.RejectTx(ctx, tx, meetingID, comments)
	if err != nil {
		return apperr.Transient("reject meeting", err)
	}
	if affected == 0 {
		return apperr.Conflict("meeting is no longer pending")
	}

	if _, err := s.occupied.DeleteByMeetingTx(ctx, tx, meetingID); err != nil {
		return apperr.Transient("release occupied slot", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Transient("commit rejection", err)
	}

	return nil
}
