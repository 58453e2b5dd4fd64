package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/repository/base"
)

// OccupiedSlotRepository manages the concrete-date occupied intervals that
// back conflict avoidance.
type OccupiedSlotRepository struct {
	*base.Repository
}

func NewOccupiedSlotRepository(pool *pgxpool.Pool) *OccupiedSlotRepository {
	return &OccupiedSlotRepository{Repository: base.NewRepository(pool)}
}

const occupiedColumns = `id, window_id, advisor_id, date, start_time, end_time, state,
		student_id, meeting_id, reason, created_at`

func scanOccupied(row interface{ Scan(...any) error }, s *model.OccupiedSlot) error {
	return row.Scan(
		&s.ID,
		&s.WindowID,
		&s.AdvisorID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.State,
		&s.StudentID,
		&s.MeetingID,
		&s.Reason,
		&s.CreatedAt,
	)
}

// CreateTx inserts a slot inside the caller's transaction. A unique-index
// violation on (advisor_id, date, start_time) bubbles up for the caller to
// classify as a booking conflict.
func (r *OccupiedSlotRepository) CreateTx(ctx context.Context, tx pgx.Tx, slot *model.OccupiedSlot) error {
	query := `
		INSERT INTO occupied_slots
			(window_id, advisor_id, date, start_time, end_time, state, student_id, meeting_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		slot.WindowID,
		slot.AdvisorID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.State,
		slot.StudentID,
		slot.MeetingID,
		slot.Reason,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create occupied slot: %w", err)
	}

	return nil
}

// GetBlockingByAdvisorDate lists the reserved and occupied intervals of an
// advisor for one date, ordered by start time.
func (r *OccupiedSlotRepository) GetBlockingByAdvisorDate(ctx context.Context, advisorID int64, date string) ([]*model.OccupiedSlot, error) {
	query := `
		SELECT ` + occupiedColumns + `
		FROM occupied_slots
		WHERE advisor_id = $1 AND date = $2 AND state IN ('reserved', 'occupied')
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, advisorID, date)
	if err != nil {
		return nil, fmt.Errorf("get occupied slots by advisor and date: %w", err)
	}
	defer rows.Close()

	var slots []*model.OccupiedSlot
	for rows.Next() {
		var s model.OccupiedSlot
		if err := scanOccupied(rows, &s); err != nil {
			return nil, fmt.Errorf("scan occupied slot: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, rows.Err()
}

// GetByMeetingID gets the slot held by a meeting. Returns nil when none.
func (r *OccupiedSlotRepository) GetByMeetingID(ctx context.Context, meetingID int64) (*model.OccupiedSlot, error) {
	query := `SELECT ` + occupiedColumns + ` FROM occupied_slots WHERE meeting_id = $1`

	var s model.OccupiedSlot
	err := scanOccupied(r.QueryRow(ctx, query, meetingID), &s)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get occupied slot by meeting: %w", err)
	}

	return &s, nil
}

// MarkOccupiedTx promotes a meeting's reserved slot to occupied and returns
// the number of rows affected.
func (r *OccupiedSlotRepository) MarkOccupiedTx(ctx context.Context, tx pgx.Tx, meetingID int64) (int64, error) {
	query := `
		UPDATE occupied_slots
		SET state = 'occupied'
		WHERE meeting_id = $1 AND state = 'reserved'
	`

	tag, err := tx.Exec(ctx, query, meetingID)
	if err != nil {
		return 0, fmt.Errorf("mark occupied slot: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteByMeetingTx releases a meeting's slot back to the available pool.
func (r *OccupiedSlotRepository) DeleteByMeetingTx(ctx context.Context, tx pgx.Tx, meetingID int64) (int64, error) {
	query := `DELETE FROM occupied_slots WHERE meeting_id = $1`

	tag, err := tx.Exec(ctx, query, meetingID)
	if err != nil {
		return 0, fmt.Errorf("delete occupied slot: %w", err)
	}

	return tag.RowsAffected(), nil
}
