package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/repository/base"
)

// MeetingRepository manages advising meetings.
type MeetingRepository struct {
	*base.Repository
}

func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{Repository: base.NewRepository(pool)}
}

const meetingColumns = `id, thesis_id, advisor_id, student_id, date, start_time, end_time,
		modality, agenda, location, remote_link, comments, state, created_at, updated_at`

func scanMeeting(row interface{ Scan(...any) error }, m *model.Meeting) error {
	return row.Scan(
		&m.ID,
		&m.ThesisID,
		&m.AdvisorID,
		&m.StudentID,
		&m.Date,
		&m.StartTime,
		&m.EndTime,
		&m.Modality,
		&m.Agenda,
		&m.Location,
		&m.RemoteLink,
		&m.Comments,
		&m.State,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

// CreateTx inserts a meeting inside the caller's transaction.
func (r *MeetingRepository) CreateTx(ctx context.Context, tx pgx.Tx, m *model.Meeting) error {
	query := `
		INSERT INTO meetings
			(thesis_id, advisor_id, student_id, date, start_time, end_time, modality, agenda, location, remote_link, comments, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		m.ThesisID,
		m.AdvisorID,
		m.StudentID,
		m.Date,
		m.StartTime,
		m.EndTime,
		m.Modality,
		m.Agenda,
		m.Location,
		m.RemoteLink,
		m.Comments,
		m.State,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	return nil
}

// GetByID gets a meeting by ID. Returns nil when not found.
func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	var m model.Meeting
	err := scanMeeting(r.QueryRow(ctx, query, id), &m)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get meeting by id: %w", err)
	}

	return &m, nil
}

// GetPendingByAdvisor lists an advisor's pending queue, oldest first.
func (r *MeetingRepository) GetPendingByAdvisor(ctx context.Context, advisorID int64) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE advisor_id = $1 AND state = 'pending'
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, advisorID)
	if err != nil {
		return nil, fmt.Errorf("get pending meetings by advisor: %w", err)
	}
	defer rows.Close()

	return collectMeetings(rows)
}

// GetRecentByStudent lists a student's meetings, most recent first.
func (r *MeetingRepository) GetRecentByStudent(ctx context.Context, studentID int64, limit int) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("get meetings by student: %w", err)
	}
	defer rows.Close()

	return collectMeetings(rows)
}

func collectMeetings(rows pgx.Rows) ([]*model.Meeting, error) {
	var meetings []*model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := scanMeeting(rows, &m); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, &m)
	}
	return meetings, rows.Err()
}

// AcceptTx moves a pending meeting to accepted and persists the approval
// details. Returns the number of rows affected; zero means the meeting was
// no longer pending.
func (r *MeetingRepository) AcceptTx(ctx context.Context, tx pgx.Tx, id int64, location, remoteLink, comments string) (int64, error) {
	query := `
		UPDATE meetings
		SET state = 'accepted', location = $1, remote_link = $2, comments = $3, updated_at = now()
		WHERE id = $4 AND state = 'pending'
	`

	tag, err := tx.Exec(ctx, query, location, remoteLink, comments, id)
	if err != nil {
		return 0, fmt.Errorf("accept meeting: %w", err)
	}

	return tag.RowsAffected(), nil
}

// RejectTx moves a pending meeting to rejected, keeping the reason in
// comments. Returns the number of rows affected.
func (r *MeetingRepository) RejectTx(ctx context.Context, tx pgx.Tx, id int64, comments string) (int64, error) {
	query := `
		UPDATE meetings
		SET state = 'rejected', comments = $1, updated_at = now()
		WHERE id = $2 AND state = 'pending'
	`

	tag, err := tx.Exec(ctx, query, comments, id)
	if err != nil {
		return 0, fmt.Errorf("reject meeting: %w", err)
	}

	return tag.RowsAffected(), nil
}
