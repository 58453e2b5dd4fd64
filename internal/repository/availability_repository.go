package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/repository/base"
)

// AvailabilityRepository manages recurring weekly availability windows.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

const availabilityColumns = `id, advisor_id, day_of_week, start_time, end_time, modality,
		location, remote_link, max_meetings_per_day, active, notes, created_at, updated_at`

// weekdayOrder sorts windows Monday..Saturday with Sunday last.
const weekdayOrder = `
		CASE day_of_week
			WHEN 'monday' THEN 0
			WHEN 'tuesday' THEN 1
			WHEN 'wednesday' THEN 2
			WHEN 'thursday' THEN 3
			WHEN 'friday' THEN 4
			WHEN 'saturday' THEN 5
			ELSE 6
		END`

func scanWindow(row interface{ Scan(...any) error }, w *model.AvailabilityWindow) error {
	return row.Scan(
		&w.ID,
		&w.AdvisorID,
		&w.DayOfWeek,
		&w.StartTime,
		&w.EndTime,
		&w.Modality,
		&w.Location,
		&w.RemoteLink,
		&w.MaxMeetingsPerDay,
		&w.Active,
		&w.Notes,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
}

// Create inserts a new window.
func (r *AvailabilityRepository) Create(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		INSERT INTO availability_windows
			(advisor_id, day_of_week, start_time, end_time, modality, location, remote_link, max_meetings_per_day, active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		w.AdvisorID,
		w.DayOfWeek,
		w.StartTime,
		w.EndTime,
		w.Modality,
		w.Location,
		w.RemoteLink,
		w.MaxMeetingsPerDay,
		w.Active,
		w.Notes,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}

	return nil
}

// GetByID gets a window by ID. Returns nil when not found.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_windows WHERE id = $1`

	var w model.AvailabilityWindow
	err := scanWindow(r.QueryRow(ctx, query, id), &w)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability window by id: %w", err)
	}

	return &w, nil
}

// GetActiveByAdvisor lists an advisor's active windows in canonical weekday
// order, then by start time. An advisor without windows yields an empty list.
func (r *AvailabilityRepository) GetActiveByAdvisor(ctx context.Context, advisorID int64) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_windows
		WHERE advisor_id = $1 AND active
		ORDER BY ` + weekdayOrder + `, start_time
	`

	rows, err := r.Query(ctx, query, advisorID)
	if err != nil {
		return nil, fmt.Errorf("get availability windows by advisor: %w", err)
	}
	defer rows.Close()

	var windows []*model.AvailabilityWindow
	for rows.Next() {
		var w model.AvailabilityWindow
		if err := scanWindow(rows, &w); err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		windows = append(windows, &w)
	}

	return windows, rows.Err()
}

// GetActiveByAdvisorAndDay lists an advisor's active windows for one weekday.
func (r *AvailabilityRepository) GetActiveByAdvisorAndDay(ctx context.Context, advisorID int64, day string) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_windows
		WHERE advisor_id = $1 AND day_of_week = $2 AND active
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, advisorID, day)
	if err != nil {
		return nil, fmt.Errorf("get availability windows by advisor and day: %w", err)
	}
	defer rows.Close()

	var windows []*model.AvailabilityWindow
	for rows.Next() {
		var w model.AvailabilityWindow
		if err := scanWindow(rows, &w); err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		windows = append(windows, &w)
	}

	return windows, rows.Err()
}

// Update rewrites the editable fields of a window.
func (r *AvailabilityRepository) Update(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		UPDATE availability_windows
		SET day_of_week = $1, start_time = $2, end_time = $3, modality = $4,
		    location = $5, remote_link = $6, max_meetings_per_day = $7,
		    active = $8, notes = $9, updated_at = now()
		WHERE id = $10
	`

	affected, err := r.ExecAffected(
		ctx, query,
		w.DayOfWeek,
		w.StartTime,
		w.EndTime,
		w.Modality,
		w.Location,
		w.RemoteLink,
		w.MaxMeetingsPerDay,
		w.Active,
		w.Notes,
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("update availability window: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("availability window not found")
	}

	return nil
}

// Deactivate soft-deletes a window. Past meetings keep referencing it.
func (r *AvailabilityRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE availability_windows SET active = false, updated_at = now() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate availability window: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("availability window not found")
	}

	return nil
}
