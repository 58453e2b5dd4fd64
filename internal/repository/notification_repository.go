package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/model"
	"github.com/thesisflow/advisory/internal/repository/base"
)

// NotificationRepository is the durable notification store. Rows written
// here are the system of record for user-visible events; the real-time push
// is layered on top and may be lost.
type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create writes a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, type, priority, reference_id, reference_type, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		n.UserID,
		n.Message,
		n.Type,
		n.Priority,
		n.ReferenceID,
		n.ReferenceType,
		n.Read,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}
