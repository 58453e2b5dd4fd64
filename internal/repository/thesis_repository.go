package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thesisflow/advisory/internal/repository/base"
)

// ThesisRepository is the identity/thesis registry collaborator: it answers
// who advises whom and how to address users. User and thesis lifecycle is
// managed elsewhere.
type ThesisRepository struct {
	*base.Repository
}

func NewThesisRepository(pool *pgxpool.Pool) *ThesisRepository {
	return &ThesisRepository{Repository: base.NewRepository(pool)}
}

// ActiveThesisID returns the id of the active thesis linking a student to an
// advisor, or zero when no such relation exists.
func (r *ThesisRepository) ActiveThesisID(ctx context.Context, studentID, advisorID int64) (int64, error) {
	query := `
		SELECT id FROM theses
		WHERE student_id = $1 AND advisor_id = $2 AND status = 'active'
		LIMIT 1
	`

	var id int64
	err := r.QueryRow(ctx, query, studentID, advisorID).Scan(&id)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get active thesis: %w", err)
	}

	return id, nil
}

// DisplayName returns the user's full name, or an empty string for unknown
// users.
func (r *ThesisRepository) DisplayName(ctx context.Context, userID int64) (string, error) {
	query := `SELECT full_name FROM users WHERE id = $1`

	var name string
	err := r.QueryRow(ctx, query, userID).Scan(&name)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get display name: %w", err)
	}

	return name, nil
}

// TelegramChatID returns the user's linked Telegram chat, or zero when the
// user has not linked one.
func (r *ThesisRepository) TelegramChatID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COALESCE(telegram_chat_id, 0) FROM users WHERE id = $1`

	var chatID int64
	err := r.QueryRow(ctx, query, userID).Scan(&chatID)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get telegram chat id: %w", err)
	}

	return chatID, nil
}
