package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
)

type PostingHistoryRepository interface {
	Create(ctx context.Context, ph *models.PostingHistory) error
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.PostingHistory, error)
}

type postingHistoryRepository struct {
	db *sql.DB
}

func NewPostingHistoryRepository(db *sql.DB) PostingHistoryRepository {
	return &postingHistoryRepository{db: db}
}

func (r *postingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) error {
	query := `
		INSERT INTO posting_history (user_id, post_id, account_id, error_message)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, ph.UserID, ph.PostID, ph.AccountID, ph.ErrorMessage)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postingHistoryRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.PostingHistory, error) {
	query := `
		SELECT id, user_id, post_id, account_id, error_message, created_at
		FROM posting_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.PostingHistory
	for rows.Next() {
		var ph models.PostingHistory
		if err := rows.Scan(&ph.ID, &ph.UserID, &ph.PostID, &ph.AccountID, &ph.ErrorMessage, &ph.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &ph)
	}
	return history, nil
}
