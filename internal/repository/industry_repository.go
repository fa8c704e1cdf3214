package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
)

type IndustryRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.IndustryConfig, error)
	ListEnabled(ctx context.Context) ([]*models.IndustryConfig, error)
	Upsert(ctx context.Context, ic *models.IndustryConfig) (int64, error)
	ListSlots(ctx context.Context, configID int64) ([]*models.IndustrySlot, error)
	ReplaceSlots(ctx context.Context, configID int64, slots []*models.IndustrySlot) error
	MarkSlotRun(ctx context.Context, slotID int64, date string) (bool, error)
}

type industryRepository struct {
	db *sql.DB
}

func NewIndustryRepository(db *sql.DB) IndustryRepository {
	return &industryRepository{db: db}
}

func (r *industryRepository) GetByUserID(ctx context.Context, userID int64) (*models.IndustryConfig, error) {
	query := `
		SELECT id, user_id, target_urn, enabled, created_at, updated_at
		FROM industry_configs
		WHERE user_id = $1
	`

	var ic models.IndustryConfig
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&ic.ID, &ic.UserID, &ic.TargetURN, &ic.Enabled, &ic.CreatedAt, &ic.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &ic, nil
}

func (r *industryRepository) ListEnabled(ctx context.Context) ([]*models.IndustryConfig, error) {
	query := `
		SELECT id, user_id, target_urn, enabled, created_at, updated_at
		FROM industry_configs
		WHERE enabled = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var configs []*models.IndustryConfig
	for rows.Next() {
		var ic models.IndustryConfig
		if err := rows.Scan(&ic.ID, &ic.UserID, &ic.TargetURN, &ic.Enabled, &ic.CreatedAt, &ic.UpdatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		configs = append(configs, &ic)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return configs, nil
}

func (r *industryRepository) Upsert(ctx context.Context, ic *models.IndustryConfig) (int64, error) {
	query := `
		INSERT INTO industry_configs (user_id, target_urn, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			target_urn = EXCLUDED.target_urn,
			enabled = EXCLUDED.enabled,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, ic.UserID, ic.TargetURN, ic.Enabled).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *industryRepository) ListSlots(ctx context.Context, configID int64) ([]*models.IndustrySlot, error) {
	query := `
		SELECT id, config_id, time_of_day, keyword, last_run_date, created_at
		FROM industry_slots
		WHERE config_id = $1
		ORDER BY time_of_day
	`

	rows, err := r.db.QueryContext(ctx, query, configID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var slots []*models.IndustrySlot
	for rows.Next() {
		var s models.IndustrySlot
		var lastRun sql.NullString
		if err := rows.Scan(&s.ID, &s.ConfigID, &s.TimeOfDay, &s.Keyword, &lastRun, &s.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		s.LastRunDate = lastRun.String
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return slots, nil
}

func (r *industryRepository) ReplaceSlots(ctx context.Context, configID int64, slots []*models.IndustrySlot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM industry_slots WHERE config_id = $1`, configID); err != nil {
		slog.Info(err.Error())
		return err
	}

	insertQuery := `INSERT INTO industry_slots (config_id, time_of_day, keyword) VALUES ($1, $2, $3)`
	for _, s := range slots {
		if _, err := tx.ExecContext(ctx, insertQuery, configID, s.TimeOfDay, s.Keyword); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// MarkSlotRun claims today's firing for one slot. Same conditional-update
// shape as CalendarRepository.MarkRun; each slot fires independently.
func (r *industryRepository) MarkSlotRun(ctx context.Context, slotID int64, date string) (bool, error) {
	query := `
		UPDATE industry_slots
		SET last_run_date = $1
		WHERE id = $2 AND (last_run_date IS NULL OR last_run_date <> $1)
	`
	result, err := r.db.ExecContext(ctx, query, date, slotID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
