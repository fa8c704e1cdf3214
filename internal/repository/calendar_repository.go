package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
)

type CalendarRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CalendarConfig, error)
	ListEnabled(ctx context.Context) ([]*models.CalendarConfig, error)
	Upsert(ctx context.Context, cc *models.CalendarConfig) (int64, error)
	ListEvents(ctx context.Context, configID int64) ([]*models.CalendarEvent, error)
	GetEventByDate(ctx context.Context, configID int64, date string) (*models.CalendarEvent, error)
	ReplaceEvents(ctx context.Context, configID int64, events []*models.CalendarEvent) error
	MarkRun(ctx context.Context, configID int64, date string) (bool, error)
}

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarColumns = `id, user_id, target_urn, enabled, last_run_date, created_at, updated_at`

func scanCalendarConfig(row interface{ Scan(...interface{}) error }) (*models.CalendarConfig, error) {
	var cc models.CalendarConfig
	var lastRun sql.NullString
	err := row.Scan(&cc.ID, &cc.UserID, &cc.TargetURN, &cc.Enabled, &lastRun, &cc.CreatedAt, &cc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	cc.LastRunDate = lastRun.String
	return &cc, nil
}

func (r *calendarRepository) GetByUserID(ctx context.Context, userID int64) (*models.CalendarConfig, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_configs WHERE user_id = $1`
	cc, err := scanCalendarConfig(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return cc, nil
}

func (r *calendarRepository) ListEnabled(ctx context.Context) ([]*models.CalendarConfig, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_configs WHERE enabled = TRUE`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var configs []*models.CalendarConfig
	for rows.Next() {
		cc, err := scanCalendarConfig(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		configs = append(configs, cc)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return configs, nil
}

func (r *calendarRepository) Upsert(ctx context.Context, cc *models.CalendarConfig) (int64, error) {
	query := `
		INSERT INTO calendar_configs (user_id, target_urn, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			target_urn = EXCLUDED.target_urn,
			enabled = EXCLUDED.enabled,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, cc.UserID, cc.TargetURN, cc.Enabled).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *calendarRepository) ListEvents(ctx context.Context, configID int64) ([]*models.CalendarEvent, error) {
	query := `
		SELECT id, config_id, event_date, topic, created_at
		FROM calendar_events
		WHERE config_id = $1
		ORDER BY event_date
	`

	rows, err := r.db.QueryContext(ctx, query, configID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		var ev models.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.ConfigID, &ev.EventDate, &ev.Topic, &ev.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, nil
}

func (r *calendarRepository) GetEventByDate(ctx context.Context, configID int64, date string) (*models.CalendarEvent, error) {
	query := `
		SELECT id, config_id, event_date, topic, created_at
		FROM calendar_events
		WHERE config_id = $1 AND event_date = $2
	`

	var ev models.CalendarEvent
	err := r.db.QueryRowContext(ctx, query, configID, date).Scan(&ev.ID, &ev.ConfigID, &ev.EventDate, &ev.Topic, &ev.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &ev, nil
}

func (r *calendarRepository) ReplaceEvents(ctx context.Context, configID int64, events []*models.CalendarEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events WHERE config_id = $1`, configID); err != nil {
		slog.Info(err.Error())
		return err
	}

	insertQuery := `INSERT INTO calendar_events (config_id, event_date, topic) VALUES ($1, $2, $3)`
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, insertQuery, configID, ev.EventDate, ev.Topic); err != nil {
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

// MarkRun claims today's firing for a config. The conditional update makes the
// claim atomic: when two sweeps race, exactly one sees a row affected and
// proceeds to publish.
func (r *calendarRepository) MarkRun(ctx context.Context, configID int64, date string) (bool, error) {
	query := `
		UPDATE calendar_configs
		SET last_run_date = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND (last_run_date IS NULL OR last_run_date <> $1)
	`
	result, err := r.db.ExecContext(ctx, query, date, configID)
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
