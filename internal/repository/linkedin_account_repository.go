package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
)

type LinkedInAccountRepository interface {
	Create(ctx context.Context, tx *sql.Tx, la *models.LinkedInAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.LinkedInAccount, error)
	GetByURN(ctx context.Context, userID int64, urn string) (*models.LinkedInAccount, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error)
	ListInfoByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error)
	ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.LinkedInAccount, error)
	CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error)
	SetToken(ctx context.Context, userID int64, oldAccessToken string, la *models.LinkedInAccount) error
	Remove(ctx context.Context, id int64) error
}

type linkedinAccountRepository struct {
	db *sql.DB
}

func NewLinkedInAccountRepository(db *sql.DB) LinkedInAccountRepository {
	return &linkedinAccountRepository{db: db}
}

const accountColumns = `id, user_id, urn, first_name, last_name, profile_picture_url, access_token, refresh_token, token_expires_at, account_status, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.LinkedInAccount, error) {
	var la models.LinkedInAccount
	err := row.Scan(&la.ID, &la.UserID, &la.URN, &la.FirstName, &la.LastName,
		&la.ProfilePicture, &la.AccessToken, &la.RefreshToken,
		&la.TokenExpiresAt, &la.AccountStatus, &la.CreatedAt, &la.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &la, nil
}

func (r *linkedinAccountRepository) Create(ctx context.Context, tx *sql.Tx, la *models.LinkedInAccount) (int64, error) {
	var err error
	var id int64

	// An identity re-linked by the same user refreshes tokens in place
	// instead of duplicating the row.
	var insertQuery = `
		INSERT INTO linkedin_accounts(
			user_id,
			urn,
			first_name,
			last_name,
			profile_picture_url,
			access_token,
			refresh_token,
			token_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, urn) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_picture_url = EXCLUDED.profile_picture_url,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	if tx != nil {
		err = tx.QueryRowContext(ctx, insertQuery,
			la.UserID, la.URN, la.FirstName, la.LastName,
			la.ProfilePicture, la.AccessToken, la.RefreshToken, la.TokenExpiresAt,
		).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, insertQuery,
			la.UserID, la.URN, la.FirstName, la.LastName,
			la.ProfilePicture, la.AccessToken, la.RefreshToken, la.TokenExpiresAt,
		).Scan(&id)
	}

	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *linkedinAccountRepository) GetByID(ctx context.Context, id int64) (*models.LinkedInAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM linkedin_accounts WHERE id = $1`
	la, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return la, nil
}

// GetByURN resolves a post's target identifier against the owner's linked
// identities. Returns (nil, nil) when the target is not linked.
func (r *linkedinAccountRepository) GetByURN(ctx context.Context, userID int64, urn string) (*models.LinkedInAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM linkedin_accounts WHERE user_id = $1 AND urn = $2`
	la, err := scanAccount(r.db.QueryRowContext(ctx, query, userID, urn))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return la, nil
}

func (r *linkedinAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM linkedin_accounts WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.LinkedInAccount
	for rows.Next() {
		la, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, la)
	}
	return accounts, nil
}

func (r *linkedinAccountRepository) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	query := `SELECT id, urn, first_name, last_name, profile_picture_url FROM linkedin_accounts WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.LinkedInAccount
	for rows.Next() {
		var la models.LinkedInAccount
		err := rows.Scan(&la.ID, &la.URN, &la.FirstName, &la.LastName, &la.ProfilePicture)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &la)
	}
	return accounts, nil
}

func (r *linkedinAccountRepository) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.LinkedInAccount, error) {
	query := `SELECT
			id,
			user_id,
			urn,
			access_token,
			refresh_token,
			token_expires_at
			FROM linkedin_accounts
			WHERE (token_expires_at BETWEEN $1 AND $2)
			OR (token_expires_at < $3)`
	rows, err := r.db.QueryContext(ctx, query, initialTime, finalTime, initialTime)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.LinkedInAccount
	for rows.Next() {
		var la models.LinkedInAccount
		err := rows.Scan(&la.ID, &la.UserID, &la.URN, &la.AccessToken, &la.RefreshToken, &la.TokenExpiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &la)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *linkedinAccountRepository) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	query := "SELECT 1 FROM linkedin_accounts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *linkedinAccountRepository) SetToken(ctx context.Context, userID int64, oldAccessToken string, la *models.LinkedInAccount) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	updateTokenQuery := `
		UPDATE linkedin_accounts
		SET
			access_token = COALESCE(NULLIF($3, ''), access_token),
			refresh_token = COALESCE(NULLIF($4, ''), refresh_token),
			token_expires_at = COALESCE($5, token_expires_at),
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND access_token = $2;
	`
	result, err := tx.ExecContext(ctx, updateTokenQuery, userID, oldAccessToken, la.AccessToken, la.RefreshToken, la.TokenExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no rows affected; account may not exist")
		return errors.New("no rows affected; account may not exist")
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *linkedinAccountRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM linkedin_accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
