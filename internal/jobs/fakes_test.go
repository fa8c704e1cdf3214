package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
)

// fakeJobPostRepo covers only what the schedule source touches.
type fakeJobPostRepo struct {
	due      []*models.Post
	listedAt time.Time
}

func (r *fakeJobPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return nil, nil
}

func (r *fakeJobPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, nil
}

func (r *fakeJobPostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakeJobPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	r.listedAt = now
	return r.due, nil
}

func (r *fakeJobPostRepo) ListPostedSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakeJobPostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	return nil
}

func (r *fakeJobPostRepo) MarkProcessing(ctx context.Context, postID int64) error { return nil }

func (r *fakeJobPostRepo) SetSchedule(ctx context.Context, postID int64, scheduledTime time.Time) error {
	return nil
}

func (r *fakeJobPostRepo) SetPosted(ctx context.Context, postID int64, remoteID string, postedAt time.Time) error {
	return nil
}

func (r *fakeJobPostRepo) MarkFailed(ctx context.Context, postID int64, reason string) error {
	return nil
}

func (r *fakeJobPostRepo) UpdateMetrics(ctx context.Context, postID int64, likes, comments int, syncedAt time.Time) error {
	return nil
}

func (r *fakeJobPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakeJobPostRepo) Remove(ctx context.Context, id int64) error { return nil }

// fakeJobAccountRepo resolves target URNs; only GetByURN carries behavior.
type fakeJobAccountRepo struct {
	accounts map[string]*models.LinkedInAccount // keyed by urn
}

func newFakeJobAccountRepo(accounts ...*models.LinkedInAccount) *fakeJobAccountRepo {
	r := &fakeJobAccountRepo{accounts: map[string]*models.LinkedInAccount{}}
	for _, acc := range accounts {
		r.accounts[acc.URN] = acc
	}
	return r
}

func (r *fakeJobAccountRepo) Create(ctx context.Context, tx *sql.Tx, la *models.LinkedInAccount) (int64, error) {
	return 0, nil
}

func (r *fakeJobAccountRepo) GetByID(ctx context.Context, id int64) (*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeJobAccountRepo) GetByURN(ctx context.Context, userID int64, urn string) (*models.LinkedInAccount, error) {
	acc, ok := r.accounts[urn]
	if !ok || acc.UserID != userID {
		return nil, nil
	}
	return acc, nil
}

func (r *fakeJobAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeJobAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeJobAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeJobAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakeJobAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, la *models.LinkedInAccount) error {
	return nil
}

func (r *fakeJobAccountRepo) Remove(ctx context.Context, id int64) error { return nil }
