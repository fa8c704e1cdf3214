package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
)

// Map-backed repository fakes. Only the methods the tests drive carry real
// behavior; the rest return zero values.

type fakeAccountRepo struct {
	accounts map[string]*models.LinkedInAccount // keyed by urn
}

func newFakeAccountRepo(accounts ...*models.LinkedInAccount) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: map[string]*models.LinkedInAccount{}}
	for _, acc := range accounts {
		r.accounts[acc.URN] = acc
	}
	return r
}

func (r *fakeAccountRepo) Create(ctx context.Context, tx *sql.Tx, la *models.LinkedInAccount) (int64, error) {
	r.accounts[la.URN] = la
	return la.ID, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.LinkedInAccount, error) {
	for _, acc := range r.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByURN(ctx context.Context, userID int64, urn string) (*models.LinkedInAccount, error) {
	acc, ok := r.accounts[urn]
	if !ok || acc.UserID != userID {
		return nil, nil
	}
	return acc, nil
}

func (r *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.LinkedInAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakeAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, la *models.LinkedInAccount) error {
	return nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakePostMediaRepo struct {
	media map[int64][]*models.PostMedia
}

func newFakePostMediaRepo() *fakePostMediaRepo {
	return &fakePostMediaRepo{media: map[int64][]*models.PostMedia{}}
}

func (r *fakePostMediaRepo) Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error {
	r.media[pm.PostID] = append(r.media[pm.PostID], pm)
	return nil
}

func (r *fakePostMediaRepo) GetByPostID(ctx context.Context, postID int64) (*models.PostMedia, error) {
	if ms := r.media[postID]; len(ms) > 0 {
		return ms[0], nil
	}
	return nil, nil
}

func (r *fakePostMediaRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostMedia, error) {
	return r.media[postID], nil
}

func (r *fakePostMediaRepo) Remove(ctx context.Context, postID int64) error {
	delete(r.media, postID)
	return nil
}

type fakeAssetRepo struct {
	assets map[int64]*models.MediaAsset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: map[int64]*models.MediaAsset{}}
}

func (r *fakeAssetRepo) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	id := int64(len(r.assets) + 1)
	ma.ID = id
	r.assets[id] = ma
	return id, nil
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return r.assets[id], nil
}

func (r *fakeAssetRepo) Remove(ctx context.Context, id int64) error {
	delete(r.assets, id)
	return nil
}

type fakePostRepo struct {
	posts      map[int64]*models.Post
	calls      []string
	failReason string
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: map[int64]*models.Post{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.posts[id], nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	id := int64(len(r.posts) + 1)
	post.ID = id
	r.posts[id] = post
	return id, nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	var due []*models.Post
	for _, p := range r.posts {
		if p.Status == models.PostStatusScheduled && !p.ScheduledTime.After(now) {
			due = append(due, p)
		}
	}
	return due, nil
}

func (r *fakePostRepo) ListPostedSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	r.calls = append(r.calls, "UpdatePostStatus:"+status)
	if p := r.posts[postID]; p != nil {
		p.Status = status
	}
	return nil
}

func (r *fakePostRepo) MarkProcessing(ctx context.Context, postID int64) error {
	r.calls = append(r.calls, "MarkProcessing")
	if p := r.posts[postID]; p != nil {
		p.Status = models.PostStatusProcessing
		p.AttemptCount++
	}
	return nil
}

func (r *fakePostRepo) SetSchedule(ctx context.Context, postID int64, scheduledTime time.Time) error {
	r.calls = append(r.calls, "SetSchedule")
	return nil
}

func (r *fakePostRepo) SetPosted(ctx context.Context, postID int64, remoteID string, postedAt time.Time) error {
	r.calls = append(r.calls, "SetPosted")
	if p := r.posts[postID]; p != nil {
		p.Status = models.PostStatusPosted
		p.LinkedInPostID = remoteID
	}
	return nil
}

func (r *fakePostRepo) MarkFailed(ctx context.Context, postID int64, reason string) error {
	r.calls = append(r.calls, "MarkFailed")
	r.failReason = reason
	if p := r.posts[postID]; p != nil {
		p.Status = models.PostStatusFailed
		p.FailureReason = reason
	}
	return nil
}

func (r *fakePostRepo) UpdateMetrics(ctx context.Context, postID int64, likes, comments int, syncedAt time.Time) error {
	return nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	p, ok := r.posts[postID]
	return ok && p.UserID == userID, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	delete(r.posts, id)
	return nil
}

type fakeHistoryRepo struct {
	rows []*models.PostingHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, ph *models.PostingHistory) error {
	r.rows = append(r.rows, ph)
	return nil
}

func (r *fakeHistoryRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.PostingHistory, error) {
	return r.rows, nil
}

type fakeSettingsRepo struct {
	settings *models.Settings
}

func (r *fakeSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*models.Settings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, s *models.Settings) error {
	r.settings = s
	return nil
}

type fakeLinkedInService struct {
	remoteID string
	err      error
	handled  []int64
}

func (s *fakeLinkedInService) AuthURL(state string) string { return "" }

func (s *fakeLinkedInService) LinkedInCallback(ctx context.Context, code string, userID int64) error {
	return nil
}

func (s *fakeLinkedInService) RefreshLinkedInToken(ctx context.Context, acc *models.LinkedInAccount) error {
	return nil
}

func (s *fakeLinkedInService) HandleLinkedInPost(ctx context.Context, post *models.Post, acc *models.LinkedInAccount) (string, error) {
	s.handled = append(s.handled, post.ID)
	return s.remoteID, s.err
}

func (s *fakeLinkedInService) FetchEngagement(ctx context.Context, acc *models.LinkedInAccount, remoteID string) (*transfer.SocialActionsSummary, error) {
	return &transfer.SocialActionsSummary{}, nil
}
