package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error)
	Approve(ctx context.Context, userID, postID int64) (int64, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.PostingHistory, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	cfg    config.Config
	db     *sql.DB
	pr     repository.PostRepository
	la     repository.LinkedInAccountRepository
	ma     repository.MediaAssetRepository
	pm     repository.PostMediaRepository
	ph     repository.PostingHistoryRepository
	assets AssetService
	r2     *R2Service
}

func NewPostService(
	cfg config.Config,
	db *sql.DB,
	pr repository.PostRepository,
	la repository.LinkedInAccountRepository,
	ma repository.MediaAssetRepository,
	pm repository.PostMediaRepository,
	ph repository.PostingHistoryRepository,
	assets AssetService,
	r2 *R2Service) PostService {
	return &postService{
		cfg:    cfg,
		db:     db,
		pr:     pr,
		la:     la,
		ma:     ma,
		pm:     pm,
		ph:     ph,
		assets: assets,
		r2:     r2,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}
	if pc.Caption == "" {
		err := errors.New("caption cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if len(pc.ImageSources) == 0 && pc.VideoSource == "" {
		slog.Info("post creation with no media")
		return 0, ErrNoMedia
	}

	scheduledTime, err := time.Parse("2006-01-02T15:04", pc.ScheduledTime)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Error(err.Error())
		return 0, err
	}

	account, err := s.la.GetByURN(ctx, userID, pc.TargetURN)
	if err != nil {
		return 0, err
	}
	if account == nil {
		slog.Info(fmt.Sprintf("target %s is not linked for user %d", pc.TargetURN, userID))
		return 0, ErrAccountNotConnected
	}

	postType := models.PostTypeSingle
	switch {
	case len(pc.ImageSources) > 1:
		postType = models.PostTypeMultiple
	case len(pc.ImageSources) == 0:
		postType = models.PostTypeVideo
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := models.Post{
		UserID:        userID,
		TargetURN:     pc.TargetURN,
		PostType:      postType,
		Caption:       pc.Caption,
		ScheduledTime: scheduledTime,
		Status:        models.PostStatusPending,
	}

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	order := 0
	for _, source := range pc.ImageSources {
		if err = s.saveSource(ctx, tx, userID, postID, source, "image", order); err != nil {
			return 0, fmt.Errorf("error processing image source: %w", err)
		}
		order++
	}
	if pc.VideoSource != "" {
		if err = s.saveSource(ctx, tx, userID, postID, pc.VideoSource, "video", order); err != nil {
			return 0, fmt.Errorf("error processing video source: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return postID, nil
}

// saveSource records one media reference. Inline data URIs are sniffed,
// pushed to object storage, and replaced with their public URL so the
// publisher only ever deals in fetchable references.
func (s *postService) saveSource(ctx context.Context, tx *sql.Tx, userID, postID int64, source, kind string, order int) error {
	fileURL := source
	fileType := kind
	var fileSize int64

	if strings.HasPrefix(source, "data:") {
		raw, err := s.assets.FetchRaw(ctx, source)
		if err != nil {
			return err
		}

		matched, err := filetype.Match(raw)
		if err != nil || matched == types.Unknown {
			return fmt.Errorf("%w: unrecognized media payload", ErrInvalidMedia)
		}
		if !strings.HasPrefix(matched.MIME.Value, kind) {
			return fmt.Errorf("%w: payload is %s, expected %s", ErrInvalidMedia, matched.MIME.Value, kind)
		}

		key, err := gonanoid.New()
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		if err := s.r2.UploadToR2(ctx, key, raw, matched.MIME.Value); err != nil {
			return err
		}

		fileURL = s.r2.PublicURL(key)
		fileType = matched.MIME.Value
		fileSize = int64(len(raw))
	}

	ma := models.MediaAsset{
		UserID:   userID,
		FileName: source,
		FileType: fileType,
		FileSize: fileSize,
		FileURL:  fileURL,
	}
	assetID, err := s.ma.Create(ctx, tx, &ma)
	if err != nil {
		return err
	}

	postMedia := models.PostMedia{
		PostID:       postID,
		AssetID:      assetID,
		DisplayOrder: order,
	}
	return s.pm.Create(ctx, tx, &postMedia)
}

// Approve moves a pending post to approved and immediately schedules it.
// Returns the post id and the delay until its scheduled time so the caller
// can enqueue delivery.
func (s *postService) Approve(ctx context.Context, userID, postID int64) (int64, time.Duration, error) {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return 0, 0, err
	}

	if post.Status != models.PostStatusPending {
		err = fmt.Errorf("post is %s, only pending posts can be approved", post.Status)
		slog.Info(err.Error())
		return 0, 0, err
	}

	if err := s.pr.UpdatePostStatus(ctx, models.PostStatusApproved, postID); err != nil {
		return 0, 0, err
	}
	if err := s.pr.SetSchedule(ctx, postID, post.ScheduledTime); err != nil {
		return 0, 0, err
	}

	delay := time.Until(post.ScheduledTime)
	if delay < 0 {
		delay = 0
	}

	return postID, delay, nil
}

func (s *postService) ownedPost(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if userID == 0 || postID == 0 {
		err := errors.New("post id or user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil || post == nil {
		return nil, fmt.Errorf("error getting post info")
	}
	return post, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	return s.ownedPost(ctx, postID, userID)
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) History(ctx context.Context, userID int64, limit int) ([]*models.PostingHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	history, err := s.ph.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posting history")
	}
	return history, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.pm.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post media")
	}
	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
