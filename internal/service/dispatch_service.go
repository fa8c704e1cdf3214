package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DispatchService is the single execution path every delivery mechanism
// funnels into: the cron sweep, the queue worker, and manual deploy-now all
// call ExecutePost.
type DispatchService interface {
	ExecutePost(ctx context.Context, post *models.Post) error
	SynthesizePost(ctx context.Context, userID int64, targetURN, topic string) (*models.Post, error)
}

type dispatchService struct {
	cfg     config.Config
	db      *sql.DB
	pr      repository.PostRepository
	la      repository.LinkedInAccountRepository
	ma      repository.MediaAssetRepository
	pm      repository.PostMediaRepository
	ph      repository.PostingHistoryRepository
	sr      repository.SettingsRepository
	li      LinkedInService
	content ContentService
	r2      *R2Service
}

func NewDispatchService(
	cfg config.Config,
	db *sql.DB,
	pr repository.PostRepository,
	la repository.LinkedInAccountRepository,
	ma repository.MediaAssetRepository,
	pm repository.PostMediaRepository,
	ph repository.PostingHistoryRepository,
	sr repository.SettingsRepository,
	li LinkedInService,
	content ContentService,
	r2 *R2Service) DispatchService {
	return &dispatchService{
		cfg:     cfg,
		db:      db,
		pr:      pr,
		la:      la,
		ma:      ma,
		pm:      pm,
		ph:      ph,
		sr:      sr,
		li:      li,
		content: content,
		r2:      r2,
	}
}

// ExecutePost resolves the post's target identity, flips the post to
// processing, publishes, and records the outcome. The processing transition
// and attempt bump are persisted before the first network call so a crash
// mid-publish stays visible. Failed posts are never re-queued automatically.
func (s *dispatchService) ExecutePost(ctx context.Context, post *models.Post) error {
	account, err := s.la.GetByURN(ctx, post.UserID, post.TargetURN)
	if err != nil {
		return err
	}
	if account == nil {
		s.recordFailure(ctx, post, 0, ErrAccountNotConnected)
		return fmt.Errorf("post %d: %w", post.ID, ErrAccountNotConnected)
	}

	if err := s.pr.MarkProcessing(ctx, post.ID); err != nil {
		return err
	}

	remoteID, err := s.li.HandleLinkedInPost(ctx, post, account)
	if err != nil {
		s.recordFailure(ctx, post, account.ID, err)
		return fmt.Errorf("post %d: %w", post.ID, err)
	}

	if err := s.pr.SetPosted(ctx, post.ID, remoteID, time.Now()); err != nil {
		return err
	}

	history := models.PostingHistory{
		UserID:    post.UserID,
		PostID:    post.ID,
		AccountID: account.ID,
	}
	if err := s.ph.Create(ctx, &history); err != nil {
		log.Printf("failed to record posting history for post %d: %v", post.ID, err)
	}

	log.Printf("post %d published as %s", post.ID, remoteID)
	return nil
}

func (s *dispatchService) recordFailure(ctx context.Context, post *models.Post, accountID int64, cause error) {
	if err := s.pr.MarkFailed(ctx, post.ID, cause.Error()); err != nil {
		log.Printf("failed to mark post %d failed: %v", post.ID, err)
	}

	history := models.PostingHistory{
		UserID:       post.UserID,
		PostID:       post.ID,
		AccountID:    accountID,
		ErrorMessage: cause.Error(),
	}
	if err := s.ph.Create(ctx, &history); err != nil {
		log.Printf("failed to record posting history for post %d: %v", post.ID, err)
	}
}

// SynthesizePost generates text and an illustration for a triggered topic and
// stores them as a ready-to-publish post. Any generation failure aborts
// before a post row exists.
func (s *dispatchService) SynthesizePost(ctx context.Context, userID int64, targetURN, topic string) (*models.Post, error) {
	tone := "professional"
	industry := "general"
	settings, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		if settings.Tone != "" {
			tone = settings.Tone
		}
		if settings.Industry != "" {
			industry = settings.Industry
		}
	}

	caption, err := s.content.GeneratePostText(ctx, topic, tone, industry)
	if err != nil {
		return nil, fmt.Errorf("text generation for %q: %w", topic, err)
	}

	image, err := s.content.GeneratePostImage(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("image generation for %q: %w", topic, err)
	}

	key, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	if err := s.r2.UploadToR2(ctx, key, image, "image/png"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	post := models.Post{
		UserID:        userID,
		TargetURN:     targetURN,
		PostType:      models.PostTypeSingle,
		Caption:       caption,
		ScheduledTime: time.Now(),
		Status:        models.PostStatusScheduled,
	}
	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return nil, err
	}

	asset := models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: "image/png",
		FileSize: int64(len(image)),
		FileURL:  s.r2.PublicURL(key),
	}
	assetID, err := s.ma.Create(ctx, tx, &asset)
	if err != nil {
		return nil, err
	}

	postMedia := models.PostMedia{
		PostID:  postID,
		AssetID: assetID,
	}
	if err := s.pm.Create(ctx, tx, &postMedia); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	post.ID = postID
	return &post, nil
}
