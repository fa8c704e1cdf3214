package job

import (
	"context"
	"log"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

const metricsLookback = 48 * time.Hour

// MetricsSyncJob pulls engagement counters for recently published posts.
// Older posts stop being synced; their counters freeze at the last value.
type MetricsSyncJob struct {
	pr repository.PostRepository
	la repository.LinkedInAccountRepository
	li service.LinkedInService
}

func NewMetricsSyncJob(
	pr repository.PostRepository,
	la repository.LinkedInAccountRepository,
	li service.LinkedInService) *MetricsSyncJob {
	return &MetricsSyncJob{
		pr: pr,
		la: la,
		li: li,
	}
}

func (c *MetricsSyncJob) SyncMetrics() {
	ctx := context.Background()

	posts, err := c.pr.ListPostedSince(ctx, time.Now().Add(-metricsLookback))
	if err != nil {
		log.Printf("metrics sync: %v", err)
		return
	}

	for _, post := range posts {
		if post.LinkedInPostID == "" {
			continue
		}

		account, err := c.la.GetByURN(ctx, post.UserID, post.TargetURN)
		if err != nil || account == nil {
			log.Printf("metrics sync: no account for post %d", post.ID)
			continue
		}

		summary, err := c.li.FetchEngagement(ctx, account, post.LinkedInPostID)
		if err != nil {
			log.Printf("metrics sync: post %d: %v", post.ID, err)
			continue
		}

		err = c.pr.UpdateMetrics(ctx, post.ID, summary.LikesSummary.TotalLikes, summary.CommentsSummary.AggregatedTotalComments, time.Now())
		if err != nil {
			log.Printf("metrics sync: post %d: %v", post.ID, err)
		}
	}
}
