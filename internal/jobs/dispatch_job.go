package job

import (
	"context"
	"log"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

// TriggerSource yields the posts a sweep should publish right now. The plain
// schedule returns due rows; the calendar and industry sources synthesize
// posts when their trigger conditions hold.
type TriggerSource interface {
	Name() string
	Collect(ctx context.Context, now time.Time) ([]*models.Post, error)
}

// DispatchJob runs one sweep over every trigger source. Items are processed
// sequentially; a failing item is logged and never stops the rest of the
// sweep or the other sources.
type DispatchJob struct {
	dispatch service.DispatchService
	sources  []TriggerSource
}

func NewDispatchJob(dispatch service.DispatchService, sources ...TriggerSource) *DispatchJob {
	return &DispatchJob{
		dispatch: dispatch,
		sources:  sources,
	}
}

func (j *DispatchJob) Run() {
	ctx := context.Background()
	now := time.Now()

	for _, source := range j.sources {
		posts, err := source.Collect(ctx, now)
		if err != nil {
			log.Printf("dispatch: collecting from %s: %v", source.Name(), err)
			continue
		}

		for _, post := range posts {
			if err := j.dispatch.ExecutePost(ctx, post); err != nil {
				log.Printf("dispatch: %s post %d: %v", source.Name(), post.ID, err)
				continue
			}
		}
	}
}
