package job

import (
	"context"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
)

// ScheduleSource picks up user-scheduled posts whose time has arrived. The
// queue normally delivers these; the sweep catches anything the queue missed.
type ScheduleSource struct {
	pr repository.PostRepository
}

func NewScheduleSource(pr repository.PostRepository) *ScheduleSource {
	return &ScheduleSource{pr: pr}
}

func (s *ScheduleSource) Name() string {
	return "schedule"
}

func (s *ScheduleSource) Collect(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return s.pr.ListDue(ctx, now)
}
