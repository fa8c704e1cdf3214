package job

import (
	"context"
	"log"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

const dateLayout = "2006-01-02"

// CalendarSource fires when an enabled config has an event dated today, the
// config's target identity is still linked, and this config hasn't run today
// yet. The last-run claim is an atomic conditional update, so two overlapping
// sweeps can't both synthesize.
type CalendarSource struct {
	cr       repository.CalendarRepository
	la       repository.LinkedInAccountRepository
	dispatch service.DispatchService
}

func NewCalendarSource(cr repository.CalendarRepository, la repository.LinkedInAccountRepository, dispatch service.DispatchService) *CalendarSource {
	return &CalendarSource{
		cr:       cr,
		la:       la,
		dispatch: dispatch,
	}
}

func (s *CalendarSource) Name() string {
	return "calendar"
}

func (s *CalendarSource) Collect(ctx context.Context, now time.Time) ([]*models.Post, error) {
	configs, err := s.cr.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Format(dateLayout)

	var posts []*models.Post
	for _, config := range configs {
		if config.LastRunDate == today {
			continue
		}

		event, err := s.cr.GetEventByDate(ctx, config.ID, today)
		if err != nil {
			log.Printf("calendar: config %d: %v", config.ID, err)
			continue
		}
		if event == nil {
			continue
		}

		// A removed identity must not burn the day's claim or spend
		// generation on a post that can only fail.
		account, err := s.la.GetByURN(ctx, config.UserID, config.TargetURN)
		if err != nil {
			log.Printf("calendar: config %d: %v", config.ID, err)
			continue
		}
		if account == nil {
			log.Printf("calendar: config %d target %s is not linked, skipping", config.ID, config.TargetURN)
			continue
		}

		won, err := s.cr.MarkRun(ctx, config.ID, today)
		if err != nil {
			log.Printf("calendar: config %d: %v", config.ID, err)
			continue
		}
		if !won {
			continue
		}

		post, err := s.dispatch.SynthesizePost(ctx, config.UserID, config.TargetURN, event.Topic)
		if err != nil {
			// The day is already claimed; the topic is skipped rather
			// than retried in a tight loop.
			log.Printf("calendar: config %d synthesis: %v", config.ID, err)
			continue
		}

		posts = append(posts, post)
	}

	return posts, nil
}
