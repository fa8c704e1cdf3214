package job

import (
	"context"
	"log"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

const slotWindow = 3 * time.Minute

// IndustrySource fires per time-of-day slot. A slot is eligible when the
// sweep lands inside its window (slot time up to three minutes past), the
// config's target identity is still linked, and the slot's own last-run date
// hasn't been claimed today. Slots are independent: one config can fire
// several times a day, once per slot.
type IndustrySource struct {
	ir       repository.IndustryRepository
	la       repository.LinkedInAccountRepository
	dispatch service.DispatchService
}

func NewIndustrySource(ir repository.IndustryRepository, la repository.LinkedInAccountRepository, dispatch service.DispatchService) *IndustrySource {
	return &IndustrySource{
		ir:       ir,
		la:       la,
		dispatch: dispatch,
	}
}

func (s *IndustrySource) Name() string {
	return "industry"
}

func (s *IndustrySource) Collect(ctx context.Context, now time.Time) ([]*models.Post, error) {
	configs, err := s.ir.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Format(dateLayout)

	var posts []*models.Post
	for _, config := range configs {
		// A removed identity must not burn slot claims or spend
		// generation on posts that can only fail.
		account, err := s.la.GetByURN(ctx, config.UserID, config.TargetURN)
		if err != nil {
			log.Printf("industry: config %d: %v", config.ID, err)
			continue
		}
		if account == nil {
			log.Printf("industry: config %d target %s is not linked, skipping", config.ID, config.TargetURN)
			continue
		}

		slots, err := s.ir.ListSlots(ctx, config.ID)
		if err != nil {
			log.Printf("industry: config %d: %v", config.ID, err)
			continue
		}

		for _, slot := range slots {
			if slot.LastRunDate == today {
				continue
			}
			if !inSlotWindow(slot.TimeOfDay, now) {
				continue
			}

			won, err := s.ir.MarkSlotRun(ctx, slot.ID, today)
			if err != nil {
				log.Printf("industry: slot %d: %v", slot.ID, err)
				continue
			}
			if !won {
				continue
			}

			post, err := s.dispatch.SynthesizePost(ctx, config.UserID, config.TargetURN, slot.Keyword)
			if err != nil {
				log.Printf("industry: slot %d synthesis: %v", slot.ID, err)
				continue
			}

			posts = append(posts, post)
		}
	}

	return posts, nil
}

// inSlotWindow reports whether now falls in [slot, slot+3m) for a "15:04"
// time of day. A malformed slot time never fires.
func inSlotWindow(timeOfDay string, now time.Time) bool {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		log.Printf("industry: bad slot time %q: %v", timeOfDay, err)
		return false
	}

	slotTime := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	return !now.Before(slotTime) && now.Sub(slotTime) < slotWindow
}
