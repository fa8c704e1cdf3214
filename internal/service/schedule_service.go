package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
)

// ScheduleService manages the calendar and industry trigger configurations.
type ScheduleService interface {
	GetCalendarConfig(ctx context.Context, userID int64) (*models.CalendarConfig, []*models.CalendarEvent, error)
	SaveCalendarConfig(ctx context.Context, userID int64, update *transfer.CalendarConfigUpdate) error
	GetIndustryConfig(ctx context.Context, userID int64) (*models.IndustryConfig, []*models.IndustrySlot, error)
	SaveIndustryConfig(ctx context.Context, userID int64, update *transfer.IndustryConfigUpdate) error
}

type scheduleService struct {
	cr repository.CalendarRepository
	ir repository.IndustryRepository
	la repository.LinkedInAccountRepository
}

func NewScheduleService(
	cr repository.CalendarRepository,
	ir repository.IndustryRepository,
	la repository.LinkedInAccountRepository) ScheduleService {
	return &scheduleService{
		cr: cr,
		ir: ir,
		la: la,
	}
}

func (s *scheduleService) GetCalendarConfig(ctx context.Context, userID int64) (*models.CalendarConfig, []*models.CalendarEvent, error) {
	cc, err := s.cr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting calendar config")
	}
	if cc == nil {
		return nil, nil, nil
	}

	events, err := s.cr.ListEvents(ctx, cc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting calendar events")
	}

	return cc, events, nil
}

func (s *scheduleService) SaveCalendarConfig(ctx context.Context, userID int64, update *transfer.CalendarConfigUpdate) error {
	if err := s.checkTarget(ctx, userID, update.TargetURN); err != nil {
		return err
	}

	cc := models.CalendarConfig{
		UserID:    userID,
		TargetURN: update.TargetURN,
		Enabled:   update.Enabled,
	}
	configID, err := s.cr.Upsert(ctx, &cc)
	if err != nil {
		return err
	}

	events := make([]*models.CalendarEvent, 0, len(update.Events))
	for _, ev := range update.Events {
		events = append(events, &models.CalendarEvent{
			ConfigID:  configID,
			EventDate: ev.EventDate,
			Topic:     ev.Topic,
		})
	}
	return s.cr.ReplaceEvents(ctx, configID, events)
}

func (s *scheduleService) GetIndustryConfig(ctx context.Context, userID int64) (*models.IndustryConfig, []*models.IndustrySlot, error) {
	ic, err := s.ir.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting industry config")
	}
	if ic == nil {
		return nil, nil, nil
	}

	slots, err := s.ir.ListSlots(ctx, ic.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting industry slots")
	}

	return ic, slots, nil
}

func (s *scheduleService) SaveIndustryConfig(ctx context.Context, userID int64, update *transfer.IndustryConfigUpdate) error {
	if err := s.checkTarget(ctx, userID, update.TargetURN); err != nil {
		return err
	}

	ic := models.IndustryConfig{
		UserID:    userID,
		TargetURN: update.TargetURN,
		Enabled:   update.Enabled,
	}
	configID, err := s.ir.Upsert(ctx, &ic)
	if err != nil {
		return err
	}

	slots := make([]*models.IndustrySlot, 0, len(update.Slots))
	for _, slot := range update.Slots {
		slots = append(slots, &models.IndustrySlot{
			ConfigID:  configID,
			TimeOfDay: slot.TimeOfDay,
			Keyword:   slot.Keyword,
		})
	}
	return s.ir.ReplaceSlots(ctx, configID, slots)
}

func (s *scheduleService) checkTarget(ctx context.Context, userID int64, targetURN string) error {
	if targetURN == "" {
		err := errors.New("target urn is empty")
		slog.Info(err.Error())
		return err
	}

	account, err := s.la.GetByURN(ctx, userID, targetURN)
	if err != nil {
		return err
	}
	if account == nil {
		slog.Info(fmt.Sprintf("target %s is not linked for user %d", targetURN, userID))
		return ErrAccountNotConnected
	}
	return nil
}
