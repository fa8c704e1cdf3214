package service

import (
	"context"
	"fmt"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
)

type SettingsService interface {
	GetSettings(ctx context.Context, userID int64) (*models.Settings, error)
	SaveSettings(ctx context.Context, userID int64, tone, industry string) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{sr: sr}
}

func (s *settingsService) GetSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting settings")
	}
	if settings == nil {
		return &models.Settings{UserID: userID, Tone: "professional", Industry: "general"}, nil
	}
	return settings, nil
}

func (s *settingsService) SaveSettings(ctx context.Context, userID int64, tone, industry string) error {
	settings := models.Settings{
		UserID:   userID,
		Tone:     tone,
		Industry: industry,
	}
	return s.sr.Upsert(ctx, &settings)
}
