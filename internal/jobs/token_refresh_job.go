package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

type TokenRefreshJob struct {
	la repository.LinkedInAccountRepository
	li service.LinkedInService
}

func NewTokenRefreshJob(
	la repository.LinkedInAccountRepository,
	li service.LinkedInService) *TokenRefreshJob {
	return &TokenRefreshJob{
		la: la,
		li: li,
	}
}

// RefreshTokens refreshes every token that expires in the next 30 minutes
// (or already has). Accounts without a refresh token just log and stay as
// they are until the user reconnects.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.la.ListByTimeInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.LinkedInAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.li.RefreshLinkedInToken(ctx, acc); err != nil {
				slog.Info("unable to refresh token for account " + acc.URN)
			}
		}(acc)
	}

	wg.Wait()
}
