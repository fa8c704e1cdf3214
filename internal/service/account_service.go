package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
)

// AccountService manages the user's linked LinkedIn identities.
type AccountService interface {
	ListAccounts(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error)
	RemoveAccount(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	la repository.LinkedInAccountRepository
}

func NewAccountService(la repository.LinkedInAccountRepository) AccountService {
	return &accountService{la: la}
}

func (s *accountService) ListAccounts(ctx context.Context, userID int64) ([]*models.LinkedInAccount, error) {
	accounts, err := s.la.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing linked accounts")
	}
	return accounts, nil
}

func (s *accountService) RemoveAccount(ctx context.Context, userID, accountID int64) error {
	isValid, err := s.la.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return s.la.Remove(ctx, accountID)
}
