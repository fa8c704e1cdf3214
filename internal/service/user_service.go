package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	SetActiveURN(ctx context.Context, userID int64, urn string) error
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u  repository.UserRepository
	la repository.LinkedInAccountRepository
}

func NewUserService(u repository.UserRepository, la repository.LinkedInAccountRepository) UserService {
	return &userService{
		u:  u,
		la: la,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting user info")
	}

	if !isExist {
		err = errors.New("user not found")
		slog.Info(err.Error())
		return nil, fmt.Errorf("user doesn't exist")
	}

	return user, nil
}

func (s *userService) SetActiveURN(ctx context.Context, userID int64, urn string) error {
	account, err := s.la.GetByURN(ctx, userID, urn)
	if err != nil {
		return err
	}
	if account == nil {
		slog.Info(fmt.Sprintf("cannot activate %s: not linked for user %d", urn, userID))
		return ErrAccountNotConnected
	}

	return s.u.SetActiveURN(ctx, userID, urn)
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	err := s.u.Remove(ctx, userID)
	if err != nil {
		return err
	}
	return nil
}
