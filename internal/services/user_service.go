package services

import (
	"context"

	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
)

type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	GetUserCount(ctx context.Context) (int, error)
	UpdateNotifications(ctx context.Context, userID int64, req models.NotificationSettings) (*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *userService) GetUserCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *userService) UpdateNotifications(ctx context.Context, userID int64, req models.NotificationSettings) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.TelegramChatID != nil {
		u.TelegramChatID = *req.TelegramChatID
	}
	if req.NotifyTelegram != nil {
		u.NotifyTelegram = *req.NotifyTelegram
	}
	if req.NotifyEmail != nil {
		u.NotifyEmail = *req.NotifyEmail
	}
	if err := s.repo.UpdateNotifications(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
