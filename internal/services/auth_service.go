package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lifetrack/internal/authz"
	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
	"lifetrack/internal/utils"
)

const minPasswordLen = 8

type AuthService interface {
	HashPassword(plain string) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID int64) error
}

type TokenPair struct {
	AccessToken     string    `json:"access_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
	RefreshToken    string    `json:"refresh_token"`
}

type AuthSettings struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type authService struct {
	users    repositories.UserRepository
	notify   NotificationService
	settings AuthSettings
	now      func() time.Time
	log      *zap.Logger
}

func NewAuthService(users repositories.UserRepository, notify NotificationService, settings AuthSettings, log *zap.Logger) AuthService {
	return &authService{users: users, notify: notify, settings: settings, now: time.Now, log: log}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		RoleID:       authz.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("auth.register", zap.Int64("user_id", user.ID))
	s.notify.Welcome(ctx, user)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.TrimSpace(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("auth.login.mismatch", zap.Int64("user_id", user.ID))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.UpdateRefresh(ctx, user.ID, pair.RefreshToken, s.now().Add(s.settings.RefreshTokenTTL)); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}
	s.log.Info("auth.login", zap.Int64("user_id", user.ID), zap.Int("role_id", user.RoleID))
	return user, pair, nil
}

// Refresh rotates the refresh token: the old one stops working as soon as
// the new pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	old := strings.TrimSpace(refreshToken)
	if old == "" {
		return nil, ErrInvalidRefresh
	}
	user, err := s.users.GetByRefreshToken(ctx, old)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if user.RefreshRevoked || user.RefreshExpiresAt == nil {
		return nil, ErrInvalidRefresh
	}
	if s.now().After(*user.RefreshExpiresAt) {
		return nil, ErrRefreshExpired
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	rotated, err := s.users.RotateRefresh(ctx, old, newRT, s.now().Add(s.settings.RefreshTokenTTL))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	access, exp, err := utils.SignAccessToken(s.settings.JWTSecret, rotated.ID, rotated.RoleID, s.settings.AccessTokenTTL, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &TokenPair{AccessToken: access, AccessExpiresAt: exp, RefreshToken: newRT}, nil
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	return s.users.ClearRefresh(ctx, userID)
}

func (s *authService) issue(user *models.User) (*TokenPair, error) {
	access, exp, err := utils.SignAccessToken(s.settings.JWTSecret, user.ID, user.RoleID, s.settings.AccessTokenTTL, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, AccessExpiresAt: exp, RefreshToken: rt}, nil
}
