package services

import (
	"errors"

	"lifetrack/internal/repositories"
)

var (
	ErrNotFound = repositories.ErrNotFound
	ErrConflict = repositories.ErrConflict

	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrRefreshExpired     = errors.New("refresh token expired")

	ErrInsufficientXP    = errors.New("insufficient xp")
	ErrDailyLimitReached = errors.New("daily redemption limit reached")
	ErrStreakRequired    = errors.New("streak requirement not met")
	ErrRewardUnavailable = errors.New("reward not available right now")
)
