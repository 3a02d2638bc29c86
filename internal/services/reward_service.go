package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lifetrack/internal/metrics"
	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
	"lifetrack/internal/xp"
)

type RewardService interface {
	List(ctx context.Context) ([]*models.Reward, error)
	GetByID(ctx context.Context, id int64) (*models.Reward, error)
	Create(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	Update(ctx context.Context, id int64, reward *models.Reward) (*models.Reward, error)
	Delete(ctx context.Context, id int64) error

	// Redeem spends XP on a reward. Checks and the ledger write run in one
	// transaction with the user row locked.
	Redeem(ctx context.Context, userID, rewardID int64) (*Redemption, error)
}

type Redemption struct {
	Reward  *models.Reward `json:"reward"`
	Spent   int            `json:"spent"`
	Balance int            `json:"balance"`
}

type rewardService struct {
	store  repositories.Store
	notify NotificationService
	clock  Clock
	log    *zap.Logger
}

func NewRewardService(store repositories.Store, notify NotificationService, clock Clock, log *zap.Logger) RewardService {
	return &rewardService{store: store, notify: notify, clock: clock, log: log}
}

func (s *rewardService) List(ctx context.Context) ([]*models.Reward, error) {
	return s.store.Rewards().FindAll(ctx)
}

func (s *rewardService) GetByID(ctx context.Context, id int64) (*models.Reward, error) {
	return s.store.Rewards().FindByID(ctx, id)
}

func (s *rewardService) Create(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if err := normalizeReward(reward); err != nil {
		return nil, err
	}
	if err := s.store.Rewards().Create(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *rewardService) Update(ctx context.Context, id int64, reward *models.Reward) (*models.Reward, error) {
	if err := normalizeReward(reward); err != nil {
		return nil, err
	}
	existing, err := s.store.Rewards().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Category = reward.Category
	existing.Name = reward.Name
	existing.BasePrice = reward.BasePrice
	existing.AvailabilityWindow = reward.AvailabilityWindow
	existing.MaxDailyUse = reward.MaxDailyUse
	existing.RequiresStreak = reward.RequiresStreak
	if err := s.store.Rewards().Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *rewardService) Delete(ctx context.Context, id int64) error {
	return s.store.Rewards().Delete(ctx, id)
}

func (s *rewardService) Redeem(ctx context.Context, userID, rewardID int64) (*Redemption, error) {
	var out *Redemption
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Users().LockForUpdate(ctx, userID); err != nil {
			return err
		}
		reward, err := tx.Rewards().FindByID(ctx, rewardID)
		if err != nil {
			return err
		}

		local := s.clock.Local()
		today := models.DateOf(local)
		if !WindowOpen(reward.AvailabilityWindow, local) {
			return fmt.Errorf("%w: %s rewards only", ErrRewardUnavailable, reward.AvailabilityWindow)
		}

		balance, err := tx.XP().Balance(ctx, userID)
		if err != nil {
			return err
		}
		if balance < reward.BasePrice {
			return fmt.Errorf("%w: need %d more", ErrInsufficientXP, reward.BasePrice-balance)
		}

		if reward.MaxDailyUse > 0 {
			used, err := tx.XP().CountRedemptions(ctx, userID, reward.ID, today)
			if err != nil {
				return err
			}
			if used >= reward.MaxDailyUse {
				return fmt.Errorf("%w: %d/%d today", ErrDailyLimitReached, used, reward.MaxDailyUse)
			}
		}

		if reward.RequiresStreak != nil && *reward.RequiresStreak > 0 {
			streak, err := currentStreak(ctx, tx.XP(), userID, today)
			if err != nil {
				return err
			}
			if streak < *reward.RequiresStreak {
				return fmt.Errorf("%w: %d/%d days", ErrStreakRequired, streak, *reward.RequiresStreak)
			}
		}

		rid := reward.ID
		entry := &models.XPEntry{
			UserID:   userID,
			Kind:     models.XPRedeem,
			Amount:   -reward.BasePrice,
			RewardID: &rid,
			Note:     reward.Name,
			Day:      today,
		}
		if err := tx.XP().Insert(ctx, entry); err != nil {
			return fmt.Errorf("record redemption: %w", err)
		}
		out = &Redemption{Reward: reward, Spent: reward.BasePrice, Balance: balance - reward.BasePrice}
		return nil
	})

	metrics.Redemptions.WithLabelValues(redemptionResult(err)).Inc()
	if err != nil {
		s.log.Info("reward.redeem.rejected",
			zap.Int64("user_id", userID), zap.Int64("reward_id", rewardID), zap.Error(err))
		return nil, err
	}
	s.log.Info("reward.redeem",
		zap.Int64("user_id", userID), zap.Int64("reward_id", rewardID),
		zap.Int("spent", out.Spent), zap.Int("balance", out.Balance))
	s.notify.RewardRedeemed(ctx, userID, out.Reward, out.Balance)
	return out, nil
}

// WindowOpen reports whether a reward with the given availability window can
// be redeemed at t. Unknown windows are treated as always open.
func WindowOpen(window string, t time.Time) bool {
	switch strings.ToLower(strings.TrimSpace(window)) {
	case models.WindowMorning:
		return xp.TimeOfDayFor(t) == xp.Morning
	case models.WindowAfternoon:
		return xp.TimeOfDayFor(t) == xp.Afternoon
	case models.WindowEvening:
		return xp.TimeOfDayFor(t) == xp.Evening
	case models.WindowWeekday:
		return !xp.IsWeekend(t)
	case models.WindowWeekend:
		return xp.IsWeekend(t)
	default:
		return true
	}
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientXP):
		return "insufficient_xp"
	case errors.Is(err, ErrDailyLimitReached):
		return "daily_limit"
	case errors.Is(err, ErrStreakRequired):
		return "streak_required"
	case errors.Is(err, ErrRewardUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func normalizeReward(r *models.Reward) error {
	if r == nil {
		return fmt.Errorf("%w: reward is required", ErrValidation)
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.AvailabilityWindow = strings.ToLower(strings.TrimSpace(r.AvailabilityWindow))
	if r.AvailabilityWindow == "" {
		r.AvailabilityWindow = models.WindowAnytime
	}
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case r.BasePrice <= 0:
		return fmt.Errorf("%w: base_price must be positive", ErrValidation)
	case r.MaxDailyUse < 0:
		return fmt.Errorf("%w: max_daily_use must be >= 0", ErrValidation)
	case r.RequiresStreak != nil && *r.RequiresStreak < 0:
		return fmt.Errorf("%w: requires_streak must be >= 0", ErrValidation)
	}
	if r.Category == "" {
		r.Category = "general"
	}
	return nil
}
