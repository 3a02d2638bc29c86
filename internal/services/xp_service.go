package services

import (
	"context"
	"fmt"

	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
	"lifetrack/internal/xp"
)

// streakLookback bounds how far back the ledger is scanned for a streak.
const streakLookback = 365

type XPService interface {
	Balance(ctx context.Context, userID int64) (int, error)
	Streak(ctx context.Context, userID int64) (int, error)
	History(ctx context.Context, userID int64, limit, offset int) ([]*models.XPEntry, error)
	Calculate(in xp.TaskContext) xp.Calculation
	NearEarned(ctx context.Context, userID int64) (*NearEarned, error)
	EarningGuide() map[string]xp.EarningGuide
}

type NearEarned struct {
	Balance int                   `json:"balance"`
	Rewards []xp.NearEarnedReward `json:"rewards"`
}

type xpService struct {
	store repositories.Store
	clock Clock
}

func NewXPService(store repositories.Store, clock Clock) XPService {
	return &xpService{store: store, clock: clock}
}

func (s *xpService) Balance(ctx context.Context, userID int64) (int, error) {
	return s.store.XP().Balance(ctx, userID)
}

func (s *xpService) Streak(ctx context.Context, userID int64) (int, error) {
	return currentStreak(ctx, s.store.XP(), userID, s.clock.Today())
}

func (s *xpService) History(ctx context.Context, userID int64, limit, offset int) ([]*models.XPEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.XP().List(ctx, userID, limit, offset)
}

func (s *xpService) Calculate(in xp.TaskContext) xp.Calculation {
	return xp.CalculateTaskXP(in)
}

func (s *xpService) NearEarned(ctx context.Context, userID int64) (*NearEarned, error) {
	balance, err := s.store.XP().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	rewards, err := s.store.Rewards().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	catalog := make([]xp.CatalogItem, 0, len(rewards))
	for _, r := range rewards {
		catalog = append(catalog, xp.CatalogItem{Name: r.Name, Price: r.BasePrice})
	}
	return &NearEarned{Balance: balance, Rewards: xp.NearEarnedRewards(balance, catalog)}, nil
}

func (s *xpService) EarningGuide() map[string]xp.EarningGuide {
	return xp.RewardEarningGuide()
}

// currentStreak counts consecutive productive days ending today. A streak
// that ended yesterday is still alive until today is over.
func currentStreak(ctx context.Context, ledger repositories.XPRepository, userID int64, today models.Date) (int, error) {
	days, err := ledger.ProductiveDays(ctx, userID, today.AddDays(-streakLookback))
	if err != nil {
		return 0, fmt.Errorf("productive days: %w", err)
	}
	return countStreak(days, today), nil
}

// countStreak expects days newest first. Days after today are ignored.
func countStreak(days []models.Date, today models.Date) int {
	for len(days) > 0 && days[0].After(today) {
		days = days[1:]
	}
	if len(days) == 0 {
		return 0
	}
	expected := today
	if !days[0].Equal(today) {
		expected = today.AddDays(-1)
	}
	streak := 0
	for _, d := range days {
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDays(-1)
	}
	return streak
}
