package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lifetrack/internal/authz"
	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
)

func intPtr(v int) *int { return &v }

// DefaultRewards is the starter catalog.
func DefaultRewards() []*models.Reward {
	return []*models.Reward{
		{Category: "break", Name: "Coffee Break", BasePrice: 25, AvailabilityWindow: models.WindowAnytime, MaxDailyUse: 3},
		{Category: "break", Name: "15 Min Social Media", BasePrice: 40, AvailabilityWindow: models.WindowAnytime, MaxDailyUse: 2},
		{Category: "treat", Name: "Favorite Snack", BasePrice: 50, AvailabilityWindow: models.WindowAfternoon, MaxDailyUse: 1},
		{Category: "entertainment", Name: "Episode of a Show", BasePrice: 80, AvailabilityWindow: models.WindowEvening, MaxDailyUse: 2},
		{Category: "downtime", Name: "1 Hour Downtime", BasePrice: 100, AvailabilityWindow: models.WindowAnytime, MaxDailyUse: 1},
		{Category: "entertainment", Name: "Gaming Session", BasePrice: 150, AvailabilityWindow: models.WindowEvening, MaxDailyUse: 1},
		{Category: "treat", Name: "Takeout Dinner", BasePrice: 250, AvailabilityWindow: models.WindowEvening, MaxDailyUse: 1, RequiresStreak: intPtr(3)},
		{Category: "outing", Name: "Movie Night", BasePrice: 300, AvailabilityWindow: models.WindowWeekend, MaxDailyUse: 1},
		{Category: "downtime", Name: "Lazy Morning", BasePrice: 400, AvailabilityWindow: models.WindowWeekend, MaxDailyUse: 1, RequiresStreak: intPtr(5)},
		{Category: "outing", Name: "Day Trip", BasePrice: 1000, AvailabilityWindow: models.WindowWeekend, RequiresStreak: intPtr(7)},
	}
}

type Seeder struct {
	store repositories.Store
	auth  AuthService
	log   *zap.Logger
}

func NewSeeder(store repositories.Store, auth AuthService, log *zap.Logger) *Seeder {
	return &Seeder{store: store, auth: auth, log: log}
}

// SeedRewards inserts the default catalog when the catalog is empty and
// returns how many rewards were added.
func (s *Seeder) SeedRewards(ctx context.Context) (int, error) {
	added := 0
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		n, err := tx.Rewards().Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, r := range DefaultRewards() {
			if err := tx.Rewards().Create(ctx, r); err != nil {
				return fmt.Errorf("seed %q: %w", r.Name, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("seed.rewards", zap.Int("added", added))
	return added, nil
}

// EnsureAdmin creates an admin account unless the email is already taken.
func (s *Seeder) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	if existing, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, DisplayName: "admin", PasswordHash: hash, RoleID: authz.RoleAdmin}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("seed.admin", zap.Int64("user_id", u.ID))
	return u, nil
}
