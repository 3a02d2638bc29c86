package repositories

import (
	"context"

	"lifetrack/internal/models"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByID(ctx context.Context, id int64) (*models.Reward, error)
	FindAll(ctx context.Context) ([]*models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type rewardRepository struct {
	q DBTX
}

func NewRewardRepository(q DBTX) RewardRepository {
	return &rewardRepository{q: q}
}

const rewardColumns = `id, category, name, base_price, availability_window, max_daily_use,
       requires_streak, created_at, updated_at`

func scanReward(row rowScanner) (*models.Reward, error) {
	rw := &models.Reward{}
	if err := row.Scan(
		&rw.ID, &rw.Category, &rw.Name, &rw.BasePrice, &rw.AvailabilityWindow,
		&rw.MaxDailyUse, &rw.RequiresStreak, &rw.CreatedAt, &rw.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rw, nil
}

func (r *rewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	query := `
		INSERT INTO rewards (category, name, base_price, availability_window, max_daily_use, requires_streak)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		reward.Category, reward.Name, reward.BasePrice, reward.AvailabilityWindow,
		reward.MaxDailyUse, reward.RequiresStreak,
	).Scan(&reward.ID, &reward.CreatedAt, &reward.UpdatedAt)
	return mapError(err)
}

func (r *rewardRepository) FindByID(ctx context.Context, id int64) (*models.Reward, error) {
	rw, err := scanReward(r.q.QueryRowContext(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return rw, nil
}

func (r *rewardRepository) FindAll(ctx context.Context) ([]*models.Reward, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+rewardColumns+` FROM rewards ORDER BY base_price ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Reward, 0)
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *rewardRepository) Update(ctx context.Context, reward *models.Reward) error {
	query := `
		UPDATE rewards SET
			category=$1, name=$2, base_price=$3, availability_window=$4,
			max_daily_use=$5, requires_streak=$6, updated_at=NOW()
		WHERE id=$7
		RETURNING updated_at`
	err := r.q.QueryRowContext(ctx, query,
		reward.Category, reward.Name, reward.BasePrice, reward.AvailabilityWindow,
		reward.MaxDailyUse, reward.RequiresStreak, reward.ID,
	).Scan(&reward.UpdatedAt)
	return mapError(err)
}

func (r *rewardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rewards WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func (r *rewardRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rewards`).Scan(&n)
	return n, err
}
