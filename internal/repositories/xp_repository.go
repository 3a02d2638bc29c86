package repositories

import (
	"context"

	"lifetrack/internal/models"
)

type XPRepository interface {
	Insert(ctx context.Context, entry *models.XPEntry) error
	Balance(ctx context.Context, userID int64) (int, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*models.XPEntry, error)
	// TaskNet returns the net XP a task has earned so far and the day of its
	// latest earn entry (zero when it never earned).
	TaskNet(ctx context.Context, userID int64, taskID string) (int, models.Date, error)
	// DayNet sums earn and revoke entries booked on day.
	DayNet(ctx context.Context, userID int64, day models.Date) (int, error)
	CountRedemptions(ctx context.Context, userID, rewardID int64, day models.Date) (int, error)
	// ProductiveDays lists days on or after since with positive net earned
	// XP, newest first.
	ProductiveDays(ctx context.Context, userID int64, since models.Date) ([]models.Date, error)
}

type xpRepository struct {
	q DBTX
}

func NewXPRepository(q DBTX) XPRepository {
	return &xpRepository{q: q}
}

func (r *xpRepository) Insert(ctx context.Context, e *models.XPEntry) error {
	query := `
		INSERT INTO xp_ledger (user_id, kind, amount, task_id, reward_id, note, day)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	err := r.q.QueryRowContext(ctx, query,
		e.UserID, e.Kind, e.Amount, e.TaskID, e.RewardID, e.Note, e.Day,
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err)
}

func (r *xpRepository) Balance(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM xp_ledger WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *xpRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*models.XPEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, task_id, reward_id, note, day, created_at
		FROM xp_ledger WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.XPEntry, 0)
	for rows.Next() {
		e := &models.XPEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Amount, &e.TaskID, &e.RewardID,
			&e.Note, &e.Day, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *xpRepository) TaskNet(ctx context.Context, userID int64, taskID string) (int, models.Date, error) {
	var (
		net int
		day models.Date
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), MAX(day) FILTER (WHERE kind = 'earn')
		FROM xp_ledger
		WHERE user_id = $1 AND task_id = $2 AND kind IN ('earn', 'revoke')`,
		userID, taskID).Scan(&net, &day)
	return net, day, err
}

func (r *xpRepository) DayNet(ctx context.Context, userID int64, day models.Date) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM xp_ledger
		WHERE user_id = $1 AND day = $2 AND kind IN ('earn', 'revoke')`,
		userID, day).Scan(&n)
	return n, err
}

func (r *xpRepository) CountRedemptions(ctx context.Context, userID, rewardID int64, day models.Date) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM xp_ledger
		WHERE user_id = $1 AND reward_id = $2 AND day = $3 AND kind = 'redeem'`,
		userID, rewardID, day).Scan(&n)
	return n, err
}

func (r *xpRepository) ProductiveDays(ctx context.Context, userID int64, since models.Date) ([]models.Date, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT day FROM xp_ledger
		WHERE user_id = $1 AND day >= $2 AND kind IN ('earn', 'revoke')
		GROUP BY day
		HAVING SUM(amount) > 0
		ORDER BY day DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]models.Date, 0)
	for rows.Next() {
		var d models.Date
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
