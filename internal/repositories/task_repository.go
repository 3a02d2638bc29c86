package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lifetrack/internal/models"
)

type DailyTaskRepository interface {
	Store(ctx context.Context, task *models.DailyTask) error
	FindByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, userID int64, id string) (*models.DailyTask, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]*models.DailyTask, error)
	// ListForDay returns the rollover candidates for date: tasks already on
	// date plus unfinished tasks from earlier days, oldest first. The rows stay
	// locked until the surrounding transaction ends.
	ListForDay(ctx context.Context, userID int64, date models.Date) ([]*models.DailyTask, error)
	// RollOver moves an unfinished task forward to date and bumps its counter.
	// It reports false when the row no longer qualifies (completed, or already
	// on date or later) and leaves the row untouched.
	RollOver(ctx context.Context, task *models.DailyTask, date models.Date) (bool, error)
	Update(ctx context.Context, task *models.DailyTask) error
	Delete(ctx context.Context, userID int64, id string) error
}

type dailyTaskRepository struct {
	q DBTX
}

func NewDailyTaskRepository(q DBTX) DailyTaskRepository {
	return &dailyTaskRepository{q: q}
}

const taskColumns = `id, user_id, title, description, work_type, priority, completed, completed_at,
       original_date, active_date, rollovers, estimated_duration, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.DailyTask, error) {
	t := &models.DailyTask{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.WorkType, &t.Priority,
		&t.Completed, &t.CompletedAt, &t.OriginalDate, &t.CurrentDate, &t.Rollovers,
		&t.EstimatedDuration, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *dailyTaskRepository) Store(ctx context.Context, task *models.DailyTask) error {
	query := `
		INSERT INTO daily_tasks (
			id, user_id, title, description, work_type, priority, completed, completed_at,
			original_date, active_date, rollovers, estimated_duration, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.q.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.WorkType, task.Priority,
		task.Completed, task.CompletedAt, task.OriginalDate, task.CurrentDate, task.Rollovers,
		task.EstimatedDuration, task.CreatedAt, task.UpdatedAt,
	)
	return mapError(err)
}

func (r *dailyTaskRepository) FindByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` FROM daily_tasks WHERE id = $1 AND user_id = $2`
	task, err := scanTask(r.q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

func (r *dailyTaskRepository) FindByIDForUpdate(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` FROM daily_tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	task, err := scanTask(r.q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

func (r *dailyTaskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]*models.DailyTask, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	argID := 2

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("active_date >= $%d", argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("active_date <= $%d", argID))
		args = append(args, *filter.To)
		argID++
	}
	if filter.Completed != nil {
		conditions = append(conditions, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *filter.Completed)
	}

	query := `SELECT ` + taskColumns + ` FROM daily_tasks WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, args...)
}

func (r *dailyTaskRepository) ListForDay(ctx context.Context, userID int64, date models.Date) ([]*models.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` FROM daily_tasks
		WHERE user_id = $1
		  AND (active_date = $2 OR (active_date < $2 AND completed = FALSE))
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`
	return r.list(ctx, query, userID, date)
}

func (r *dailyTaskRepository) RollOver(ctx context.Context, task *models.DailyTask, date models.Date) (bool, error) {
	query := `
		UPDATE daily_tasks SET
			active_date=$1, rollovers=rollovers+1, updated_at=$2
		WHERE id=$3 AND user_id=$4 AND completed=FALSE AND active_date < $1
		RETURNING rollovers`
	err := r.q.QueryRowContext(ctx, query, date, task.UpdatedAt, task.ID, task.UserID).Scan(&task.Rollovers)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	task.CurrentDate = date
	return true, nil
}

func (r *dailyTaskRepository) list(ctx context.Context, query string, args ...any) ([]*models.DailyTask, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.DailyTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes the mutable fields. original_date is never touched and the
// rollover counter can only grow.
func (r *dailyTaskRepository) Update(ctx context.Context, task *models.DailyTask) error {
	query := `
		UPDATE daily_tasks SET
			title=$1, description=$2, work_type=$3, priority=$4, completed=$5,
			completed_at=$6, active_date=$7, rollovers=GREATEST(rollovers, $8),
			estimated_duration=$9, updated_at=$10
		WHERE id=$11 AND user_id=$12`
	res, err := r.q.ExecContext(ctx, query,
		task.Title, task.Description, task.WorkType, task.Priority, task.Completed,
		task.CompletedAt, task.CurrentDate, task.Rollovers,
		task.EstimatedDuration, task.UpdatedAt, task.ID, task.UserID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func (r *dailyTaskRepository) Delete(ctx context.Context, userID int64, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM daily_tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}
