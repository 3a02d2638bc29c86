package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifetrack/internal/metrics"
	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
	"lifetrack/internal/rollover"
	"lifetrack/internal/xp"
)

// DailyTaskService defines the task-related business logic.
type DailyTaskService interface {
	Create(ctx context.Context, userID int64, req models.CreateTaskRequest) (*models.DailyTask, error)
	GetByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error)
	List(ctx context.Context, filter models.TaskFilter) ([]*models.DailyTask, error)
	Update(ctx context.Context, userID int64, id string, req models.UpdateTaskRequest) (*models.DailyTask, error)
	Delete(ctx context.Context, userID int64, id string) error

	// ForDate returns the day list for date with unfinished work from
	// earlier days carried over and persisted.
	ForDate(ctx context.Context, userID int64, date models.Date) (*rollover.Result, error)
	// Toggle flips completion. Completing awards XP; un-completing revokes
	// whatever the task still holds.
	Toggle(ctx context.Context, userID int64, id string, req models.ToggleTaskRequest) (*ToggleResult, error)
}

type ToggleResult struct {
	Task        *models.DailyTask `json:"task"`
	Calculation *xp.Calculation   `json:"calculation,omitempty"`
	XPDelta     int               `json:"xp_delta"`
	Balance     int               `json:"balance"`
}

type dailyTaskService struct {
	store  repositories.Store
	notify NotificationService
	clock  Clock
	log    *zap.Logger
}

func NewDailyTaskService(store repositories.Store, notify NotificationService, clock Clock, log *zap.Logger) DailyTaskService {
	return &dailyTaskService{store: store, notify: notify, clock: clock, log: log}
}

func (s *dailyTaskService) Create(ctx context.Context, userID int64, req models.CreateTaskRequest) (*models.DailyTask, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.EstimatedDuration != nil && *req.EstimatedDuration < 0 {
		return nil, fmt.Errorf("%w: estimated_duration must be >= 0", ErrValidation)
	}

	date := s.clock.Today()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}
	now := s.clock.Now()
	task := &models.DailyTask{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             title,
		Description:       strings.TrimSpace(req.Description),
		WorkType:          models.ParseWorkType(req.WorkType),
		Priority:          models.ParsePriority(req.Priority),
		OriginalDate:      date,
		CurrentDate:       date,
		EstimatedDuration: req.EstimatedDuration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Tasks().Store(ctx, task); err != nil {
		return nil, fmt.Errorf("store task: %w", err)
	}
	return task, nil
}

func (s *dailyTaskService) GetByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.store.Tasks().FindByID(ctx, userID, id)
}

func (s *dailyTaskService) List(ctx context.Context, filter models.TaskFilter) ([]*models.DailyTask, error) {
	return s.store.Tasks().FindAll(ctx, filter)
}

func (s *dailyTaskService) Update(ctx context.Context, userID int64, id string, req models.UpdateTaskRequest) (*models.DailyTask, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var task *models.DailyTask
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		existing, err := tx.Tasks().FindByIDForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return fmt.Errorf("%w: title must not be empty", ErrValidation)
			}
			existing.Title = title
		}
		if req.Description != nil {
			existing.Description = strings.TrimSpace(*req.Description)
		}
		if req.WorkType != nil {
			existing.WorkType = models.ParseWorkType(*req.WorkType)
		}
		if req.Priority != nil {
			existing.Priority = models.ParsePriority(*req.Priority)
		}
		if req.EstimatedDuration != nil {
			if *req.EstimatedDuration < 0 {
				return fmt.Errorf("%w: estimated_duration must be >= 0", ErrValidation)
			}
			d := *req.EstimatedDuration
			existing.EstimatedDuration = &d
		}
		existing.UpdatedAt = s.clock.Now()
		if err := tx.Tasks().Update(ctx, existing); err != nil {
			return err
		}
		task = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *dailyTaskService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return s.store.Tasks().Delete(ctx, userID, id)
}

func (s *dailyTaskService) ForDate(ctx context.Context, userID int64, date models.Date) (*rollover.Result, error) {
	var res rollover.Result
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		candidates, err := tx.Tasks().ListForDay(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		c := rollover.NewCollection(candidates).WithClock(s.clock.Now)
		res.Date = date
		res.Tasks = c.GetTasksForDate(date)
		moved := make([]*models.DailyTask, 0, len(c.Changed()))
		stale := make(map[string]bool)
		for _, t := range c.Changed() {
			ok, err := tx.Tasks().RollOver(ctx, t, date)
			if err != nil {
				return fmt.Errorf("persist rollover of %s: %w", t.ID, err)
			}
			if !ok {
				stale[t.ID] = true
				continue
			}
			moved = append(moved, t)
		}
		res.RolledOver = moved
		if len(stale) > 0 {
			s.log.Warn("task.rollover.skipped",
				zap.Int64("user_id", userID), zap.Stringer("date", date), zap.Int("skipped", len(stale)))
			kept := res.Tasks[:0]
			for _, t := range res.Tasks {
				if !stale[t.ID] {
					kept = append(kept, t)
				}
			}
			res.Tasks = kept
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if n := len(res.RolledOver); n > 0 {
		metrics.TasksRolledOver.Add(float64(n))
		s.log.Info("task.rollover",
			zap.Int64("user_id", userID), zap.Stringer("date", date), zap.Int("moved", n))
		s.notify.TasksRolledOver(ctx, userID, date, res.RolledOver)
	}
	return &res, nil
}

func (s *dailyTaskService) Toggle(ctx context.Context, userID int64, id string, req models.ToggleTaskRequest) (*ToggleResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	out := &ToggleResult{}
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		task, err := tx.Tasks().FindByIDForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		c := rollover.NewCollection([]*models.DailyTask{task}).WithClock(s.clock.Now)
		c.Toggle(id)
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		out.Task = task

		if task.Completed {
			err = s.award(ctx, tx, task, req, out)
		} else {
			err = s.revoke(ctx, tx, task, out)
		}
		if err != nil {
			return err
		}

		out.Balance, err = tx.XP().Balance(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case out.XPDelta > 0:
		metrics.XPAwarded.Add(float64(out.XPDelta))
	case out.XPDelta < 0:
		metrics.XPRevoked.Add(float64(-out.XPDelta))
	}
	s.log.Info("task.toggle",
		zap.Int64("user_id", userID), zap.String("task_id", id),
		zap.Bool("completed", out.Task.Completed), zap.Int("xp_delta", out.XPDelta))
	return out, nil
}

func (s *dailyTaskService) award(ctx context.Context, tx repositories.Store, task *models.DailyTask, req models.ToggleTaskRequest, out *ToggleResult) error {
	today := s.clock.Today()
	streak, err := currentStreak(ctx, tx.XP(), task.UserID, today)
	if err != nil {
		return err
	}

	in := xp.ContextForTask(task.WorkType, task.Priority)
	if req.TaskType != "" {
		in.TaskType = xp.ParseTaskType(req.TaskType)
	}
	if req.Difficulty != "" {
		in.Difficulty = xp.ParseDifficulty(req.Difficulty)
	}
	local := s.clock.Local()
	in.StreakDays = streak
	in.TimeOfDay = xp.TimeOfDayFor(local)
	in.IsWeekend = xp.IsWeekend(local)
	in.CompletedInSession = req.CompletedInSession

	calc := xp.CalculateTaskXP(in)
	taskID := task.ID
	entry := &models.XPEntry{
		UserID: task.UserID,
		Kind:   models.XPEarn,
		Amount: calc.FinalXP,
		TaskID: &taskID,
		Note:   task.Title,
		Day:    today,
	}
	if err := tx.XP().Insert(ctx, entry); err != nil {
		return fmt.Errorf("record xp: %w", err)
	}
	out.Calculation = &calc
	out.XPDelta = calc.FinalXP
	return nil
}

// revoke books a compensating entry on the day the XP was earned so that
// day's productivity reflects the undo.
func (s *dailyTaskService) revoke(ctx context.Context, tx repositories.Store, task *models.DailyTask, out *ToggleResult) error {
	net, day, err := tx.XP().TaskNet(ctx, task.UserID, task.ID)
	if err != nil {
		return fmt.Errorf("task xp: %w", err)
	}
	if net <= 0 {
		return nil
	}
	if day.IsZero() {
		day = s.clock.Today()
	}
	taskID := task.ID
	entry := &models.XPEntry{
		UserID: task.UserID,
		Kind:   models.XPRevoke,
		Amount: -net,
		TaskID: &taskID,
		Note:   task.Title,
		Day:    day,
	}
	if err := tx.XP().Insert(ctx, entry); err != nil {
		return fmt.Errorf("revoke xp: %w", err)
	}
	out.XPDelta = -net
	return nil
}
